package coderule

import "time"

// DateFormat is the specifier for the optional date segment of a code.
// It is independent of the reset cycle: a rule may embed a full date while
// resetting monthly, or embed no date at all while resetting daily.
type DateFormat string

const (
	DateFormatYYYYMMDD DateFormat = "YYYYMMDD"
	DateFormatYYYYMM   DateFormat = "YYYYMM"
	DateFormatYYYY     DateFormat = "YYYY"
	DateFormatYYMMDD   DateFormat = "YYMMDD"
	DateFormatYYMM     DateFormat = "YYMM"
	DateFormatYY       DateFormat = "YY"
)

var dateFormatLayouts = map[DateFormat]string{
	DateFormatYYYYMMDD: "20060102",
	DateFormatYYYYMM:   "200601",
	DateFormatYYYY:     "2006",
	DateFormatYYMMDD:   "060102",
	DateFormatYYMM:     "0601",
	DateFormatYY:       "06",
}

// IsValid reports whether the specifier is supported.
func (f DateFormat) IsValid() bool {
	_, ok := dateFormatLayouts[f]
	return ok
}

func (f DateFormat) String() string {
	return string(f)
}

// Render formats the instant according to the specifier. The caller is
// responsible for converting the instant to the business timezone first so
// the date segment agrees with the period key.
func (f DateFormat) Render(t time.Time) string {
	layout, ok := dateFormatLayouts[f]
	if !ok {
		return ""
	}
	return t.Format(layout)
}
