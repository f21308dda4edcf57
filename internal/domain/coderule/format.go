package coderule

import (
	"fmt"
	"strings"
	"time"

	"sequor/internal/shared/biztime"
)

// FormatCode renders the final code string for a sequence number issued at
// the given instant: prefix, optional date segment, zero-padded sequence,
// joined by the rule's separator. Pure: no counter state is consulted.
//
// Zero-padding never truncates. A sequence wider than the digit length is
// rendered at its natural width; refusing such an allocation is the
// engine's job, not the formatter's.
func (r *CodeRule) FormatCode(sequence int64, at time.Time) string {
	parts := make([]string, 0, 3)
	parts = append(parts, r.prefix)

	if r.useDate && r.dateFormat.IsValid() {
		parts = append(parts, r.dateFormat.Render(biztime.ToBizTimezone(at)))
	}

	parts = append(parts, fmt.Sprintf("%0*d", r.digitLength, sequence))

	return strings.Join(parts, r.separator)
}

// PreviewCode renders what a code would look like for this rule using a
// synthetic sequence number of 1. Used by the admin UI before saving.
func (r *CodeRule) PreviewCode(at time.Time) string {
	return r.FormatCode(1, at)
}
