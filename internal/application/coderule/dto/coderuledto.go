package dto

import (
	"time"

	"sequor/internal/domain/coderule"
)

// CodeRuleDTO is the transport representation of a code rule.
type CodeRuleDTO struct {
	SID           string                 `json:"id"`
	EntityCode    string                 `json:"entity_code"`
	EntityName    string                 `json:"entity_name"`
	EntityNameEN  string                 `json:"entity_name_en,omitempty"`
	Description   string                 `json:"description,omitempty"`
	Prefix        string                 `json:"prefix"`
	Separator     string                 `json:"separator"`
	DigitLength   int                    `json:"digit_length"`
	UseDate       bool                   `json:"use_date"`
	DateFormat    string                 `json:"date_format,omitempty"`
	ResetCycle    string                 `json:"reset_cycle"`
	CurrentNumber int64                  `json:"current_number"`
	LastPeriodKey string                 `json:"last_period_key"`
	IsActive      bool                   `json:"is_active"`
	ExampleCode   string                 `json:"example_code"`
	MetaData      map[string]interface{} `json:"meta_data,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// AllocationDTO is the result of a successful code allocation.
type AllocationDTO struct {
	Code           string `json:"code"`
	SequenceNumber int64  `json:"sequence_number"`
	PeriodKey      string `json:"period_key"`
	EntityCode     string `json:"entity_code"`
}

// ToCodeRuleDTO converts a domain rule to its transport representation.
// ExampleCode is a live preview rendered at the given instant.
func ToCodeRuleDTO(rule *coderule.CodeRule, at time.Time) *CodeRuleDTO {
	if rule == nil {
		return nil
	}

	return &CodeRuleDTO{
		SID:           rule.SID(),
		EntityCode:    rule.EntityCode(),
		EntityName:    rule.EntityName(),
		EntityNameEN:  rule.EntityNameEN(),
		Description:   rule.Description(),
		Prefix:        rule.Prefix(),
		Separator:     rule.Separator(),
		DigitLength:   rule.DigitLength(),
		UseDate:       rule.UseDate(),
		DateFormat:    rule.DateFormat().String(),
		ResetCycle:    rule.ResetCycle().String(),
		CurrentNumber: rule.CurrentNumber(),
		LastPeriodKey: rule.LastPeriodKey(),
		IsActive:      rule.IsActive(),
		ExampleCode:   rule.PreviewCode(at),
		MetaData:      rule.MetaData(),
		CreatedAt:     rule.CreatedAt(),
		UpdatedAt:     rule.UpdatedAt(),
	}
}

// ToCodeRuleDTOList converts a list of domain rules.
func ToCodeRuleDTOList(rules []*coderule.CodeRule, at time.Time) []*CodeRuleDTO {
	dtos := make([]*CodeRuleDTO, 0, len(rules))
	for _, rule := range rules {
		if d := ToCodeRuleDTO(rule, at); d != nil {
			dtos = append(dtos, d)
		}
	}
	return dtos
}
