// Package coderule contains the domain model for entity code generation
// rules: the CodeRule aggregate, the pure period-key and formatting
// functions, and the repository contract.
package coderule

import (
	"fmt"
	"strings"
	"time"

	"sequor/internal/shared/biztime"
	"sequor/internal/shared/id"
)

const (
	// MaxDigitLength bounds zero-padding width; 9 digits keeps the whole
	// sequence range comfortably inside int64.
	MaxDigitLength = 9
)

// CodeRule governs code generation for one entity type. Exactly one rule
// exists per entity code; the counter fields are mutated only through the
// allocation engine's compare-and-set discipline.
type CodeRule struct {
	id            uint
	sid           string // Stripe-style ID: cr_xxx
	entityCode    string // unique key, e.g. "PARTNER"; immutable after creation
	entityName    string
	entityNameEN  string
	description   string
	prefix        string
	separator     string
	digitLength   int
	useDate       bool
	dateFormat    DateFormat
	resetCycle    ResetCycle
	currentNumber int64  // last sequence issued within the current period
	lastPeriodKey string // period the counter belongs to
	isActive      bool
	isDeleted     bool
	metaData      map[string]interface{}
	createdAt     time.Time
	updatedAt     time.Time
}

// NewCodeRule creates a rule for an entity type. The counter starts at zero
// in the "no period yet" state; the first allocation yields sequence 1.
func NewCodeRule(
	entityCode string,
	entityName string,
	prefix string,
	separator string,
	digitLength int,
	useDate bool,
	dateFormat DateFormat,
	resetCycle ResetCycle,
) (*CodeRule, error) {
	entityCode = strings.ToUpper(strings.TrimSpace(entityCode))
	if entityCode == "" {
		return nil, fmt.Errorf("entity code is required")
	}
	if strings.ContainsAny(entityCode, " \t") {
		return nil, fmt.Errorf("entity code must not contain whitespace")
	}
	if entityName == "" {
		return nil, fmt.Errorf("entity name is required")
	}
	if prefix == "" {
		return nil, fmt.Errorf("prefix is required")
	}
	if digitLength < 1 || digitLength > MaxDigitLength {
		return nil, fmt.Errorf("digit length must be between 1 and %d", MaxDigitLength)
	}
	if !resetCycle.IsValid() {
		return nil, fmt.Errorf("invalid reset cycle: %s", resetCycle)
	}
	if useDate && !dateFormat.IsValid() {
		return nil, fmt.Errorf("invalid date format: %s", dateFormat)
	}

	sid, err := id.NewCodeRuleID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate SID: %w", err)
	}

	now := biztime.NowUTC()
	return &CodeRule{
		sid:           sid,
		entityCode:    entityCode,
		entityName:    entityName,
		prefix:        prefix,
		separator:     separator,
		digitLength:   digitLength,
		useDate:       useDate,
		dateFormat:    dateFormat,
		resetCycle:    resetCycle,
		currentNumber: 0,
		lastPeriodKey: PeriodKey(resetCycle, now),
		isActive:      true,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructCodeRule rebuilds a CodeRule from the persistence layer.
func ReconstructCodeRule(
	ruleID uint,
	sid string,
	entityCode string,
	entityName string,
	entityNameEN string,
	description string,
	prefix string,
	separator string,
	digitLength int,
	useDate bool,
	dateFormat DateFormat,
	resetCycle ResetCycle,
	currentNumber int64,
	lastPeriodKey string,
	isActive bool,
	isDeleted bool,
	metaData map[string]interface{},
	createdAt, updatedAt time.Time,
) *CodeRule {
	return &CodeRule{
		id:            ruleID,
		sid:           sid,
		entityCode:    entityCode,
		entityName:    entityName,
		entityNameEN:  entityNameEN,
		description:   description,
		prefix:        prefix,
		separator:     separator,
		digitLength:   digitLength,
		useDate:       useDate,
		dateFormat:    dateFormat,
		resetCycle:    resetCycle,
		currentNumber: currentNumber,
		lastPeriodKey: lastPeriodKey,
		isActive:      isActive,
		isDeleted:     isDeleted,
		metaData:      metaData,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// Getters
func (r *CodeRule) ID() uint                          { return r.id }
func (r *CodeRule) SID() string                       { return r.sid }
func (r *CodeRule) EntityCode() string                { return r.entityCode }
func (r *CodeRule) EntityName() string                { return r.entityName }
func (r *CodeRule) EntityNameEN() string              { return r.entityNameEN }
func (r *CodeRule) Description() string               { return r.description }
func (r *CodeRule) Prefix() string                    { return r.prefix }
func (r *CodeRule) Separator() string                 { return r.separator }
func (r *CodeRule) DigitLength() int                  { return r.digitLength }
func (r *CodeRule) UseDate() bool                     { return r.useDate }
func (r *CodeRule) DateFormat() DateFormat            { return r.dateFormat }
func (r *CodeRule) ResetCycle() ResetCycle            { return r.resetCycle }
func (r *CodeRule) CurrentNumber() int64              { return r.currentNumber }
func (r *CodeRule) LastPeriodKey() string             { return r.lastPeriodKey }
func (r *CodeRule) IsActive() bool                    { return r.isActive }
func (r *CodeRule) IsDeleted() bool                   { return r.isDeleted }
func (r *CodeRule) MetaData() map[string]interface{}  { return r.metaData }
func (r *CodeRule) CreatedAt() time.Time              { return r.createdAt }
func (r *CodeRule) UpdatedAt() time.Time              { return r.updatedAt }

// SetID sets the rule ID (only for persistence layer use)
func (r *CodeRule) SetID(ruleID uint) {
	r.id = ruleID
}

// MaxSequence returns the largest sequence number representable at the
// rule's digit length: 10^digitLength - 1.
func (r *CodeRule) MaxSequence() int64 {
	max := int64(1)
	for i := 0; i < r.digitLength; i++ {
		max *= 10
	}
	return max - 1
}

// CanAllocate reports whether the rule accepts allocations at all.
func (r *CodeRule) CanAllocate() error {
	if r.isDeleted || !r.isActive {
		return ErrRuleInactive
	}
	return nil
}

// AllocationPlan is the pure outcome of planning the next allocation against
// a snapshot of the rule: the sequence to claim and the period it belongs to.
type AllocationPlan struct {
	Sequence  int64
	PeriodKey string
}

// PlanAllocation computes the next sequence number for an allocation at the
// given instant without mutating the rule. A period key differing from the
// stored one means rollover: the counter restarts at 1. The plan only
// becomes effective once the engine persists it with a compare-and-set
// against the same snapshot.
func (r *CodeRule) PlanAllocation(at time.Time) (*AllocationPlan, error) {
	if err := r.CanAllocate(); err != nil {
		return nil, err
	}

	periodKey := PeriodKey(r.resetCycle, at)
	base := r.currentNumber
	if periodKey != r.lastPeriodKey {
		base = 0
	}

	next := base + 1
	if next > r.MaxSequence() {
		return nil, ErrSequenceOverflow
	}

	return &AllocationPlan{
		Sequence:  next,
		PeriodKey: periodKey,
	}, nil
}

// ApplyAllocation updates the in-memory counter state after the plan has
// been committed by the repository.
func (r *CodeRule) ApplyAllocation(plan *AllocationPlan) {
	r.currentNumber = plan.Sequence
	r.lastPeriodKey = plan.PeriodKey
	r.updatedAt = biztime.NowUTC()
}

// UpdateDisplay changes the display metadata. No behavioral effect on codes.
func (r *CodeRule) UpdateDisplay(entityName, entityNameEN, description string) error {
	if entityName == "" {
		return fmt.Errorf("entity name is required")
	}
	r.entityName = entityName
	r.entityNameEN = entityNameEN
	r.description = description
	r.updatedAt = biztime.NowUTC()
	return nil
}

// UpdateFormatting changes how future codes are rendered. Already issued
// codes are unaffected; the counter is not touched.
func (r *CodeRule) UpdateFormatting(prefix, separator string, digitLength int, useDate bool, dateFormat DateFormat) error {
	if prefix == "" {
		return fmt.Errorf("prefix is required")
	}
	if digitLength < 1 || digitLength > MaxDigitLength {
		return fmt.Errorf("digit length must be between 1 and %d", MaxDigitLength)
	}
	if digitLength < r.digitLength && r.currentNumber > 0 {
		// Narrowing below an already-issued sequence would make the next
		// code collide with history.
		narrowedMax := int64(1)
		for i := 0; i < digitLength; i++ {
			narrowedMax *= 10
		}
		if r.currentNumber >= narrowedMax-1 {
			return fmt.Errorf("digit length %d cannot represent current counter %d", digitLength, r.currentNumber)
		}
	}
	if useDate && !dateFormat.IsValid() {
		return fmt.Errorf("invalid date format: %s", dateFormat)
	}
	r.prefix = prefix
	r.separator = separator
	r.digitLength = digitLength
	r.useDate = useDate
	r.dateFormat = dateFormat
	r.updatedAt = biztime.NowUTC()
	return nil
}

// ChangeResetCycle switches the reset window for future allocations.
func (r *CodeRule) ChangeResetCycle(cycle ResetCycle) error {
	if !cycle.IsValid() {
		return fmt.Errorf("invalid reset cycle: %s", cycle)
	}
	r.resetCycle = cycle
	r.updatedAt = biztime.NowUTC()
	return nil
}

// SetMetaData replaces the free-form metadata map.
func (r *CodeRule) SetMetaData(meta map[string]interface{}) {
	r.metaData = meta
	r.updatedAt = biztime.NowUTC()
}

// Activate re-enables allocation for the rule.
func (r *CodeRule) Activate() {
	r.isActive = true
	r.updatedAt = biztime.NowUTC()
}

// Deactivate disables allocation; the rule and its history remain visible.
func (r *CodeRule) Deactivate() {
	r.isActive = false
	r.updatedAt = biztime.NowUTC()
}

// SoftDelete marks the rule deleted. Rules are never physically removed so
// historical codes stay explainable.
func (r *CodeRule) SoftDelete() {
	r.isDeleted = true
	r.isActive = false
	r.updatedAt = biztime.NowUTC()
}
