package coderule

import "errors"

var (
	// ErrRuleNotFound is returned when no rule exists for the requested entity code
	ErrRuleNotFound = errors.New("code rule not found")

	// ErrRuleInactive is returned when allocation is attempted against a
	// deactivated or soft-deleted rule
	ErrRuleInactive = errors.New("code rule is inactive")

	// ErrSequenceOverflow is returned when the next sequence number would
	// exceed the capacity implied by the rule's digit length
	ErrSequenceOverflow = errors.New("sequence number exceeds digit length capacity")

	// ErrAllocationContention is returned when the optimistic counter update
	// keeps losing against concurrent allocations
	ErrAllocationContention = errors.New("allocation contention, retries exhausted")

	// ErrDuplicateEntityCode is returned when creating a rule for an entity
	// code that already has one
	ErrDuplicateEntityCode = errors.New("a code rule already exists for this entity code")
)
