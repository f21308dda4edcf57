package coderule

import (
	"context"
)

// ListFilter narrows List results.
type ListFilter struct {
	Keyword  string // matches entity_code, entity_name, prefix
	IsActive *bool
	Page     int
	PageSize int
}

// Repository defines the persistence contract for code rules.
//
// CompareAndSetCounter is the atomic primitive the allocation engine is
// built on: it persists the new counter state only if the stored state
// still matches the snapshot the caller planned against.
type Repository interface {
	// Create persists a new rule. Returns ErrDuplicateEntityCode when a
	// rule (including a soft-deleted one) already holds the entity code.
	Create(ctx context.Context, rule *CodeRule) error

	// Update persists administrative field changes. Counter fields are not
	// written by Update; they move only through CompareAndSetCounter.
	Update(ctx context.Context, rule *CodeRule) error

	// GetByEntityCode retrieves a rule by its unique entity code.
	// Soft-deleted rules are excluded. Returns ErrRuleNotFound when absent.
	GetByEntityCode(ctx context.Context, entityCode string) (*CodeRule, error)

	// GetBySID retrieves a rule by its public SID, excluding soft-deleted
	// rules. Returns ErrRuleNotFound when absent.
	GetBySID(ctx context.Context, sid string) (*CodeRule, error)

	// List returns rules matching the filter plus the unpaginated total.
	List(ctx context.Context, filter ListFilter) ([]*CodeRule, int64, error)

	// CompareAndSetCounter atomically moves the counter from
	// (prevNumber, prevPeriodKey) to (nextNumber, nextPeriodKey) for the
	// rule row. Returns false with a nil error when the row has moved on
	// since the snapshot was read; the caller should re-read and retry.
	CompareAndSetCounter(ctx context.Context, ruleID uint, prevNumber int64, prevPeriodKey string, nextNumber int64, nextPeriodKey string) (bool, error)
}
