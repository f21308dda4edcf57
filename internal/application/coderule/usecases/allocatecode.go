package usecases

import (
	"context"
	"time"

	"sequor/internal/application/coderule/dto"
	"sequor/internal/domain/coderule"
	"sequor/internal/shared/biztime"
	apperrors "sequor/internal/shared/errors"
	"sequor/internal/shared/logger"
)

const (
	// DefaultMaxRetries bounds the optimistic-concurrency retry loop.
	DefaultMaxRetries = 5
	// DefaultRetryBackoff is the base delay between retries; attempt n
	// waits n times this long, so contention on a hot rule degrades
	// gradually instead of thundering.
	DefaultRetryBackoff = 10 * time.Millisecond
)

// CapacityAlertNotifier is notified when a rule runs out of sequence
// capacity, or gets close to it. Implementations must not block allocation.
type CapacityAlertNotifier interface {
	NotifySequenceOverflow(entityCode string, digitLength int, periodKey string)
	NotifyCapacityThreshold(entityCode string, used, max int64, periodKey string)
}

// AllocateCodeUseCase issues the next human-readable code for an entity
// type. The whole load-plan-persist sequence is linearizable per rule row:
// the counter update only commits when the row still matches the snapshot
// the plan was computed from, and a lost race re-reads and retries. Rules
// for different entity types never contend with each other.
type AllocateCodeUseCase struct {
	ruleRepo     coderule.Repository
	notifier     CapacityAlertNotifier
	logger       logger.Interface
	now          func() time.Time
	maxRetries   int
	retryBackoff time.Duration
}

// NewAllocateCodeUseCase creates a new AllocateCodeUseCase. notifier may be
// nil when capacity alerting is not configured.
func NewAllocateCodeUseCase(
	ruleRepo coderule.Repository,
	notifier CapacityAlertNotifier,
	logger logger.Interface,
) *AllocateCodeUseCase {
	return &AllocateCodeUseCase{
		ruleRepo:     ruleRepo,
		notifier:     notifier,
		logger:       logger,
		now:          biztime.NowUTC,
		maxRetries:   DefaultMaxRetries,
		retryBackoff: DefaultRetryBackoff,
	}
}

// WithClock overrides the time source. Used by tests to simulate period
// boundaries deterministically.
func (uc *AllocateCodeUseCase) WithClock(now func() time.Time) *AllocateCodeUseCase {
	uc.now = now
	return uc
}

// WithRetryPolicy overrides the contention retry bounds.
func (uc *AllocateCodeUseCase) WithRetryPolicy(maxRetries int, backoff time.Duration) *AllocateCodeUseCase {
	if maxRetries > 0 {
		uc.maxRetries = maxRetries
	}
	uc.retryBackoff = backoff
	return uc
}

// Execute allocates the next code for the entity type. On success exactly
// one counter mutation has been committed; on any error none has.
func (uc *AllocateCodeUseCase) Execute(ctx context.Context, entityCode string) (*dto.AllocationDTO, error) {
	for attempt := 1; attempt <= uc.maxRetries; attempt++ {
		result, retry, err := uc.tryAllocate(ctx, entityCode)
		if err != nil {
			return nil, err
		}
		if !retry {
			return result, nil
		}

		uc.logger.Debugw("allocation lost optimistic race, retrying",
			"entity_code", entityCode,
			"attempt", attempt,
		)

		if uc.retryBackoff > 0 {
			select {
			case <-ctx.Done():
				return nil, apperrors.NewUnavailableError("allocation cancelled", ctx.Err().Error())
			case <-time.After(time.Duration(attempt) * uc.retryBackoff):
			}
		}
	}

	uc.logger.Warnw("allocation contention retries exhausted",
		"entity_code", entityCode,
		"max_retries", uc.maxRetries,
	)
	return nil, apperrors.NewUnavailableError(
		"code allocation is contended, please retry",
		coderule.ErrAllocationContention.Error(),
	)
}

// tryAllocate performs one optimistic attempt. retry=true means the row
// moved between snapshot and commit and the caller should loop.
func (uc *AllocateCodeUseCase) tryAllocate(ctx context.Context, entityCode string) (*dto.AllocationDTO, bool, error) {
	rule, err := uc.ruleRepo.GetByEntityCode(ctx, entityCode)
	if err != nil {
		if err == coderule.ErrRuleNotFound {
			return nil, false, apperrors.NewNotFoundError("code rule not found", "entity_code: "+entityCode)
		}
		uc.logger.Errorw("failed to load code rule", "entity_code", entityCode, "error", err)
		return nil, false, apperrors.NewInternalError("failed to load code rule")
	}

	at := uc.now()
	plan, err := rule.PlanAllocation(at)
	if err != nil {
		switch err {
		case coderule.ErrRuleInactive:
			return nil, false, apperrors.NewConflictError("code rule is inactive", "entity_code: "+entityCode)
		case coderule.ErrSequenceOverflow:
			uc.alertOverflow(rule)
			return nil, false, apperrors.NewConflictError(
				"sequence capacity exhausted, widen digit length or change reset cycle",
				"entity_code: "+entityCode,
			)
		default:
			return nil, false, apperrors.NewInternalError("failed to plan allocation")
		}
	}

	// The rollover decision is part of the compare condition: committing
	// requires the row to still hold the exact counter and period key the
	// plan was computed from.
	committed, err := uc.ruleRepo.CompareAndSetCounter(
		ctx,
		rule.ID(),
		rule.CurrentNumber(), rule.LastPeriodKey(),
		plan.Sequence, plan.PeriodKey,
	)
	if err != nil {
		uc.logger.Errorw("failed to persist counter", "entity_code", entityCode, "error", err)
		return nil, false, apperrors.NewInternalError("failed to persist allocation")
	}
	if !committed {
		return nil, true, nil
	}

	rule.ApplyAllocation(plan)
	code := rule.FormatCode(plan.Sequence, at)

	uc.logger.Infow("allocated entity code",
		"entity_code", entityCode,
		"code", code,
		"sequence_number", plan.Sequence,
		"period_key", plan.PeriodKey,
	)

	uc.alertNearCapacity(rule, plan)

	return &dto.AllocationDTO{
		Code:           code,
		SequenceNumber: plan.Sequence,
		PeriodKey:      plan.PeriodKey,
		EntityCode:     rule.EntityCode(),
	}, false, nil
}

func (uc *AllocateCodeUseCase) alertOverflow(rule *coderule.CodeRule) {
	if uc.notifier == nil {
		return
	}
	uc.notifier.NotifySequenceOverflow(rule.EntityCode(), rule.DigitLength(), rule.LastPeriodKey())
}

func (uc *AllocateCodeUseCase) alertNearCapacity(rule *coderule.CodeRule, plan *coderule.AllocationPlan) {
	if uc.notifier == nil {
		return
	}
	uc.notifier.NotifyCapacityThreshold(rule.EntityCode(), plan.Sequence, rule.MaxSequence(), plan.PeriodKey)
}
