package usecases

import (
	"context"
	"errors"
	"time"

	"sequor/internal/application/coderule/dto"
	"sequor/internal/domain/coderule"
	"sequor/internal/shared/biztime"
	apperrors "sequor/internal/shared/errors"
	"sequor/internal/shared/logger"
)

// ResetCounterUseCase forcibly rewinds a rule's counter to zero for the
// current period. This is an operator action for repairing a rule after a
// misconfiguration; the next allocation yields sequence 1, so it must only
// be used when codes issued in the current period are known to be void.
//
// The rewind goes through the same compare-and-set primitive as allocation,
// so it never tramples a concurrent allocation it did not observe.
type ResetCounterUseCase struct {
	ruleRepo coderule.Repository
	logger   logger.Interface
	now      func() time.Time
}

// NewResetCounterUseCase creates a new ResetCounterUseCase.
func NewResetCounterUseCase(ruleRepo coderule.Repository, logger logger.Interface) *ResetCounterUseCase {
	return &ResetCounterUseCase{
		ruleRepo: ruleRepo,
		logger:   logger,
		now:      biztime.NowUTC,
	}
}

// WithClock overrides the time source for tests.
func (uc *ResetCounterUseCase) WithClock(now func() time.Time) *ResetCounterUseCase {
	uc.now = now
	return uc
}

// Execute rewinds the counter. Fails with a conflict when an allocation
// slips in between the read and the write; the operator re-issues the reset.
func (uc *ResetCounterUseCase) Execute(ctx context.Context, sid string) (*dto.CodeRuleDTO, error) {
	rule, err := uc.ruleRepo.GetBySID(ctx, sid)
	if err != nil {
		if errors.Is(err, coderule.ErrRuleNotFound) {
			return nil, apperrors.NewNotFoundError("code rule not found", "id: "+sid)
		}
		uc.logger.Errorw("failed to load code rule", "sid", sid, "error", err)
		return nil, apperrors.NewInternalError("failed to load code rule")
	}

	at := uc.now()
	periodKey := coderule.PeriodKey(rule.ResetCycle(), at)

	committed, err := uc.ruleRepo.CompareAndSetCounter(
		ctx,
		rule.ID(),
		rule.CurrentNumber(), rule.LastPeriodKey(),
		0, periodKey,
	)
	if err != nil {
		uc.logger.Errorw("failed to reset counter", "sid", sid, "error", err)
		return nil, apperrors.NewInternalError("failed to reset counter")
	}
	if !committed {
		return nil, apperrors.NewConflictError(
			"counter moved during reset, re-issue the reset",
			"entity_code: "+rule.EntityCode(),
		)
	}

	uc.logger.Warnw("code rule counter reset",
		"entity_code", rule.EntityCode(),
		"sid", rule.SID(),
		"previous_number", rule.CurrentNumber(),
		"period_key", periodKey,
	)

	rule.ApplyAllocation(&coderule.AllocationPlan{Sequence: 0, PeriodKey: periodKey})
	return dto.ToCodeRuleDTO(rule, at), nil
}
