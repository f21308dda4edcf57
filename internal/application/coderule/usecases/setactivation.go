package usecases

import (
	"context"
	"errors"

	"sequor/internal/application/coderule/dto"
	"sequor/internal/domain/coderule"
	"sequor/internal/shared/biztime"
	apperrors "sequor/internal/shared/errors"
	"sequor/internal/shared/logger"
)

// SetActivationUseCase toggles whether a rule accepts allocations.
// Deactivation does not touch the counter; reactivating resumes exactly
// where the sequence left off.
type SetActivationUseCase struct {
	ruleRepo coderule.Repository
	logger   logger.Interface
}

// NewSetActivationUseCase creates a new SetActivationUseCase.
func NewSetActivationUseCase(ruleRepo coderule.Repository, logger logger.Interface) *SetActivationUseCase {
	return &SetActivationUseCase{
		ruleRepo: ruleRepo,
		logger:   logger,
	}
}

// Execute sets the rule's active flag.
func (uc *SetActivationUseCase) Execute(ctx context.Context, sid string, active bool) (*dto.CodeRuleDTO, error) {
	rule, err := uc.ruleRepo.GetBySID(ctx, sid)
	if err != nil {
		if errors.Is(err, coderule.ErrRuleNotFound) {
			return nil, apperrors.NewNotFoundError("code rule not found", "id: "+sid)
		}
		uc.logger.Errorw("failed to load code rule", "sid", sid, "error", err)
		return nil, apperrors.NewInternalError("failed to load code rule")
	}

	if active {
		rule.Activate()
	} else {
		rule.Deactivate()
	}

	if err := uc.ruleRepo.Update(ctx, rule); err != nil {
		uc.logger.Errorw("failed to update code rule activation", "sid", sid, "error", err)
		return nil, apperrors.NewInternalError("failed to update code rule")
	}

	uc.logger.Infow("code rule activation changed",
		"entity_code", rule.EntityCode(),
		"sid", rule.SID(),
		"is_active", active,
	)

	return dto.ToCodeRuleDTO(rule, biztime.NowUTC()), nil
}
