package usecases

import (
	"context"
	"errors"

	"sequor/internal/domain/coderule"
	apperrors "sequor/internal/shared/errors"
	"sequor/internal/shared/logger"
)

// DeleteCodeRuleUseCase soft-deletes a rule. The row is kept so codes that
// were issued under it remain explainable, and the entity code stays
// reserved against accidental re-registration with a colliding format.
type DeleteCodeRuleUseCase struct {
	ruleRepo coderule.Repository
	logger   logger.Interface
}

// NewDeleteCodeRuleUseCase creates a new DeleteCodeRuleUseCase.
func NewDeleteCodeRuleUseCase(ruleRepo coderule.Repository, logger logger.Interface) *DeleteCodeRuleUseCase {
	return &DeleteCodeRuleUseCase{
		ruleRepo: ruleRepo,
		logger:   logger,
	}
}

// Execute marks the rule deleted.
func (uc *DeleteCodeRuleUseCase) Execute(ctx context.Context, sid string) error {
	rule, err := uc.ruleRepo.GetBySID(ctx, sid)
	if err != nil {
		if errors.Is(err, coderule.ErrRuleNotFound) {
			return apperrors.NewNotFoundError("code rule not found", "id: "+sid)
		}
		uc.logger.Errorw("failed to load code rule", "sid", sid, "error", err)
		return apperrors.NewInternalError("failed to load code rule")
	}

	rule.SoftDelete()

	if err := uc.ruleRepo.Update(ctx, rule); err != nil {
		uc.logger.Errorw("failed to delete code rule", "sid", sid, "error", err)
		return apperrors.NewInternalError("failed to delete code rule")
	}

	uc.logger.Infow("code rule deleted", "entity_code", rule.EntityCode(), "sid", rule.SID())
	return nil
}
