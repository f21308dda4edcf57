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

// GetCodeRuleUseCase retrieves a single rule by SID or entity code.
type GetCodeRuleUseCase struct {
	ruleRepo coderule.Repository
	logger   logger.Interface
}

// NewGetCodeRuleUseCase creates a new GetCodeRuleUseCase.
func NewGetCodeRuleUseCase(ruleRepo coderule.Repository, logger logger.Interface) *GetCodeRuleUseCase {
	return &GetCodeRuleUseCase{
		ruleRepo: ruleRepo,
		logger:   logger,
	}
}

// ExecuteBySID fetches a rule by its public identifier.
func (uc *GetCodeRuleUseCase) ExecuteBySID(ctx context.Context, sid string) (*dto.CodeRuleDTO, error) {
	rule, err := uc.ruleRepo.GetBySID(ctx, sid)
	if err != nil {
		return nil, uc.mapLoadError(err, "id: "+sid)
	}
	return dto.ToCodeRuleDTO(rule, biztime.NowUTC()), nil
}

// ExecuteByEntityCode fetches a rule by the entity type it governs.
// The entity-code lookup surfaces soft-deleted rows for the allocation path;
// the admin read hides them.
func (uc *GetCodeRuleUseCase) ExecuteByEntityCode(ctx context.Context, entityCode string) (*dto.CodeRuleDTO, error) {
	rule, err := uc.ruleRepo.GetByEntityCode(ctx, entityCode)
	if err != nil {
		return nil, uc.mapLoadError(err, "entity_code: "+entityCode)
	}
	if rule.IsDeleted() {
		return nil, uc.mapLoadError(coderule.ErrRuleNotFound, "entity_code: "+entityCode)
	}
	return dto.ToCodeRuleDTO(rule, biztime.NowUTC()), nil
}

func (uc *GetCodeRuleUseCase) mapLoadError(err error, detail string) error {
	if errors.Is(err, coderule.ErrRuleNotFound) {
		return apperrors.NewNotFoundError("code rule not found", detail)
	}
	uc.logger.Errorw("failed to load code rule", "detail", detail, "error", err)
	return apperrors.NewInternalError("failed to load code rule")
}
