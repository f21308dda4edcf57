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

// CreateCodeRuleCommand carries the fields for registering a new rule.
type CreateCodeRuleCommand struct {
	EntityCode   string
	EntityName   string
	EntityNameEN string
	Description  string
	Prefix       string
	Separator    string
	DigitLength  int
	UseDate      bool
	DateFormat   string
	ResetCycle   string
	MetaData     map[string]interface{}
}

// CreateCodeRuleUseCase registers a code generation rule for an entity type.
type CreateCodeRuleUseCase struct {
	ruleRepo coderule.Repository
	logger   logger.Interface
}

// NewCreateCodeRuleUseCase creates a new CreateCodeRuleUseCase.
func NewCreateCodeRuleUseCase(ruleRepo coderule.Repository, logger logger.Interface) *CreateCodeRuleUseCase {
	return &CreateCodeRuleUseCase{
		ruleRepo: ruleRepo,
		logger:   logger,
	}
}

// Execute validates the command, builds the rule and persists it.
func (uc *CreateCodeRuleUseCase) Execute(ctx context.Context, cmd CreateCodeRuleCommand) (*dto.CodeRuleDTO, error) {
	rule, err := coderule.NewCodeRule(
		cmd.EntityCode,
		cmd.EntityName,
		cmd.Prefix,
		cmd.Separator,
		cmd.DigitLength,
		cmd.UseDate,
		coderule.DateFormat(cmd.DateFormat),
		coderule.ResetCycle(cmd.ResetCycle),
	)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid code rule", err.Error())
	}

	if cmd.EntityNameEN != "" || cmd.Description != "" {
		if err := rule.UpdateDisplay(cmd.EntityName, cmd.EntityNameEN, cmd.Description); err != nil {
			return nil, apperrors.NewValidationError("invalid code rule", err.Error())
		}
	}
	if cmd.MetaData != nil {
		rule.SetMetaData(cmd.MetaData)
	}

	if err := uc.ruleRepo.Create(ctx, rule); err != nil {
		if errors.Is(err, coderule.ErrDuplicateEntityCode) {
			return nil, apperrors.NewConflictError(
				"a code rule already exists for this entity code",
				"entity_code: "+rule.EntityCode(),
			)
		}
		uc.logger.Errorw("failed to create code rule", "entity_code", rule.EntityCode(), "error", err)
		return nil, apperrors.NewInternalError("failed to create code rule")
	}

	uc.logger.Infow("code rule created",
		"entity_code", rule.EntityCode(),
		"sid", rule.SID(),
		"reset_cycle", string(rule.ResetCycle()),
	)

	return dto.ToCodeRuleDTO(rule, biztime.NowUTC()), nil
}
