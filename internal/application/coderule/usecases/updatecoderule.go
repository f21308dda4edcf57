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

// UpdateCodeRuleCommand updates a rule. Nil pointers mean "leave unchanged";
// formatting fields travel together because their validity is interdependent.
type UpdateCodeRuleCommand struct {
	SID          string
	EntityName   *string
	EntityNameEN *string
	Description  *string
	Prefix       *string
	Separator    *string
	DigitLength  *int
	UseDate      *bool
	DateFormat   *string
	ResetCycle   *string
	MetaData     map[string]interface{}
}

// UpdateCodeRuleUseCase applies administrative changes to a rule. The counter
// fields are out of scope here; they only move through allocation and
// counter reset.
type UpdateCodeRuleUseCase struct {
	ruleRepo coderule.Repository
	logger   logger.Interface
}

// NewUpdateCodeRuleUseCase creates a new UpdateCodeRuleUseCase.
func NewUpdateCodeRuleUseCase(ruleRepo coderule.Repository, logger logger.Interface) *UpdateCodeRuleUseCase {
	return &UpdateCodeRuleUseCase{
		ruleRepo: ruleRepo,
		logger:   logger,
	}
}

// Execute loads the rule, applies the requested changes and persists them.
func (uc *UpdateCodeRuleUseCase) Execute(ctx context.Context, cmd UpdateCodeRuleCommand) (*dto.CodeRuleDTO, error) {
	rule, err := uc.loadRule(ctx, cmd.SID)
	if err != nil {
		return nil, err
	}

	if cmd.EntityName != nil || cmd.EntityNameEN != nil || cmd.Description != nil {
		name := rule.EntityName()
		nameEN := rule.EntityNameEN()
		desc := rule.Description()
		if cmd.EntityName != nil {
			name = *cmd.EntityName
		}
		if cmd.EntityNameEN != nil {
			nameEN = *cmd.EntityNameEN
		}
		if cmd.Description != nil {
			desc = *cmd.Description
		}
		if err := rule.UpdateDisplay(name, nameEN, desc); err != nil {
			return nil, apperrors.NewValidationError("invalid code rule update", err.Error())
		}
	}

	if cmd.Prefix != nil || cmd.Separator != nil || cmd.DigitLength != nil || cmd.UseDate != nil || cmd.DateFormat != nil {
		prefix := rule.Prefix()
		separator := rule.Separator()
		digitLength := rule.DigitLength()
		useDate := rule.UseDate()
		dateFormat := rule.DateFormat()
		if cmd.Prefix != nil {
			prefix = *cmd.Prefix
		}
		if cmd.Separator != nil {
			separator = *cmd.Separator
		}
		if cmd.DigitLength != nil {
			digitLength = *cmd.DigitLength
		}
		if cmd.UseDate != nil {
			useDate = *cmd.UseDate
		}
		if cmd.DateFormat != nil {
			dateFormat = coderule.DateFormat(*cmd.DateFormat)
		}
		if err := rule.UpdateFormatting(prefix, separator, digitLength, useDate, dateFormat); err != nil {
			return nil, apperrors.NewValidationError("invalid code rule update", err.Error())
		}
	}

	if cmd.ResetCycle != nil {
		if err := rule.ChangeResetCycle(coderule.ResetCycle(*cmd.ResetCycle)); err != nil {
			return nil, apperrors.NewValidationError("invalid code rule update", err.Error())
		}
	}

	if cmd.MetaData != nil {
		rule.SetMetaData(cmd.MetaData)
	}

	if err := uc.ruleRepo.Update(ctx, rule); err != nil {
		uc.logger.Errorw("failed to update code rule", "sid", cmd.SID, "error", err)
		return nil, apperrors.NewInternalError("failed to update code rule")
	}

	uc.logger.Infow("code rule updated", "entity_code", rule.EntityCode(), "sid", rule.SID())

	return dto.ToCodeRuleDTO(rule, biztime.NowUTC()), nil
}

func (uc *UpdateCodeRuleUseCase) loadRule(ctx context.Context, sid string) (*coderule.CodeRule, error) {
	rule, err := uc.ruleRepo.GetBySID(ctx, sid)
	if err != nil {
		if errors.Is(err, coderule.ErrRuleNotFound) {
			return nil, apperrors.NewNotFoundError("code rule not found", "id: "+sid)
		}
		uc.logger.Errorw("failed to load code rule", "sid", sid, "error", err)
		return nil, apperrors.NewInternalError("failed to load code rule")
	}
	return rule, nil
}
