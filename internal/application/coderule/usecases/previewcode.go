package usecases

import (
	"context"
	"errors"
	"time"

	"sequor/internal/domain/coderule"
	"sequor/internal/shared/biztime"
	apperrors "sequor/internal/shared/errors"
)

// PreviewCodeCommand renders sample codes without consuming sequence
// numbers. Either SID targets an existing rule, or the formatting fields
// describe a transient rule that may not be saved yet.
type PreviewCodeCommand struct {
	SID string

	Prefix      string
	Separator   string
	DigitLength int
	UseDate     bool
	DateFormat  string
	ResetCycle  string

	Sequence int64
	At       *time.Time
}

// PreviewCodeUseCase renders an example code for a rule configuration.
// Nothing is persisted and no counter moves.
type PreviewCodeUseCase struct {
	ruleRepo coderule.Repository
}

// NewPreviewCodeUseCase creates a new PreviewCodeUseCase.
func NewPreviewCodeUseCase(ruleRepo coderule.Repository) *PreviewCodeUseCase {
	return &PreviewCodeUseCase{ruleRepo: ruleRepo}
}

// Execute renders the preview.
func (uc *PreviewCodeUseCase) Execute(ctx context.Context, cmd PreviewCodeCommand) (string, error) {
	at := biztime.NowUTC()
	if cmd.At != nil {
		at = *cmd.At
	}
	sequence := cmd.Sequence
	if sequence < 1 {
		sequence = 1
	}

	if cmd.SID != "" {
		rule, err := uc.ruleRepo.GetBySID(ctx, cmd.SID)
		if err != nil {
			if errors.Is(err, coderule.ErrRuleNotFound) {
				return "", apperrors.NewNotFoundError("code rule not found", "id: "+cmd.SID)
			}
			return "", apperrors.NewInternalError("failed to load code rule")
		}
		return rule.FormatCode(sequence, at), nil
	}

	resetCycle := coderule.ResetCycle(cmd.ResetCycle)
	if cmd.ResetCycle == "" {
		resetCycle = coderule.ResetCycleNone
	}
	rule, err := coderule.NewCodeRule(
		"PREVIEW", "preview",
		cmd.Prefix, cmd.Separator, cmd.DigitLength,
		cmd.UseDate, coderule.DateFormat(cmd.DateFormat), resetCycle,
	)
	if err != nil {
		return "", apperrors.NewValidationError("invalid preview configuration", err.Error())
	}
	return rule.FormatCode(sequence, at), nil
}
