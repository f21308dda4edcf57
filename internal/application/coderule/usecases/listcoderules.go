package usecases

import (
	"context"

	"sequor/internal/application/coderule/dto"
	"sequor/internal/domain/coderule"
	"sequor/internal/shared/biztime"
	apperrors "sequor/internal/shared/errors"
	"sequor/internal/shared/logger"
	"sequor/internal/shared/utils"
)

// ListCodeRulesQuery filters and paginates the rule list.
type ListCodeRulesQuery struct {
	Keyword  string
	IsActive *bool
	Page     int
	PageSize int
}

// ListCodeRulesResult is a page of rules plus the unpaginated total.
type ListCodeRulesResult struct {
	Rules      []*dto.CodeRuleDTO
	Total      int64
	Pagination utils.Pagination
}

// ListCodeRulesUseCase lists rules for the admin surface.
type ListCodeRulesUseCase struct {
	ruleRepo coderule.Repository
	logger   logger.Interface
}

// NewListCodeRulesUseCase creates a new ListCodeRulesUseCase.
func NewListCodeRulesUseCase(ruleRepo coderule.Repository, logger logger.Interface) *ListCodeRulesUseCase {
	return &ListCodeRulesUseCase{
		ruleRepo: ruleRepo,
		logger:   logger,
	}
}

// Execute returns the matching page of rules.
func (uc *ListCodeRulesUseCase) Execute(ctx context.Context, query ListCodeRulesQuery) (*ListCodeRulesResult, error) {
	pagination := utils.ValidatePagination(query.Page, query.PageSize)

	rules, total, err := uc.ruleRepo.List(ctx, coderule.ListFilter{
		Keyword:  query.Keyword,
		IsActive: query.IsActive,
		Page:     pagination.Page,
		PageSize: pagination.PageSize,
	})
	if err != nil {
		uc.logger.Errorw("failed to list code rules", "error", err)
		return nil, apperrors.NewInternalError("failed to list code rules")
	}

	return &ListCodeRulesResult{
		Rules:      dto.ToCodeRuleDTOList(rules, biztime.NowUTC()),
		Total:      total,
		Pagination: pagination,
	}, nil
}
