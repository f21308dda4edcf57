package handlers

import (
	"context"

	"sequor/internal/application/coderule/dto"
	"sequor/internal/application/coderule/usecases"
)

// Use case interfaces for CodeRuleHandler and AllocationHandler

type createCodeRuleUseCase interface {
	Execute(ctx context.Context, cmd usecases.CreateCodeRuleCommand) (*dto.CodeRuleDTO, error)
}

type updateCodeRuleUseCase interface {
	Execute(ctx context.Context, cmd usecases.UpdateCodeRuleCommand) (*dto.CodeRuleDTO, error)
}

type getCodeRuleUseCase interface {
	ExecuteBySID(ctx context.Context, sid string) (*dto.CodeRuleDTO, error)
	ExecuteByEntityCode(ctx context.Context, entityCode string) (*dto.CodeRuleDTO, error)
}

type listCodeRulesUseCase interface {
	Execute(ctx context.Context, query usecases.ListCodeRulesQuery) (*usecases.ListCodeRulesResult, error)
}

type deleteCodeRuleUseCase interface {
	Execute(ctx context.Context, sid string) error
}

type setActivationUseCase interface {
	Execute(ctx context.Context, sid string, active bool) (*dto.CodeRuleDTO, error)
}

type resetCounterUseCase interface {
	Execute(ctx context.Context, sid string) (*dto.CodeRuleDTO, error)
}

type previewCodeUseCase interface {
	Execute(ctx context.Context, cmd usecases.PreviewCodeCommand) (string, error)
}

type allocateCodeUseCase interface {
	Execute(ctx context.Context, entityCode string) (*dto.AllocationDTO, error)
}
