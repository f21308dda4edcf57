package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sequor/internal/application/coderule/dto"
	"sequor/internal/application/coderule/usecases"
	"sequor/internal/interfaces/http/handlers/testutil"
	apperrors "sequor/internal/shared/errors"
	"sequor/internal/shared/utils"
)

// =====================================================================
// Mock use cases
// =====================================================================

type mockCreateCodeRuleUC struct {
	result *dto.CodeRuleDTO
	err    error
	gotCmd usecases.CreateCodeRuleCommand
}

func (m *mockCreateCodeRuleUC) Execute(_ context.Context, cmd usecases.CreateCodeRuleCommand) (*dto.CodeRuleDTO, error) {
	m.gotCmd = cmd
	return m.result, m.err
}

type mockUpdateCodeRuleUC struct {
	result *dto.CodeRuleDTO
	err    error
	gotCmd usecases.UpdateCodeRuleCommand
}

func (m *mockUpdateCodeRuleUC) Execute(_ context.Context, cmd usecases.UpdateCodeRuleCommand) (*dto.CodeRuleDTO, error) {
	m.gotCmd = cmd
	return m.result, m.err
}

type mockGetCodeRuleUC struct {
	result *dto.CodeRuleDTO
	err    error
}

func (m *mockGetCodeRuleUC) ExecuteBySID(_ context.Context, _ string) (*dto.CodeRuleDTO, error) {
	return m.result, m.err
}

func (m *mockGetCodeRuleUC) ExecuteByEntityCode(_ context.Context, _ string) (*dto.CodeRuleDTO, error) {
	return m.result, m.err
}

type mockListCodeRulesUC struct {
	result *usecases.ListCodeRulesResult
	err    error
}

func (m *mockListCodeRulesUC) Execute(_ context.Context, _ usecases.ListCodeRulesQuery) (*usecases.ListCodeRulesResult, error) {
	return m.result, m.err
}

type mockDeleteCodeRuleUC struct {
	err error
}

func (m *mockDeleteCodeRuleUC) Execute(_ context.Context, _ string) error {
	return m.err
}

type mockSetActivationUC struct {
	result    *dto.CodeRuleDTO
	err       error
	gotActive bool
}

func (m *mockSetActivationUC) Execute(_ context.Context, _ string, active bool) (*dto.CodeRuleDTO, error) {
	m.gotActive = active
	return m.result, m.err
}

type mockResetCounterUC struct {
	result *dto.CodeRuleDTO
	err    error
}

func (m *mockResetCounterUC) Execute(_ context.Context, _ string) (*dto.CodeRuleDTO, error) {
	return m.result, m.err
}

type mockPreviewCodeUC struct {
	code string
	err  error
}

func (m *mockPreviewCodeUC) Execute(_ context.Context, _ usecases.PreviewCodeCommand) (string, error) {
	return m.code, m.err
}

func newHandler(
	create *mockCreateCodeRuleUC,
	update *mockUpdateCodeRuleUC,
	get *mockGetCodeRuleUC,
	list *mockListCodeRulesUC,
	del *mockDeleteCodeRuleUC,
	activation *mockSetActivationUC,
	reset *mockResetCounterUC,
	preview *mockPreviewCodeUC,
) *CodeRuleHandler {
	if create == nil {
		create = &mockCreateCodeRuleUC{}
	}
	if update == nil {
		update = &mockUpdateCodeRuleUC{}
	}
	if get == nil {
		get = &mockGetCodeRuleUC{}
	}
	if list == nil {
		list = &mockListCodeRulesUC{}
	}
	if del == nil {
		del = &mockDeleteCodeRuleUC{}
	}
	if activation == nil {
		activation = &mockSetActivationUC{}
	}
	if reset == nil {
		reset = &mockResetCounterUC{}
	}
	if preview == nil {
		preview = &mockPreviewCodeUC{}
	}
	return NewCodeRuleHandler(create, update, get, list, del, activation, reset, preview)
}

func sampleRuleDTO() *dto.CodeRuleDTO {
	return &dto.CodeRuleDTO{
		SID:         "cr_abc123",
		EntityCode:  "PARTNER",
		EntityName:  "거래처",
		Prefix:      "PTN",
		Separator:   "-",
		DigitLength: 4,
		ResetCycle:  "NONE",
		IsActive:    true,
		ExampleCode: "PTN-0001",
	}
}

// =====================================================================
// Tests
// =====================================================================

func TestCodeRuleHandler_CreateCodeRule(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		create := &mockCreateCodeRuleUC{result: sampleRuleDTO()}
		h := newHandler(create, nil, nil, nil, nil, nil, nil, nil)

		c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/code-rules", CreateCodeRuleRequest{
			EntityCode:  "PARTNER",
			EntityName:  "거래처",
			Prefix:      "PTN",
			Separator:   "-",
			DigitLength: 4,
			ResetCycle:  "NONE",
		})
		h.CreateCodeRule(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "PARTNER", create.gotCmd.EntityCode)

		var resp testutil.APIResponse
		require.NoError(t, testutil.ParseResponse(w, &resp))
		assert.True(t, resp.Success)
	})

	t.Run("missing required fields", func(t *testing.T) {
		h := newHandler(nil, nil, nil, nil, nil, nil, nil, nil)

		c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/code-rules", map[string]interface{}{
			"entity_code": "PARTNER",
		})
		h.CreateCodeRule(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid reset cycle rejected by binding", func(t *testing.T) {
		h := newHandler(nil, nil, nil, nil, nil, nil, nil, nil)

		c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/code-rules", CreateCodeRuleRequest{
			EntityCode:  "PARTNER",
			EntityName:  "거래처",
			Prefix:      "PTN",
			DigitLength: 4,
			ResetCycle:  "WEEKLY",
		})
		h.CreateCodeRule(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("duplicate entity code", func(t *testing.T) {
		create := &mockCreateCodeRuleUC{err: apperrors.NewConflictError("a code rule already exists for this entity code")}
		h := newHandler(create, nil, nil, nil, nil, nil, nil, nil)

		c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/code-rules", CreateCodeRuleRequest{
			EntityCode:  "PARTNER",
			EntityName:  "거래처",
			Prefix:      "PTN",
			DigitLength: 4,
			ResetCycle:  "NONE",
		})
		h.CreateCodeRule(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestCodeRuleHandler_UpdateCodeRule(t *testing.T) {
	t.Run("partial body maps to pointer command", func(t *testing.T) {
		update := &mockUpdateCodeRuleUC{result: sampleRuleDTO()}
		h := newHandler(nil, update, nil, nil, nil, nil, nil, nil)

		c, w := testutil.NewTestContext(http.MethodPut, "/api/v1/code-rules/cr_abc123", map[string]interface{}{
			"entity_name": "Business Partner",
		})
		testutil.SetURLParam(c, "id", "cr_abc123")
		h.UpdateCodeRule(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "cr_abc123", update.gotCmd.SID)
		require.NotNil(t, update.gotCmd.EntityName)
		assert.Equal(t, "Business Partner", *update.gotCmd.EntityName)
		assert.Nil(t, update.gotCmd.Prefix)
	})

	t.Run("not found", func(t *testing.T) {
		update := &mockUpdateCodeRuleUC{err: apperrors.NewNotFoundError("code rule not found")}
		h := newHandler(nil, update, nil, nil, nil, nil, nil, nil)

		c, w := testutil.NewTestContext(http.MethodPut, "/api/v1/code-rules/cr_missing", map[string]interface{}{})
		testutil.SetURLParam(c, "id", "cr_missing")
		h.UpdateCodeRule(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCodeRuleHandler_GetCodeRule(t *testing.T) {
	get := &mockGetCodeRuleUC{result: sampleRuleDTO()}
	h := newHandler(nil, nil, get, nil, nil, nil, nil, nil)

	c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/code-rules/cr_abc123", nil)
	testutil.SetURLParam(c, "id", "cr_abc123")
	h.GetCodeRule(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	var rule dto.CodeRuleDTO
	require.NoError(t, json.Unmarshal(resp.Data, &rule))
	assert.Equal(t, "PTN-0001", rule.ExampleCode)
}

func TestCodeRuleHandler_ListCodeRules(t *testing.T) {
	list := &mockListCodeRulesUC{result: &usecases.ListCodeRulesResult{
		Rules:      []*dto.CodeRuleDTO{sampleRuleDTO()},
		Total:      1,
		Pagination: utils.Pagination{Page: 1, PageSize: 20},
	}}
	h := newHandler(nil, nil, nil, list, nil, nil, nil, nil)

	c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/code-rules", nil)
	testutil.SetQueryParams(c, map[string]string{"is_active": "true"})
	h.ListCodeRules(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.True(t, resp.Success)
}

func TestCodeRuleHandler_DeleteCodeRule(t *testing.T) {
	h := newHandler(nil, nil, nil, nil, &mockDeleteCodeRuleUC{}, nil, nil, nil)

	c, _ := testutil.NewTestContext(http.MethodDelete, "/api/v1/code-rules/cr_abc123", nil)
	testutil.SetURLParam(c, "id", "cr_abc123")
	h.DeleteCodeRule(c)

	// NoContentResponse sets status via c.Status() which may not flush to ResponseRecorder,
	// so we check the gin writer's status directly.
	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
}

func TestCodeRuleHandler_UpdateCodeRuleStatus(t *testing.T) {
	t.Run("deactivate", func(t *testing.T) {
		activation := &mockSetActivationUC{result: sampleRuleDTO()}
		h := newHandler(nil, nil, nil, nil, nil, activation, nil, nil)

		c, w := testutil.NewTestContext(http.MethodPatch, "/api/v1/code-rules/cr_abc123/status", UpdateCodeRuleStatusRequest{
			Status: "inactive",
		})
		testutil.SetURLParam(c, "id", "cr_abc123")
		h.UpdateCodeRuleStatus(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.False(t, activation.gotActive)
	})

	t.Run("invalid status", func(t *testing.T) {
		h := newHandler(nil, nil, nil, nil, nil, nil, nil, nil)

		c, w := testutil.NewTestContext(http.MethodPatch, "/api/v1/code-rules/cr_abc123/status", UpdateCodeRuleStatusRequest{
			Status: "paused",
		})
		testutil.SetURLParam(c, "id", "cr_abc123")
		h.UpdateCodeRuleStatus(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCodeRuleHandler_ResetCounter(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		reset := &mockResetCounterUC{result: sampleRuleDTO()}
		h := newHandler(nil, nil, nil, nil, nil, nil, reset, nil)

		c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/code-rules/cr_abc123/reset-counter", nil)
		testutil.SetURLParam(c, "id", "cr_abc123")
		h.ResetCounter(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("lost race reports conflict", func(t *testing.T) {
		reset := &mockResetCounterUC{err: apperrors.NewConflictError("counter moved during reset, re-issue the reset")}
		h := newHandler(nil, nil, nil, nil, nil, nil, reset, nil)

		c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/code-rules/cr_abc123/reset-counter", nil)
		testutil.SetURLParam(c, "id", "cr_abc123")
		h.ResetCounter(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestCodeRuleHandler_PreviewTransientCode(t *testing.T) {
	preview := &mockPreviewCodeUC{code: "ORD2501041043"}
	h := newHandler(nil, nil, nil, nil, nil, nil, nil, preview)

	c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/code-rules/preview", PreviewCodeRequest{
		Prefix:      "ORD",
		DigitLength: 4,
		UseDate:     true,
		DateFormat:  "YYMMDD",
		ResetCycle:  "DAILY",
		Sequence:    1043,
	})
	h.PreviewTransientCode(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	var payload map[string]string
	require.NoError(t, json.Unmarshal(resp.Data, &payload))
	assert.Equal(t, "ORD2501041043", payload["example_code"])
}
