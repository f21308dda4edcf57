package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"sequor/internal/application/coderule/usecases"
	apperrors "sequor/internal/shared/errors"
	"sequor/internal/shared/logger"
	"sequor/internal/shared/utils"
)

// CodeRuleHandler serves the code rule admin API.
type CodeRuleHandler struct {
	createUC        createCodeRuleUseCase
	updateUC        updateCodeRuleUseCase
	getUC           getCodeRuleUseCase
	listUC          listCodeRulesUseCase
	deleteUC        deleteCodeRuleUseCase
	setActivationUC setActivationUseCase
	resetCounterUC  resetCounterUseCase
	previewUC       previewCodeUseCase
	logger          logger.Interface
}

func NewCodeRuleHandler(
	createUC createCodeRuleUseCase,
	updateUC updateCodeRuleUseCase,
	getUC getCodeRuleUseCase,
	listUC listCodeRulesUseCase,
	deleteUC deleteCodeRuleUseCase,
	setActivationUC setActivationUseCase,
	resetCounterUC resetCounterUseCase,
	previewUC previewCodeUseCase,
) *CodeRuleHandler {
	return &CodeRuleHandler{
		createUC:        createUC,
		updateUC:        updateUC,
		getUC:           getUC,
		listUC:          listUC,
		deleteUC:        deleteUC,
		setActivationUC: setActivationUC,
		resetCounterUC:  resetCounterUC,
		previewUC:       previewUC,
		logger:          logger.NewLogger(),
	}
}

type CreateCodeRuleRequest struct {
	EntityCode   string                 `json:"entity_code" binding:"required,entitycode"`
	EntityName   string                 `json:"entity_name" binding:"required"`
	EntityNameEN string                 `json:"entity_name_en"`
	Description  string                 `json:"description"`
	Prefix       string                 `json:"prefix" binding:"required"`
	Separator    string                 `json:"separator"`
	DigitLength  int                    `json:"digit_length" binding:"required,min=1,max=9"`
	UseDate      bool                   `json:"use_date"`
	DateFormat   string                 `json:"date_format"`
	ResetCycle   string                 `json:"reset_cycle" binding:"required,oneof=NONE DAILY MONTHLY YEARLY"`
	MetaData     map[string]interface{} `json:"meta_data"`
}

type UpdateCodeRuleRequest struct {
	EntityName   *string                `json:"entity_name"`
	EntityNameEN *string                `json:"entity_name_en"`
	Description  *string                `json:"description"`
	Prefix       *string                `json:"prefix"`
	Separator    *string                `json:"separator"`
	DigitLength  *int                   `json:"digit_length"`
	UseDate      *bool                  `json:"use_date"`
	DateFormat   *string                `json:"date_format"`
	ResetCycle   *string                `json:"reset_cycle"`
	MetaData     map[string]interface{} `json:"meta_data"`
}

// UpdateCodeRuleStatusRequest toggles whether a rule accepts allocations.
type UpdateCodeRuleStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active inactive"`
}

type PreviewCodeRequest struct {
	Prefix      string     `json:"prefix"`
	Separator   string     `json:"separator"`
	DigitLength int        `json:"digit_length"`
	UseDate     bool       `json:"use_date"`
	DateFormat  string     `json:"date_format"`
	ResetCycle  string     `json:"reset_cycle"`
	Sequence    int64      `json:"sequence"`
	At          *time.Time `json:"at"`
}

func (h *CodeRuleHandler) CreateCodeRule(c *gin.Context) {
	var req CreateCodeRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create code rule", "error", err)
		utils.ErrorResponseWithError(c, apperrors.NewValidationError("invalid request body", err.Error()))
		return
	}

	cmd := usecases.CreateCodeRuleCommand{
		EntityCode:   req.EntityCode,
		EntityName:   req.EntityName,
		EntityNameEN: req.EntityNameEN,
		Description:  req.Description,
		Prefix:       req.Prefix,
		Separator:    req.Separator,
		DigitLength:  req.DigitLength,
		UseDate:      req.UseDate,
		DateFormat:   req.DateFormat,
		ResetCycle:   req.ResetCycle,
		MetaData:     req.MetaData,
	}

	result, err := h.createUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Code rule created successfully")
}

func (h *CodeRuleHandler) UpdateCodeRule(c *gin.Context) {
	sid := c.Param("id")

	var req UpdateCodeRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update code rule", "rule_id", sid, "error", err)
		utils.ErrorResponseWithError(c, apperrors.NewValidationError("invalid request body", err.Error()))
		return
	}

	cmd := usecases.UpdateCodeRuleCommand{
		SID:          sid,
		EntityName:   req.EntityName,
		EntityNameEN: req.EntityNameEN,
		Description:  req.Description,
		Prefix:       req.Prefix,
		Separator:    req.Separator,
		DigitLength:  req.DigitLength,
		UseDate:      req.UseDate,
		DateFormat:   req.DateFormat,
		ResetCycle:   req.ResetCycle,
		MetaData:     req.MetaData,
	}

	result, err := h.updateUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, 200, "Code rule updated successfully", result)
}

func (h *CodeRuleHandler) GetCodeRule(c *gin.Context) {
	result, err := h.getUC.ExecuteBySID(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, 200, "", result)
}

func (h *CodeRuleHandler) GetCodeRuleByEntityCode(c *gin.Context) {
	result, err := h.getUC.ExecuteByEntityCode(c.Request.Context(), c.Param("entity_code"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, 200, "", result)
}

func (h *CodeRuleHandler) ListCodeRules(c *gin.Context) {
	pagination := utils.ParsePagination(c)

	query := usecases.ListCodeRulesQuery{
		Keyword:  c.Query("keyword"),
		Page:     pagination.Page,
		PageSize: pagination.PageSize,
	}

	if isActive := c.Query("is_active"); isActive != "" {
		active := isActive == "true"
		query.IsActive = &active
	}

	result, err := h.listUC.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Rules, result.Total, result.Pagination.Page, result.Pagination.PageSize)
}

func (h *CodeRuleHandler) DeleteCodeRule(c *gin.Context) {
	if err := h.deleteUC.Execute(c.Request.Context(), c.Param("id")); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

func (h *CodeRuleHandler) UpdateCodeRuleStatus(c *gin.Context) {
	sid := c.Param("id")

	var req UpdateCodeRuleStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update code rule status", "rule_id", sid, "error", err)
		utils.ErrorResponseWithError(c, apperrors.NewValidationError("invalid request body", err.Error()))
		return
	}

	result, err := h.setActivationUC.Execute(c.Request.Context(), sid, req.Status == "active")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, 200, "Code rule status updated successfully", result)
}

func (h *CodeRuleHandler) ResetCounter(c *gin.Context) {
	result, err := h.resetCounterUC.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, 200, "Counter reset successfully", result)
}

func (h *CodeRuleHandler) PreviewCode(c *gin.Context) {
	var req PreviewCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for preview code", "error", err)
		utils.ErrorResponseWithError(c, apperrors.NewValidationError("invalid request body", err.Error()))
		return
	}

	code, err := h.previewUC.Execute(c.Request.Context(), usecases.PreviewCodeCommand{
		SID:         c.Param("id"),
		Prefix:      req.Prefix,
		Separator:   req.Separator,
		DigitLength: req.DigitLength,
		UseDate:     req.UseDate,
		DateFormat:  req.DateFormat,
		ResetCycle:  req.ResetCycle,
		Sequence:    req.Sequence,
		At:          req.At,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, 200, "", gin.H{"example_code": code})
}

// PreviewTransientCode renders a preview for a configuration that has not
// been saved yet.
func (h *CodeRuleHandler) PreviewTransientCode(c *gin.Context) {
	var req PreviewCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for preview code", "error", err)
		utils.ErrorResponseWithError(c, apperrors.NewValidationError("invalid request body", err.Error()))
		return
	}

	code, err := h.previewUC.Execute(c.Request.Context(), usecases.PreviewCodeCommand{
		Prefix:      req.Prefix,
		Separator:   req.Separator,
		DigitLength: req.DigitLength,
		UseDate:     req.UseDate,
		DateFormat:  req.DateFormat,
		ResetCycle:  req.ResetCycle,
		Sequence:    req.Sequence,
		At:          req.At,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, 200, "", gin.H{"example_code": code})
}
