package handlers

import (
	"github.com/gin-gonic/gin"

	apperrors "sequor/internal/shared/errors"
	"sequor/internal/shared/logger"
	"sequor/internal/shared/utils"
)

// AllocationHandler serves the hot path: issuing the next code for an
// entity type.
type AllocationHandler struct {
	allocateUC allocateCodeUseCase
	logger     logger.Interface
}

func NewAllocationHandler(allocateUC allocateCodeUseCase) *AllocationHandler {
	return &AllocationHandler{
		allocateUC: allocateUC,
		logger:     logger.NewLogger(),
	}
}

type AllocateCodeRequest struct {
	EntityCode string `json:"entity_code" binding:"required,entitycode"`
}

func (h *AllocationHandler) AllocateCode(c *gin.Context) {
	var req AllocateCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for allocate code", "error", err)
		utils.ErrorResponseWithError(c, apperrors.NewValidationError("invalid request body", err.Error()))
		return
	}

	result, err := h.allocateUC.Execute(c.Request.Context(), req.EntityCode)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, 200, "", result)
}

// AllocateCodeForEntity allocates via path parameter, for callers that
// prefer REST-style addressing over a request body.
func (h *AllocationHandler) AllocateCodeForEntity(c *gin.Context) {
	result, err := h.allocateUC.Execute(c.Request.Context(), c.Param("entity_code"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, 200, "", result)
}
