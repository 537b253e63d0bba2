package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"publisher-backend/internal/domains/commission/model"
	"publisher-backend/internal/domains/commission/service"
	"publisher-backend/internal/shared/response"
)

type CommissionHandler struct {
	service service.ServiceInterface
}

func NewCommissionHandler(svc service.ServiceInterface) *CommissionHandler {
	return &CommissionHandler{service: svc}
}

// ════════════════════════════════════════════════════════════════
// CREATE: POST /v1/commissions
// ════════════════════════════════════════════════════════════════

func (h *CommissionHandler) Create(c *gin.Context) {
	var req model.CreateCommissionRequest
	if err := c.BindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	created, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}

	response.Success(c, http.StatusCreated, created)
}

// ════════════════════════════════════════════════════════════════
// CREATE: POST /v1/commissions/author/:id/calculate
// Alias of Create with the author taken from the path.
// ════════════════════════════════════════════════════════════════

func (h *CommissionHandler) CalculateForAuthor(c *gin.Context) {
	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid UUID format")
		return
	}

	var req model.CreateCommissionRequest
	if err := c.BindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	req.AuthorID = authorID

	created, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}

	response.Success(c, http.StatusCreated, created)
}

// ════════════════════════════════════════════════════════════════
// READ: GET /v1/commissions
// ════════════════════════════════════════════════════════════════

func (h *CommissionHandler) GetAll(c *gin.Context) {
	commissions, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, commissions, &response.Meta{
		Total: int64(len(commissions)),
	})
}

// ════════════════════════════════════════════════════════════════
// READ: GET /v1/commissions/pendingCommissions
// ════════════════════════════════════════════════════════════════

func (h *CommissionHandler) GetPending(c *gin.Context) {
	list, err := h.service.GetPending(c.Request.Context())
	if err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}

	response.Success(c, http.StatusOK, list)
}

// ════════════════════════════════════════════════════════════════
// READ: GET /v1/commissions/paidCommissions
// ════════════════════════════════════════════════════════════════

func (h *CommissionHandler) GetPaid(c *gin.Context) {
	list, err := h.service.GetPaid(c.Request.Context())
	if err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}

	response.Success(c, http.StatusOK, list)
}

// ════════════════════════════════════════════════════════════════
// READ: GET /v1/commissions/:id
// ════════════════════════════════════════════════════════════════

func (h *CommissionHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid UUID format")
		return
	}

	detail, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}

	response.Success(c, http.StatusOK, detail)
}

// ════════════════════════════════════════════════════════════════
// UPDATE: PUT /v1/commissions/:id
// ════════════════════════════════════════════════════════════════

func (h *CommissionHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid UUID format")
		return
	}

	var req model.UpdateCommissionRequest
	if err := c.BindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}

	response.Success(c, http.StatusOK, updated)
}

// ════════════════════════════════════════════════════════════════
// PAY: PUT /v1/commissions/:id/payCommission
// ════════════════════════════════════════════════════════════════

func (h *CommissionHandler) MarkPaid(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid UUID format")
		return
	}

	var req model.PayCommissionRequest
	if c.Request.ContentLength > 0 {
		if err := c.BindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
	}

	paid, err := h.service.MarkPaid(c.Request.Context(), id, &req)
	if err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}

	response.Success(c, http.StatusOK, paid)
}

// ════════════════════════════════════════════════════════════════
// DELETE: DELETE /v1/commissions/:id
// Reverses the commission, releasing its sales.
// ════════════════════════════════════════════════════════════════

func (h *CommissionHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid UUID format")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}

	response.Success(c, http.StatusOK, nil)
}
