package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"publisher-backend/internal/domains/sale/model"
	"publisher-backend/internal/domains/sale/service"
	"publisher-backend/internal/shared/response"
)

type SaleHandler struct {
	service service.ServiceInterface
}

func NewSaleHandler(svc service.ServiceInterface) *SaleHandler {
	return &SaleHandler{service: svc}
}

// ════════════════════════════════════════════════════════════════
// CREATE: POST /v1/sales
// ════════════════════════════════════════════════════════════════

func (h *SaleHandler) Create(c *gin.Context) {
	var req model.CreateSaleRequest
	if err := c.BindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	created, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}

	response.Success(c, http.StatusCreated, created.ToResponse(""))
}

// ════════════════════════════════════════════════════════════════
// BULK CREATE: POST /v1/sales/bulk
// ════════════════════════════════════════════════════════════════

func (h *SaleHandler) BulkCreate(c *gin.Context) {
	var req model.BulkCreateRequest
	if err := c.BindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.BulkCreate(c.Request.Context(), &req)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	status := http.StatusCreated
	if result.FailedCount > 0 {
		status = http.StatusMultiStatus
	}
	response.Success(c, status, result)
}

// ════════════════════════════════════════════════════════════════
// READ: GET /v1/sales/:id
// ════════════════════════════════════════════════════════════════

func (h *SaleHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid UUID format")
		return
	}

	s, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}

	response.Success(c, http.StatusOK, s.ToResponse(""))
}

// ════════════════════════════════════════════════════════════════
// READ: GET /v1/sales?book_id=&author_id=&origin=&status=&processed=&start_date=&end_date=
// ════════════════════════════════════════════════════════════════

func (h *SaleHandler) GetAll(c *gin.Context) {
	filter, err := buildFilter(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	sales, total, err := h.service.GetAll(c.Request.Context(), *filter)
	if err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}

	items := make([]model.SaleResponse, len(sales))
	for i, s := range sales {
		items[i] = *s.ToResponse(s.BookTitle)
	}

	response.SuccessWithMeta(c, http.StatusOK, items, &response.Meta{
		Page:  filter.Offset/filter.Limit + 1,
		Limit: filter.Limit,
		Total: total,
	})
}

// ════════════════════════════════════════════════════════════════
// UPDATE: PUT /v1/sales/:id
// ════════════════════════════════════════════════════════════════

func (h *SaleHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid UUID format")
		return
	}

	var req model.UpdateSaleRequest
	if err := c.BindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}

	response.Success(c, http.StatusOK, updated.ToResponse(""))
}

// ════════════════════════════════════════════════════════════════
// DELETE: DELETE /v1/sales/:id
// ════════════════════════════════════════════════════════════════

func (h *SaleHandler) Delete(c *gin.Context) {
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

// ════════════════════════════════════════════════════════════════
// CANCEL: PUT /v1/sales/:id/cancel
// ════════════════════════════════════════════════════════════════

func (h *SaleHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid UUID format")
		return
	}

	canceled, err := h.service.Cancel(c.Request.Context(), id)
	if err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}

	response.Success(c, http.StatusOK, canceled.ToResponse(""))
}

// ════════════════════════════════════════════════════════════════
// SUMMARY: GET /v1/sales/summary?start_date=&end_date=
// ════════════════════════════════════════════════════════════════

func (h *SaleHandler) GetRevenueSummary(c *gin.Context) {
	start, err := parseDateQuery(c, "start_date")
	if err != nil {
		response.BadRequest(c, "Invalid start_date, expected YYYY-MM-DD")
		return
	}
	end, err := parseDateQuery(c, "end_date")
	if err != nil {
		response.BadRequest(c, "Invalid end_date, expected YYYY-MM-DD")
		return
	}

	summary, err := h.service.GetRevenueSummary(c.Request.Context(), start, end)
	if err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
		return
	}

	response.Success(c, http.StatusOK, summary)
}

func buildFilter(c *gin.Context) (*model.SaleFilter, error) {
	filter := &model.SaleFilter{
		Limit:  parseIntQuery(c, "limit", 20),
		Offset: parseIntQuery(c, "offset", 0),
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	if raw := c.Query("book_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, err
		}
		filter.BookID = &id
	}
	if raw := c.Query("author_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, err
		}
		filter.AuthorID = &id
	}
	if raw := c.Query("origin"); raw != "" {
		origin := model.Origin(raw)
		if !origin.IsValid() {
			return nil, model.ErrInvalidOrigin
		}
		filter.Origin = &origin
	}
	if raw := c.Query("status"); raw != "" {
		status := model.Status(raw)
		if !status.IsValid() {
			return nil, model.ErrInvalidStatus
		}
		filter.Status = &status
	}
	if raw := c.Query("processed"); raw != "" {
		processed, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, err
		}
		filter.Processed = &processed
	}

	var err error
	if filter.StartDate, err = parseDateQuery(c, "start_date"); err != nil {
		return nil, err
	}
	if filter.EndDate, err = parseDateQuery(c, "end_date"); err != nil {
		return nil, err
	}

	return filter, nil
}

func parseDateQuery(c *gin.Context, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := model.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseIntQuery(c *gin.Context, key string, def int) int {
	if raw := c.Query(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			return v
		}
	}
	return def
}
