package handlers

import (
	"strings"
	"time"

	"delivery-tracker/internal/adapters/http/middleware"
	"delivery-tracker/internal/core/domain"
	"delivery-tracker/internal/core/services"
	"delivery-tracker/internal/pkg/pagination"
	"delivery-tracker/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// query timestamps without a zone are read as UTC
var dateTimeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05"}

// DeliveryHandler handles delivery endpoints
type DeliveryHandler struct {
	deliveryService *services.DeliveryService
}

// NewDeliveryHandler creates a new delivery handler
func NewDeliveryHandler(deliveryService *services.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{
		deliveryService: deliveryService,
	}
}

// UpdateDestinationRequest represents the destination change body
type UpdateDestinationRequest struct {
	DestinationAddress string `json:"destination_address" example:"서울시 송파구 올림픽로 300"`
}

// ChangeStatusRequest represents the status change body
type ChangeStatusRequest struct {
	Status string `json:"status" example:"ASSIGNED"`
}

// List handles the date range search
// @Summary List my deliveries
// @Description Deliveries requested between start_date and end_date (at most 3 days apart), newest first
// @Tags Deliveries
// @Produce json
// @Security BearerAuth
// @Param start_date query string true "Range start (RFC3339 or 2006-01-02T15:04:05)"
// @Param end_date query string true "Range end (RFC3339 or 2006-01-02T15:04:05)"
// @Param status query string false "RECEIVED, ASSIGNED, IN_TRANSIT, DELIVERED or CANCELLED"
// @Param page query int false "Zero-based page number" default(0)
// @Param size query int false "Items per page" default(10)
// @Param sort query string false "field,direction" default(requested_at,desc)
// @Success 200 {object} response.Response{data=pagination.Page[models.DeliveryResponse]}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /deliveries [get]
func (h *DeliveryHandler) List(c *fiber.Ctx) error {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return respondError(c, domain.ErrUnauthorized)
	}

	input, err := parseSearch(c)
	if err != nil {
		return respondError(c, err)
	}
	params := pagination.GetParams(c, services.DeliverySortable, services.DefaultDeliverySort)

	page, err := h.deliveryService.GetDeliveriesByDateRange(c.UserContext(), principal.Username, input, params)
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "배달 목록을 조회했습니다.", page)
}

// Create handles delivery registration
// @Summary Create delivery
// @Description Register a delivery in the RECEIVED state
// @Tags Deliveries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateDeliveryInput true "Delivery data"
// @Success 201 {object} response.Response{data=models.DeliveryResponse}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /deliveries [post]
func (h *DeliveryHandler) Create(c *fiber.Ctx) error {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return respondError(c, domain.ErrUnauthorized)
	}

	var req services.CreateDeliveryInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "요청 본문을 읽을 수 없습니다.")
	}

	delivery, err := h.deliveryService.CreateDelivery(c.UserContext(), principal.Username, &req)
	if err != nil {
		return respondError(c, err)
	}

	return response.Created(c, "배달이 접수되었습니다.", delivery)
}

// Get handles fetching one delivery
// @Summary Get delivery
// @Tags Deliveries
// @Produce json
// @Security BearerAuth
// @Param id path int true "Delivery ID"
// @Success 200 {object} response.Response{data=models.DeliveryResponse}
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /deliveries/{id} [get]
func (h *DeliveryHandler) Get(c *fiber.Ctx) error {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return respondError(c, domain.ErrUnauthorized)
	}

	id, err := deliveryID(c)
	if err != nil {
		return respondError(c, err)
	}

	delivery, err := h.deliveryService.GetDelivery(c.UserContext(), principal.Username, id)
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "배달 정보를 조회했습니다.", delivery)
}

// UpdateDestination handles the destination change
// @Summary Change destination address
// @Description Allowed only while the delivery is RECEIVED or ASSIGNED
// @Tags Deliveries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Delivery ID"
// @Param body body UpdateDestinationRequest true "New destination"
// @Success 200 {object} response.Response{data=models.DeliveryResponse}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /deliveries/{id}/destination [patch]
func (h *DeliveryHandler) UpdateDestination(c *fiber.Ctx) error {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return respondError(c, domain.ErrUnauthorized)
	}

	id, err := deliveryID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req UpdateDestinationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "요청 본문을 읽을 수 없습니다.")
	}

	delivery, err := h.deliveryService.UpdateDestination(c.UserContext(), principal.Username, id, req.DestinationAddress)
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "도착지 주소가 변경되었습니다.", delivery)
}

// ChangeStatus handles the lifecycle transition
// @Summary Change delivery status
// @Description Move the delivery along RECEIVED → ASSIGNED → IN_TRANSIT → DELIVERED, or cancel it before transit
// @Tags Deliveries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Delivery ID"
// @Param body body ChangeStatusRequest true "Target status"
// @Success 200 {object} response.Response{data=models.DeliveryResponse}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /deliveries/{id}/status [patch]
func (h *DeliveryHandler) ChangeStatus(c *fiber.Ctx) error {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return respondError(c, domain.ErrUnauthorized)
	}

	id, err := deliveryID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "요청 본문을 읽을 수 없습니다.")
	}

	status, err := domain.ParseDeliveryStatus(req.Status)
	if err != nil {
		return respondError(c, invalidField("status", "알 수 없는 배달 상태입니다."))
	}

	delivery, err := h.deliveryService.ChangeStatus(c.UserContext(), principal.Username, id, status)
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "배달 상태가 변경되었습니다.", delivery)
}

func parseSearch(c *fiber.Ctx) (services.SearchInput, error) {
	verr := &domain.ValidationError{}
	var input services.SearchInput

	input.StartDate = parseDateTime(verr, "start_date", c.Query("start_date"))
	input.EndDate = parseDateTime(verr, "end_date", c.Query("end_date"))

	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status, err := domain.ParseDeliveryStatus(raw)
		if err != nil {
			verr.Add("status", "알 수 없는 배달 상태입니다.")
		} else {
			input.Status = &status
		}
	}

	return input, verr.OrNil()
}

// parseDateTime leaves a blank value zero so the range check reports it as missing
func parseDateTime(verr *domain.ValidationError, field, raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	verr.Add(field, field+" 형식이 올바르지 않습니다. (예: 2024-03-01T09:00:00)")
	return time.Time{}
}

func deliveryID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, invalidField("id", "배달 ID가 올바르지 않습니다.")
	}
	return uint(id), nil
}

func invalidField(field, message string) error {
	verr := &domain.ValidationError{}
	verr.Add(field, message)
	return verr
}
