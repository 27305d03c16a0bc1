// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/leadkit/leadkit/app/dto"
	"github.com/leadkit/leadkit/app/middleware"
	"github.com/leadkit/leadkit/app/scheduler"
	businessflow "github.com/leadkit/leadkit/business_flow"
)

// LeadHandlerInterface defines the contract for lead handlers
type LeadHandlerInterface interface {
	MonitorLeads(c fiber.Ctx) error
	ListLeads(c fiber.Ctx) error
	StartMonitor(c fiber.Ctx) error
	StopMonitor(c fiber.Ctx) error
	MonitorStatus(c fiber.Ctx) error
}

// LeadHandler handles lead ingestion HTTP requests
type LeadHandler struct {
	flow      businessflow.LeadMonitorFlow
	monitor   *scheduler.LeadMonitorScheduler
	validator *validator.Validate
}

// NewLeadHandler creates a new lead handler
func NewLeadHandler(flow businessflow.LeadMonitorFlow, monitor *scheduler.LeadMonitorScheduler) *LeadHandler {
	return &LeadHandler{
		flow:      flow,
		monitor:   monitor,
		validator: validator.New(),
	}
}

func (h *LeadHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *LeadHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// MonitorLeads runs one lead ingestion cycle
// @Summary Monitor Leads
// @Description Search recent posts for the given topics, filter candidates and persist new leads
// @Tags Leads
// @Accept json
// @Produce json
// @Param request body dto.MonitorLeadsRequest true "Topics and filter criteria"
// @Success 200 {object} dto.APIResponse{data=dto.MonitorLeadsResponse} "Cycle completed"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 502 {object} dto.APIResponse "Search provider failure"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/leads/monitor [post]
func (h *LeadHandler) MonitorLeads(c fiber.Ctx) error {
	var req dto.MonitorLeadsRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.flow.MonitorLeads(h.createRequestContext(c, "/api/v1/leads/monitor"), &req, metadata)
	if err != nil {
		if businessflow.IsTopicsRequired(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "At least one topic is required", "TOPICS_REQUIRED", nil)
		}
		if businessflow.IsSearchProviderFailed(err) {
			return h.ErrorResponse(c, fiber.StatusBadGateway, "Post search provider failed", "SEARCH_PROVIDER_FAILED", nil)
		}

		log.Println("Lead monitoring failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Lead monitoring failed", "LEAD_MONITOR_FAILED", nil)
	}

	middleware.CountLeadsCaptured(result.Count)

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// ListLeads returns captured leads, newest first
// @Summary List Leads
// @Description List captured leads with pagination
// @Tags Leads
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.ListLeadsResponse} "Leads retrieved"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/leads [get]
func (h *LeadHandler) ListLeads(c fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))

	req := dto.ListLeadsRequest{
		Page:     page,
		PageSize: pageSize,
	}

	result, err := h.flow.ListLeads(h.createRequestContext(c, "/api/v1/leads"), &req)
	if err != nil {
		log.Println("Lead listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list leads", "LEAD_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// StartMonitor starts the periodic lead monitor
// @Summary Start Lead Monitor
// @Description Start a periodic monitoring run for the given topics
// @Tags Leads
// @Accept json
// @Produce json
// @Param request body dto.StartMonitorRequest true "Topics and filter criteria"
// @Success 200 {object} dto.APIResponse{data=dto.MonitorStatusResponse} "Monitor started"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 409 {object} dto.APIResponse "Monitor already active"
// @Router /api/v1/leads/monitor/start [post]
func (h *LeadHandler) StartMonitor(c fiber.Ctx) error {
	var req dto.StartMonitorRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	if err := h.monitor.Start(context.Background(), req.Topics, req.Filters); err != nil {
		if businessflow.IsTopicsRequired(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "At least one topic is required", "TOPICS_REQUIRED", nil)
		}
		if businessflow.IsMonitorAlreadyActive(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Lead monitor is already active", "MONITOR_ALREADY_ACTIVE", nil)
		}

		log.Println("Monitor start failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to start monitor", "MONITOR_START_FAILED", nil)
	}

	status := h.monitor.Status()
	return h.SuccessResponse(c, fiber.StatusOK, "Lead monitor started", status)
}

// StopMonitor stops the periodic lead monitor
// @Summary Stop Lead Monitor
// @Description Stop the active monitoring run; captured leads stay readable
// @Tags Leads
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.MonitorStatusResponse} "Monitor stopped"
// @Failure 409 {object} dto.APIResponse "Monitor not active"
// @Router /api/v1/leads/monitor/stop [post]
func (h *LeadHandler) StopMonitor(c fiber.Ctx) error {
	if err := h.monitor.Stop(); err != nil {
		if businessflow.IsMonitorNotActive(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Lead monitor is not active", "MONITOR_NOT_ACTIVE", nil)
		}

		log.Println("Monitor stop failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to stop monitor", "MONITOR_STOP_FAILED", nil)
	}

	status := h.monitor.Status()
	return h.SuccessResponse(c, fiber.StatusOK, "Lead monitor stopped", status)
}

// MonitorStatus reports the monitor state and the merged lead snapshot
// @Summary Lead Monitor Status
// @Description Current monitor state plus all leads captured by the active run
// @Tags Leads
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.MonitorStatusResponse} "Status retrieved"
// @Router /api/v1/leads/monitor/status [get]
func (h *LeadHandler) MonitorStatus(c fiber.Ctx) error {
	status := h.monitor.Status()
	return h.SuccessResponse(c, fiber.StatusOK, status.Message, status)
}

// createRequestContext creates a context with timeout and request-scoped values
func (h *LeadHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}
