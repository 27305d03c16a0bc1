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
	businessflow "github.com/leadkit/leadkit/business_flow"
)

// EmailCampaignHandlerInterface defines the contract for email campaign handlers
type EmailCampaignHandlerInterface interface {
	Craft(c fiber.Ctx) error
	List(c fiber.Ctx) error
}

// EmailCampaignHandler handles email campaign HTTP requests
type EmailCampaignHandler struct {
	flow      businessflow.EmailCampaignFlow
	validator *validator.Validate
}

// NewEmailCampaignHandler creates a new email campaign handler
func NewEmailCampaignHandler(flow businessflow.EmailCampaignFlow) *EmailCampaignHandler {
	return &EmailCampaignHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

func (h *EmailCampaignHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *EmailCampaignHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Craft drafts and sends a marketing campaign
// @Summary Craft Campaign Email
// @Description Draft a marketing email for the product with the LLM and send it to every customer in the target region
// @Tags Campaigns
// @Accept json
// @Produce json
// @Param request body dto.CraftEmailRequest true "Product and target region"
// @Success 200 {object} dto.APIResponse{data=dto.CraftEmailResponse} "Campaign sent"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "No customers in region"
// @Failure 502 {object} dto.APIResponse "Provider failure"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/campaigns/email [post]
func (h *EmailCampaignHandler) Craft(c fiber.Ctx) error {
	var req dto.CraftEmailRequest
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

	result, err := h.flow.CraftAndSend(h.createRequestContext(c, "/api/v1/campaigns/email"), &req, metadata)
	if err != nil {
		if businessflow.IsNoCustomersInRegion(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "No customers found in region", "NO_CUSTOMERS_IN_REGION", nil)
		}
		if businessflow.IsLLMProviderFailed(err) {
			return h.ErrorResponse(c, fiber.StatusBadGateway, "Language model provider failed", "LLM_PROVIDER_FAILED", nil)
		}
		if businessflow.IsEmailProviderFailed(err) {
			return h.ErrorResponse(c, fiber.StatusBadGateway, "Email provider failed", "EMAIL_PROVIDER_FAILED", nil)
		}

		log.Println("Email campaign failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Email campaign failed", "EMAIL_CAMPAIGN_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// List returns recent campaigns, newest first
// @Summary List Campaigns
// @Description List recently sent campaigns
// @Tags Campaigns
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} dto.APIResponse{data=dto.ListEmailCampaignsResponse} "Campaigns retrieved"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/campaigns/email [get]
func (h *EmailCampaignHandler) List(c fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	result, err := h.flow.ListCampaigns(h.createRequestContext(c, "/api/v1/campaigns/email"), limit, offset)
	if err != nil {
		log.Println("Campaign listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list campaigns", "CAMPAIGN_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// createRequestContext creates a context with timeout and request-scoped values
func (h *EmailCampaignHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return createRequestContextWithTimeout(c, endpoint, 60*time.Second)
}
