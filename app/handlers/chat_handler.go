// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/leadkit/leadkit/app/dto"
	businessflow "github.com/leadkit/leadkit/business_flow"
)

// ChatHandlerInterface defines the contract for chat handlers
type ChatHandlerInterface interface {
	Chat(c fiber.Ctx) error
}

// ChatHandler handles assistant chat HTTP requests
type ChatHandler struct {
	flow      businessflow.ChatFlow
	validator *validator.Validate
}

// NewChatHandler creates a new chat handler
func NewChatHandler(flow businessflow.ChatFlow) *ChatHandler {
	return &ChatHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

func (h *ChatHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *ChatHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Chat forwards a conversation to the language model
// @Summary Assistant Chat
// @Description Send the conversation history to the assistant and get the reply
// @Tags Chat
// @Accept json
// @Produce json
// @Param request body dto.ChatRequest true "Conversation history"
// @Success 200 {object} dto.APIResponse{data=dto.ChatResponse} "Reply generated"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 502 {object} dto.APIResponse "Provider failure"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/chat [post]
func (h *ChatHandler) Chat(c fiber.Ctx) error {
	var req dto.ChatRequest
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

	result, err := h.flow.Chat(h.createRequestContext(c, "/api/v1/chat"), &req, metadata)
	if err != nil {
		if businessflow.IsLLMProviderFailed(err) {
			return h.ErrorResponse(c, fiber.StatusBadGateway, "Language model provider failed", "LLM_PROVIDER_FAILED", nil)
		}

		log.Println("Chat failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Chat failed", "CHAT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Reply generated", result)
}

// createRequestContext creates a context with timeout and request-scoped values
func (h *ChatHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return createRequestContextWithTimeout(c, endpoint, 60*time.Second)
}
