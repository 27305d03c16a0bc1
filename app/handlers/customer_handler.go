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
	businessflow "github.com/leadkit/leadkit/business_flow"
)

// CustomerHandlerInterface defines the contract for customer handlers
type CustomerHandlerInterface interface {
	ImportCSV(c fiber.Ctx) error
	List(c fiber.Ctx) error
	ExportXLSX(c fiber.Ctx) error
}

// CustomerHandler handles customer-related HTTP requests
type CustomerHandler struct {
	flow      businessflow.CustomerFlow
	validator *validator.Validate
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(flow businessflow.CustomerFlow) *CustomerHandler {
	return &CustomerHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

func (h *CustomerHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *CustomerHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ImportCSV imports customers from an uploaded CSV file
// @Summary Import Customers
// @Description Bulk import customers from a CSV file; rows are upserted by email in file order and the first failing row aborts the import
// @Tags Customers
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {object} dto.APIResponse{data=dto.ImportCustomersResponse} "Import completed"
// @Failure 400 {object} dto.APIResponse "Missing or malformed file"
// @Failure 500 {object} dto.APIResponse "Import aborted"
// @Router /api/v1/customers/import [post]
func (h *CustomerHandler) ImportCSV(c fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil || fileHeader == nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "file is required", "INVALID_FILE", nil)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "invalid file", "INVALID_FILE", err.Error())
	}
	defer file.Close()

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.flow.ImportCustomers(h.createRequestContext(c, "/api/v1/customers/import"), file, metadata)
	if err != nil {
		if businessflow.IsFileRequired(err) || businessflow.IsCSVMalformed(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid CSV file", "INVALID_CSV", err.Error())
		}

		log.Println("Customer import failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Customer import failed", "IMPORT_FAILED", nil)
	}

	middleware.CountCustomersImported(result.RecordCount)

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// List returns customers with pagination and an optional state filter
// @Summary List Customers
// @Description List customers with pagination; pass state to scope to one region
// @Tags Customers
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param state query string false "Region filter"
// @Success 200 {object} dto.APIResponse{data=dto.ListCustomersResponse} "Customers retrieved"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/customers [get]
func (h *CustomerHandler) List(c fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))

	req := dto.ListCustomersRequest{
		Page:     page,
		PageSize: pageSize,
	}
	if state := c.Query("state"); state != "" {
		req.State = &state
	}

	result, err := h.flow.ListCustomers(h.createRequestContext(c, "/api/v1/customers"), &req)
	if err != nil {
		log.Println("Customer listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list customers", "CUSTOMER_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// ExportXLSX downloads all customers as a spreadsheet
// @Summary Export Customers
// @Description Export every customer record as an XLSX file
// @Tags Customers
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary "XLSX file"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/customers/export [get]
func (h *CustomerHandler) ExportXLSX(c fiber.Ctx) error {
	filename, content, err := h.flow.ExportCustomersXLSX(h.createRequestContext(c, "/api/v1/customers/export"))
	if err != nil {
		log.Println("Customer export failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export customers", "CUSTOMER_EXPORT_FAILED", nil)
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, "attachment; filename=\""+filename+"\"")
	return c.Send(content)
}

// createRequestContext creates a context with timeout and request-scoped values
func (h *CustomerHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}
