// Package businessflow contains the core business logic and use cases for lead and customer workflows
package businessflow

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/leadkit/leadkit/app/dto"
	"github.com/leadkit/leadkit/app/services"
	"github.com/leadkit/leadkit/models"
	"github.com/leadkit/leadkit/repository"
	"github.com/leadkit/leadkit/utils"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// CustomerFlow handles bulk customer import and customer listing
type CustomerFlow interface {
	ImportCustomers(ctx context.Context, file io.Reader, metadata *ClientMetadata) (*dto.ImportCustomersResponse, error)
	ListCustomers(ctx context.Context, request *dto.ListCustomersRequest) (*dto.ListCustomersResponse, error)
	ExportCustomersXLSX(ctx context.Context) (string, []byte, error)
}

// CustomerFlowImpl implements the customer business flow
type CustomerFlowImpl struct {
	customerRepo repository.CustomerRepository
	llmService   services.LLMService
	db           *gorm.DB
}

// NewCustomerFlow creates a new customer flow instance
func NewCustomerFlow(
	customerRepo repository.CustomerRepository,
	llmService services.LLMService,
	db *gorm.DB,
) CustomerFlow {
	return &CustomerFlowImpl{
		customerRepo: customerRepo,
		llmService:   llmService,
		db:           db,
	}
}

// csvColumnAliases maps normalized header names to canonical column names.
// Normalization lowercases and strips spaces, underscores and dashes, so
// "Purchase History", "purchase_history" and "purchasehistory" all match.
var csvColumnAliases = map[string]string{
	"name":                "name",
	"fullname":            "name",
	"customername":        "name",
	"email":               "email",
	"emailaddress":        "email",
	"gender":              "gender",
	"sex":                 "gender",
	"phone":               "phone",
	"phonenumber":         "phone",
	"mobile":              "phone",
	"city":                "city",
	"state":               "state",
	"region":              "state",
	"purchasehistory":     "purchase_history",
	"purchases":           "purchase_history",
	"lastinteractiondate": "last_interaction_date",
	"lastinteraction":     "last_interaction_date",
	"age":                 "age",
	"totalspend":          "total_spend",
	"spend":               "total_spend",
	"loyaltyscore":        "loyalty_score",
	"loyalty":             "loyalty_score",
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(h)
	return h
}

// ImportCustomers parses a CSV file and upserts every row keyed on email.
// Rows are written one at a time in file order; the first row that cannot be
// parsed or saved aborts the import, leaving earlier rows persisted. After a
// successful import a short LLM summary is requested on a best-effort basis.
func (f *CustomerFlowImpl) ImportCustomers(ctx context.Context, file io.Reader, metadata *ClientMetadata) (*dto.ImportCustomersResponse, error) {
	if file == nil {
		return nil, NewBusinessError("CUSTOMER_IMPORT_VALIDATION_FAILED", "Customer import validation failed", ErrFileRequired)
	}

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, NewBusinessError("CUSTOMER_IMPORT_PARSE_FAILED", "Failed to parse CSV file", fmt.Errorf("%w: %v", ErrCSVMalformed, err))
	}

	columns := make(map[string]int, len(header))
	for i, h := range header {
		if canonical, ok := csvColumnAliases[normalizeHeader(h)]; ok {
			columns[canonical] = i
		}
	}
	if _, ok := columns["email"]; !ok {
		return nil, NewBusinessError("CUSTOMER_IMPORT_HEADER_INVALID", "CSV header is missing the email column", ErrCSVHeaderMissing)
	}

	recordCount := 0
	rowNumber := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNumber++
		if err != nil {
			return nil, NewBusinessErrorf("CUSTOMER_IMPORT_PARSE_FAILED", "Failed to parse CSV row %d", fmt.Errorf("%w: %v", ErrCSVMalformed, err), rowNumber)
		}

		customer, err := customerFromRow(row, columns)
		if err != nil {
			return nil, NewBusinessErrorf("CUSTOMER_IMPORT_ROW_INVALID", "CSV row %d is invalid", err, rowNumber)
		}

		if err := f.customerRepo.UpsertByEmail(ctx, customer); err != nil {
			return nil, NewBusinessErrorf("CUSTOMER_IMPORT_SAVE_FAILED", "Failed to save CSV row %d", fmt.Errorf("%w: %v", ErrCustomerSaveFailed, err), rowNumber)
		}
		recordCount++
	}

	if recordCount == 0 {
		return nil, NewBusinessError("CUSTOMER_IMPORT_EMPTY", "CSV file contains no data rows", ErrCSVEmpty)
	}

	f.summarizeImport(ctx, recordCount)

	return &dto.ImportCustomersResponse{
		Message:     fmt.Sprintf("Imported %d customers", recordCount),
		RecordCount: recordCount,
	}, nil
}

func customerFromRow(row []string, columns map[string]int) (*models.Customer, error) {
	cell := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	email := cell("email")
	if email == "" {
		return nil, ErrCustomerRowInvalid
	}

	now := utils.UTCNow()
	return &models.Customer{
		UUID:                uuid.New(),
		Name:                cell("name"),
		Email:               strings.ToLower(email),
		Gender:              cell("gender"),
		Phone:               cell("phone"),
		City:                cell("city"),
		State:               cell("state"),
		PurchaseHistory:     cell("purchase_history"),
		LastInteractionDate: cell("last_interaction_date"),
		Age:                 coerceInt(cell("age")),
		TotalSpend:          coerceFloat(cell("total_spend")),
		LoyaltyScore:        coerceFloat(cell("loyalty_score")),
		CreatedAt:           now,
		UpdatedAt:           now,
	}, nil
}

// coerceInt parses a numeric cell; unparseable values become zero
func coerceInt(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

func coerceFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// summarizeImport asks the LLM for a one-line summary of the import. Failures
// are logged and never affect the import result.
func (f *CustomerFlowImpl) summarizeImport(ctx context.Context, recordCount int) {
	if f.llmService == nil {
		return
	}
	messages := []services.ChatMessage{
		{Role: "system", Content: "You are a CRM assistant. Summarize data imports in one short sentence."},
		{Role: "user", Content: fmt.Sprintf("A CSV import just finished with %d customer records. Summarize it.", recordCount)},
	}
	if _, err := f.llmService.ChatCompletion(ctx, messages); err != nil {
		log.Printf("customer import: summary request failed: %v", err)
	}
}

// ListCustomers returns a page of customers, optionally scoped to a state
func (f *CustomerFlowImpl) ListCustomers(ctx context.Context, request *dto.ListCustomersRequest) (*dto.ListCustomersResponse, error) {
	page := request.Page
	if page < 1 {
		page = 1
	}
	pageSize := request.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	filter := models.CustomerFilter{State: request.State}

	customers, err := f.customerRepo.ByFilter(ctx, filter, "created_at DESC", pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("CUSTOMER_LIST_FAILED", "Failed to list customers", err)
	}

	total, err := f.customerRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("CUSTOMER_COUNT_FAILED", "Failed to count customers", err)
	}

	items := make([]dto.CustomerItem, 0, len(customers))
	for _, customer := range customers {
		items = append(items, ToCustomerItem(*customer))
	}

	return &dto.ListCustomersResponse{
		Message:   "Customers retrieved successfully",
		Customers: items,
		Total:     total,
	}, nil
}

// ExportCustomersXLSX renders every customer into a spreadsheet
func (f *CustomerFlowImpl) ExportCustomersXLSX(ctx context.Context) (string, []byte, error) {
	customers, err := f.customerRepo.ByFilter(ctx, models.CustomerFilter{}, "created_at ASC", 0, 0)
	if err != nil {
		return "", nil, NewBusinessError("CUSTOMER_EXPORT_FAILED", "Failed to load customers for export", err)
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	sheet := "customers"
	xl.SetSheetName(xl.GetSheetName(0), sheet)

	header := []string{"name", "email", "gender", "phone", "city", "state", "purchase_history", "last_interaction_date", "age", "total_spend", "loyalty_score", "created_at"}
	_ = xl.SetSheetRow(sheet, "A1", &header)

	for ri, customer := range customers {
		record := []string{
			customer.Name,
			customer.Email,
			customer.Gender,
			customer.Phone,
			customer.City,
			customer.State,
			customer.PurchaseHistory,
			customer.LastInteractionDate,
			strconv.Itoa(customer.Age),
			strconv.FormatFloat(customer.TotalSpend, 'f', 2, 64),
			strconv.FormatFloat(customer.LoyaltyScore, 'f', 2, 64),
			customer.CreatedAt.UTC().Format(time.RFC3339),
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, ri+2)
		_ = xl.SetSheetRow(sheet, cellRef, &record)
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}
	return "customers.xlsx", buf.Bytes(), nil
}
