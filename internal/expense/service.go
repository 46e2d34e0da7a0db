package expense

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"spendlens/internal/scanning"
)

// IDGenerator generates unique IDs for expenses
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// defaultIDGenerator generates random UUIDs
type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return uuid.NewString()
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// newValidator builds the validator used for expense payloads: decimals
// validate as floats, and categories validate against the closed set.
func newValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	validate.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return Category(fl.Field().String()).Valid()
	})
	return validate
}

// Service handles expense operations
type Service struct {
	db          DB
	scanner     scanning.Scanner
	storage     Storage
	idGenerator IDGenerator
	timeSource  TimeSource
	validate    *validator.Validate
}

// NewService creates a new Service with default ID generator and time source
func NewService(db DB, scanner scanning.Scanner, storage Storage) *Service {
	return NewServiceWithDeps(db, scanner, storage, &defaultIDGenerator{}, &defaultTimeSource{})
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, scanner scanning.Scanner, storage Storage, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		scanner:     scanner,
		storage:     storage,
		idGenerator: idGen,
		timeSource:  timeSrc,
		validate:    newValidator(),
	}
}

// sanitizeFilename cleans up a filename by removing special characters and truncating length
func sanitizeFilename(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	// Keep only alphanumeric, spaces, hyphens, and underscores
	reg := regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	base = reg.ReplaceAllString(base, "")

	reg = regexp.MustCompile(`\s+`)
	base = reg.ReplaceAllString(base, " ")

	base = strings.TrimSpace(base)

	// Truncate to reasonable length (phone cameras generate very long names)
	maxLen := 50
	if len(base) > maxLen {
		base = base[:maxLen]
	}

	if base == "" {
		base = "receipt"
	}

	return base + ext
}

// ProcessReceipt stores a receipt image, scans it, and persists the
// extracted expense
func (s *Service) ProcessReceipt(filename string, data []byte, contentType string) (*Expense, error) {
	id := s.idGenerator.Generate()
	now := s.timeSource.Now()

	cleanFilename := sanitizeFilename(filename)

	savedPath, err := s.storage.Save(fmt.Sprintf("%s_%s", id, cleanFilename), data)
	if err != nil {
		return nil, fmt.Errorf("saving image: %w", err)
	}

	result, err := s.scanner.ScanReceipt(data, contentType)
	if err != nil {
		slog.Error("Failed to scan receipt",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		// Clean up the saved image since scanning failed
		s.storage.Delete(savedPath)
		return nil, fmt.Errorf("scanning receipt: %w", err)
	}

	exp := expenseFromScan(result, id, now)
	exp.ImageRef = savedPath
	exp.ImageType = contentType

	if err := s.validate.Struct(exp); err != nil {
		s.storage.Delete(savedPath)
		return nil, fmt.Errorf("validating scanned expense: %w", err)
	}

	if err := s.db.SaveExpense(exp); err != nil {
		s.storage.Delete(savedPath)
		return nil, fmt.Errorf("saving expense to database: %w", err)
	}

	return exp, nil
}

// expenseFromScan builds an expense record from a scan result, applying
// the documented defaults for anything the model left out.
func expenseFromScan(result *scanning.ScanResult, id string, now time.Time) *Expense {
	date, err := time.Parse("2006-01-02", result.Date)
	if err != nil {
		date = now
	}

	currency := strings.ToUpper(strings.TrimSpace(result.Currency))
	if currency == "" {
		currency = "NGN"
	}

	category := Category(result.Category)
	if !category.Valid() {
		category = CategoryOther
	}

	items := make([]Item, 0, len(result.Items))
	for _, item := range result.Items {
		quantity := item.Quantity
		if strings.TrimSpace(quantity) == "" {
			quantity = "1"
		}
		items = append(items, Item{
			Name:     item.Name,
			Quantity: quantity,
			Price:    item.Price,
		})
	}

	return &Expense{
		ID:            id,
		Merchant:      result.Merchant,
		Date:          date,
		Time:          result.Time,
		Total:         result.Total,
		Currency:      currency,
		Category:      category,
		PaymentMethod: result.PaymentMethod,
		TaxAmount:     result.TaxAmount,
		Confidence:    result.Confidence,
		Notes:         result.Notes,
		Items:         items,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// CreateExpense persists a manually entered expense
func (s *Service) CreateExpense(input *Expense) (*Expense, error) {
	now := s.timeSource.Now()

	input.ID = s.idGenerator.Generate()
	input.CreatedAt = now
	input.UpdatedAt = now
	if input.Currency == "" {
		input.Currency = "NGN"
	}
	if input.Category == "" {
		input.Category = CategoryOther
	}
	if input.Confidence == "" {
		input.Confidence = "medium"
	}
	if input.Items == nil {
		input.Items = []Item{}
	}

	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("validating expense: %w", err)
	}

	if err := s.db.SaveExpense(input); err != nil {
		return nil, fmt.Errorf("saving expense to database: %w", err)
	}
	return input, nil
}

// GetExpense retrieves an expense by ID
func (s *Service) GetExpense(id string) (*Expense, error) {
	exp, err := s.db.GetExpense(id)
	if err != nil {
		return nil, fmt.Errorf("getting expense: %w", err)
	}
	return exp, nil
}

// UpdateExpense replaces the editable fields of an expense, including its
// line items
func (s *Service) UpdateExpense(id string, input *Expense) (*Expense, error) {
	existing, err := s.db.GetExpense(id)
	if err != nil {
		return nil, fmt.Errorf("getting expense for update: %w", err)
	}

	existing.Merchant = input.Merchant
	existing.Date = input.Date
	existing.Time = input.Time
	existing.Total = input.Total
	existing.Currency = input.Currency
	existing.Category = input.Category
	existing.PaymentMethod = input.PaymentMethod
	existing.TaxAmount = input.TaxAmount
	existing.Notes = input.Notes
	existing.Items = input.Items
	existing.UpdatedAt = s.timeSource.Now()

	if existing.Currency == "" {
		existing.Currency = "NGN"
	}
	if existing.Category == "" {
		existing.Category = CategoryOther
	}
	if existing.Items == nil {
		existing.Items = []Item{}
	}

	if err := s.validate.Struct(existing); err != nil {
		return nil, fmt.Errorf("validating expense: %w", err)
	}

	if err := s.db.SaveExpense(existing); err != nil {
		return nil, fmt.Errorf("saving expense to database: %w", err)
	}
	return existing, nil
}

// DeleteExpense removes an expense and its stored receipt image
func (s *Service) DeleteExpense(id string) error {
	exp, err := s.db.GetExpense(id)
	if err != nil {
		return fmt.Errorf("getting expense for deletion: %w", err)
	}

	if exp.ImageRef != "" {
		if err := s.storage.Delete(exp.ImageRef); err != nil {
			// The record still goes away even if the image is already gone
			slog.Warn("Failed to delete image", "image_ref", exp.ImageRef, "error", err)
		}
	}

	if err := s.db.DeleteExpense(id); err != nil {
		return fmt.Errorf("deleting expense from database: %w", err)
	}
	return nil
}

// GetReceiptImage retrieves the stored receipt image for an expense
func (s *Service) GetReceiptImage(id string) ([]byte, string, error) {
	exp, err := s.db.GetExpense(id)
	if err != nil {
		return nil, "", fmt.Errorf("getting expense: %w", err)
	}
	if exp.ImageRef == "" {
		return nil, "", fmt.Errorf("expense has no receipt image: %s", id)
	}

	data, err := s.storage.Get(exp.ImageRef)
	if err != nil {
		return nil, "", fmt.Errorf("getting receipt image: %w", err)
	}

	return data, exp.ImageType, nil
}

// Filters narrows and pages an expense listing
type Filters struct {
	Category  string
	Search    string
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	Limit     int
}

// Pagination describes one page of a listing
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// ListExpenses returns expenses matching the filters, newest first, paged
func (s *Service) ListExpenses(filters Filters) ([]*Expense, Pagination, error) {
	all, err := s.db.ListExpenses()
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("listing expenses: %w", err)
	}

	matched := make([]*Expense, 0, len(all))
	for _, e := range all {
		if !matchesFilters(e, filters) {
			continue
		}
		matched = append(matched, e)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Date.After(matched[j].Date)
	})

	page := filters.Page
	if page < 1 {
		page = 1
	}
	limit := filters.Limit
	if limit < 1 {
		limit = 10
	}

	total := len(matched)
	pages := (total + limit - 1) / limit

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return matched[start:end], Pagination{Page: page, Limit: limit, Total: total, Pages: pages}, nil
}

// matchesFilters applies the listing filters to one expense. Search is a
// case-insensitive substring match over merchant and notes.
func matchesFilters(e *Expense, filters Filters) bool {
	if filters.Category != "" && filters.Category != "all" && string(e.Category) != filters.Category {
		return false
	}
	if filters.StartDate != nil && e.Date.Before(*filters.StartDate) {
		return false
	}
	if filters.EndDate != nil && e.Date.After(*filters.EndDate) {
		return false
	}
	if filters.Search != "" {
		needle := strings.ToLower(filters.Search)
		if strings.Contains(strings.ToLower(e.Merchant), needle) {
			return true
		}
		if e.Notes != nil && strings.Contains(strings.ToLower(*e.Notes), needle) {
			return true
		}
		return false
	}
	return true
}
