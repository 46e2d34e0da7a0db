package expense

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category is one of the closed set of spending categories.
type Category string

const (
	CategoryFoodDining     Category = "Food & Dining"
	CategoryTransportation Category = "Transportation"
	CategoryShopping       Category = "Shopping"
	CategoryEntertainment  Category = "Entertainment"
	CategoryHealthcare     Category = "Healthcare"
	CategoryUtilities      Category = "Utilities"
	CategoryGroceries      Category = "Groceries"
	CategoryOther          Category = "Other"
)

// Categories returns every valid category in display order.
func Categories() []Category {
	return []Category{
		CategoryFoodDining,
		CategoryTransportation,
		CategoryShopping,
		CategoryEntertainment,
		CategoryHealthcare,
		CategoryUtilities,
		CategoryGroceries,
		CategoryOther,
	}
}

// Valid reports whether c is a member of the closed category set.
func (c Category) Valid() bool {
	switch c {
	case CategoryFoodDining, CategoryTransportation, CategoryShopping,
		CategoryEntertainment, CategoryHealthcare, CategoryUtilities,
		CategoryGroceries, CategoryOther:
		return true
	}
	return false
}

// Item is a single line item extracted from a receipt
type Item struct {
	Name     string          `json:"name" validate:"required"`
	Quantity string          `json:"quantity"`
	Price    decimal.Decimal `json:"price" validate:"min=0"`
}

// Expense represents one receipt worth of spending with extracted metadata
type Expense struct {
	ID            string           `json:"id"`
	Merchant      string           `json:"merchant" validate:"required"`
	Date          time.Time        `json:"date"`
	Time          *string          `json:"time,omitempty"`
	Total         decimal.Decimal  `json:"total" validate:"min=0"`
	Currency      string           `json:"currency" validate:"required,len=3"`
	Category      Category         `json:"category" validate:"category"`
	PaymentMethod *string          `json:"payment_method,omitempty"`
	TaxAmount     *decimal.Decimal `json:"tax_amount,omitempty"`
	Confidence    string           `json:"confidence,omitempty"`
	ImageRef      string           `json:"image_ref,omitempty"` // path of the stored receipt image
	ImageType     string           `json:"image_type,omitempty"`
	Notes         *string          `json:"notes,omitempty"`
	Items         []Item           `json:"items"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}
