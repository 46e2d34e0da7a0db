package scanning

import "github.com/shopspring/decimal"

// ScanItem is a single line item read off a receipt
type ScanItem struct {
	Name     string          `json:"name"`
	Quantity string          `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// ScanResult contains the structured data extracted from a receipt
type ScanResult struct {
	Merchant      string           `json:"merchant"`
	Date          string           `json:"date"` // ISO 8601 format (YYYY-MM-DD)
	Time          *string          `json:"time"` // HH:MM, nil when not visible
	Total         decimal.Decimal  `json:"total"`
	Currency      string           `json:"currency"`
	Category      string           `json:"category"`
	PaymentMethod *string          `json:"paymentMethod"`
	TaxAmount     *decimal.Decimal `json:"taxAmount"`
	Confidence    string           `json:"confidence"` // high, medium or low
	Items         []ScanItem       `json:"items"`
	Notes         *string          `json:"notes"`
}

// Scanner defines the interface for receipt scanning operations
type Scanner interface {
	// ScanReceipt analyzes a receipt image/PDF and extracts structured data
	ScanReceipt(imageData []byte, contentType string) (*ScanResult, error)
	// Close closes the scanner and releases resources
	Close() error
}

// receiptScanPrompt is the shared prompt used by all LLM providers for scanning receipts
const receiptScanPrompt = `You are an expert receipt parser. Analyze this receipt image and extract the following information in JSON format.

Return ONLY valid JSON with this exact structure (no markdown, no code blocks):
{
  "merchant": "Store/Restaurant name",
  "date": "YYYY-MM-DD",
  "time": "HH:MM" or null,
  "total": 0.00,
  "currency": "NGN" or "USD" or detected currency,
  "category": "One of: Food & Dining, Transportation, Shopping, Entertainment, Healthcare, Utilities, Groceries, Other",
  "paymentMethod": "Cash, Card, Transfer, POS, or null",
  "taxAmount": 0.00 or null,
  "confidence": "high, medium, or low",
  "items": [
    {
      "name": "Item name",
      "quantity": "1",
      "price": 0.00
    }
  ],
  "notes": "Any additional observations about the receipt"
}

Rules:
- If a field is not visible on the receipt, use null
- For Nigerian receipts, default currency to "NGN"
- Categorize based on merchant type and items purchased
- Set confidence to "high" if text is clear, "medium" if partially readable, "low" if mostly unclear
- Extract ALL visible line items
- Prices should be numbers, not strings
- Date must be in YYYY-MM-DD format
- Do not include any text before or after the JSON
- Do not use markdown code blocks`
