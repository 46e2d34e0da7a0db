package scanning

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// parseScanJSON parses the JSON response from an LLM provider and
// normalizes fields the model left out or got slightly wrong.
func parseScanJSON(text string) (*ScanResult, error) {
	text = strings.TrimSpace(text)

	// Remove opening markdown code blocks
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSpace(text)

	// Find the JSON object boundaries - look for first { and last }
	startIdx := strings.Index(text, "{")
	if startIdx == -1 {
		return nil, fmt.Errorf("no JSON object found in response")
	}

	endIdx := strings.LastIndex(text, "}")
	if endIdx == -1 || endIdx < startIdx {
		return nil, fmt.Errorf("invalid JSON object in response")
	}

	text = text[startIdx : endIdx+1]

	var result ScanResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}

	result.Date = normalizeDate(result.Date)

	result.Merchant = strings.TrimSpace(result.Merchant)
	if result.Merchant == "" {
		result.Merchant = "Unknown Merchant"
	}

	result.Currency = strings.ToUpper(strings.TrimSpace(result.Currency))
	if result.Currency == "" {
		result.Currency = "NGN"
	}

	switch strings.ToLower(strings.TrimSpace(result.Confidence)) {
	case "high":
		result.Confidence = "high"
	case "low":
		result.Confidence = "low"
	default:
		result.Confidence = "medium"
	}

	for i := range result.Items {
		result.Items[i].Name = strings.TrimSpace(result.Items[i].Name)
		if strings.TrimSpace(result.Items[i].Quantity) == "" {
			result.Items[i].Quantity = "1"
		}
	}

	return &result, nil
}

// normalizeDate coerces a model-supplied date string into YYYY-MM-DD,
// falling back to today when no format matches.
func normalizeDate(date string) string {
	date = strings.TrimSpace(date)
	if date == "" {
		return time.Now().Format("2006-01-02")
	}

	if d, err := time.Parse("2006-01-02", date); err == nil {
		return d.Format("2006-01-02")
	}

	// Try other common formats the model occasionally emits
	formats := []string{
		"2006/01/02",
		"01/02/2006",
		"02-01-2006",
	}
	for _, format := range formats {
		if d, err := time.Parse(format, date); err == nil {
			return d.Format("2006-01-02")
		}
	}

	return time.Now().Format("2006-01-02")
}
