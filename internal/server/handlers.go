package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"spendlens/internal/analytics"
	"spendlens/internal/expense"
)

// corsError writes an error response with CORS headers set
func corsError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	http.Error(w, message, code)
}

// jsonError writes a JSON error body with CORS headers set
func jsonError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// writeJSON encodes v as the response body
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleAnalytics computes the spending report for the requested period
// and optional currency filter
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	period := analytics.ParsePeriod(r.URL.Query().Get("period"))
	currency := r.URL.Query().Get("currency")

	report, err := s.analytics.Aggregate(r.Context(), period, currency)
	if err != nil {
		slog.Error("Error computing analytics", "period", period, "currency", currency, "error", err)
		corsError(w, "Failed to compute analytics", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// handleUploadReceipt handles receipt upload, scanning and persistence
func (s *Server) handleUploadReceipt(w http.ResponseWriter, r *http.Request) {
	// 50MB cap to handle high-resolution phone photos
	maxFormSize := int64(50 << 20)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		errorMsg := "Error parsing form"
		if err.Error() == "http: request body too large" {
			errorMsg = "File is too large. Maximum size is 50MB. Please compress or resize your image."
		}
		jsonError(w, errorMsg, http.StatusBadRequest)
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		slog.Error("Error getting file from form", "error", err)
		errorMsg := "No file provided"
		if err.Error() == "http: no such file" {
			errorMsg = "No file was selected. Please choose a file to upload."
		}
		jsonError(w, errorMsg, http.StatusBadRequest)
		return
	}
	defer f.Close()

	if header.Size > maxFormSize {
		jsonError(w, "File is too large. Maximum size is 50MB. Please compress or resize your image.", http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		jsonError(w, "Error reading file. Please try again.", http.StatusInternalServerError)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = contentTypeFromExtension(header.Filename)
	}
	// Preserve HEIC/HEIF MIME types so conversion logic can detect them
	contentType = strings.ToLower(strings.TrimSpace(contentType))

	exp, err := s.service.ProcessReceipt(header.Filename, data, contentType)
	if err != nil {
		slog.Error("Error processing receipt", "filename", header.Filename, "error", err)
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, exp)
}

// contentTypeFromExtension guesses the MIME type for uploads that arrive
// without one
func contentTypeFromExtension(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".pdf":
		return "application/pdf"
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	default:
		return "application/octet-stream"
	}
}

// expenseListResponse is the paged listing payload
type expenseListResponse struct {
	Expenses   []*expense.Expense `json:"expenses"`
	Pagination expense.Pagination `json:"pagination"`
}

// handleListExpenses returns a filtered, paginated expense listing
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filters := expense.Filters{
		Category: query.Get("category"),
		Search:   query.Get("search"),
	}
	if page, err := strconv.Atoi(query.Get("page")); err == nil {
		filters.Page = page
	}
	if limit, err := strconv.Atoi(query.Get("limit")); err == nil {
		filters.Limit = limit
	}
	if start, err := time.Parse("2006-01-02", query.Get("startDate")); err == nil {
		filters.StartDate = &start
	}
	if end, err := time.Parse("2006-01-02", query.Get("endDate")); err == nil {
		filters.EndDate = &end
	}

	expenses, pagination, err := s.service.ListExpenses(filters)
	if err != nil {
		slog.Error("Error listing expenses", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, expenseListResponse{Expenses: expenses, Pagination: pagination})
}

// handleCreateExpense persists a manually entered expense
func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var input expense.Expense
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		corsError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	exp, err := s.service.CreateExpense(&input)
	if err != nil {
		slog.Error("Error creating expense", "error", err)
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, exp)
}

// handleGetExpense returns a single expense
func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		corsError(w, "Expense ID required", http.StatusBadRequest)
		return
	}
	exp, err := s.service.GetExpense(id)
	if err != nil {
		corsError(w, "Expense not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, exp)
}

// handleUpdateExpense replaces the editable fields of an expense
func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		corsError(w, "Expense ID required", http.StatusBadRequest)
		return
	}

	var input expense.Expense
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		corsError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	exp, err := s.service.UpdateExpense(id, &input)
	if err != nil {
		slog.Error("Error updating expense", "id", id, "error", err)
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, exp)
}

// handleDeleteExpense deletes an expense and its receipt image
func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		corsError(w, "Expense ID required", http.StatusBadRequest)
		return
	}
	if err := s.service.DeleteExpense(id); err != nil {
		corsError(w, "Error deleting expense", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleGetReceiptImage returns the stored receipt image for an expense
func (s *Server) handleGetReceiptImage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		corsError(w, "Expense ID required", http.StatusBadRequest)
		return
	}
	data, contentType, err := s.service.GetReceiptImage(id)
	if err != nil {
		corsError(w, "Image not found", http.StatusNotFound)
		return
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}
