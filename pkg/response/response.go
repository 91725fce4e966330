// Package response writes the JSON envelope used by every endpoint:
//
//	{"status": "success", "message": "...", "data": {...}}
//	{"status": "error",   "message": "...", "errors": {...}}
package response

import (
	"encoding/json"
	"net/http"

	"github.com/allmart/storefront/pkg/logger"
)

// Envelope is the uniform JSON body shape.
type Envelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// Page carries list pagination metadata alongside the items.
type Page struct {
	Items     interface{} `json:"items"`
	Page      int         `json:"page"`
	PageSize  int         `json:"page_size"`
	PageCount int         `json:"page_count"`
	Total     int         `json:"total"`
}

func write(w http.ResponseWriter, code int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		logger.Error("response: encode failed", "error", err)
	}
}

// JSON writes a success envelope with the given status code.
func JSON(w http.ResponseWriter, code int, message string, data interface{}) {
	write(w, code, Envelope{Status: "success", Message: message, Data: data})
}

// OK writes a 200 success envelope.
func OK(w http.ResponseWriter, message string, data interface{}) {
	JSON(w, http.StatusOK, message, data)
}

// Created writes a 201 success envelope.
func Created(w http.ResponseWriter, message string, data interface{}) {
	JSON(w, http.StatusCreated, message, data)
}

// NoContent writes a bare 204.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Paginated writes a 200 envelope whose data is a Page.
func Paginated(w http.ResponseWriter, message string, page Page) {
	JSON(w, http.StatusOK, message, page)
}

// Error writes an error envelope with the given status code.
func Error(w http.ResponseWriter, code int, message string, errs interface{}) {
	write(w, code, Envelope{Status: "error", Message: message, Errors: errs})
}

// BadRequest writes a 400 error envelope.
func BadRequest(w http.ResponseWriter, message string, errs interface{}) {
	Error(w, http.StatusBadRequest, message, errs)
}

// Unauthorized writes a 401 error envelope.
func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, message, nil)
}

// Forbidden writes a 403 error envelope.
func Forbidden(w http.ResponseWriter, message string) {
	Error(w, http.StatusForbidden, message, nil)
}

// NotFound writes a 404 error envelope.
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message, nil)
}

// Conflict writes a 409 error envelope.
func Conflict(w http.ResponseWriter, message string) {
	Error(w, http.StatusConflict, message, nil)
}

// UnprocessableEntity writes a 422 validation-error envelope.
func UnprocessableEntity(w http.ResponseWriter, errs interface{}) {
	Error(w, http.StatusUnprocessableEntity, "Validation failed", errs)
}

// ServerError writes a 500 error envelope.
func ServerError(w http.ResponseWriter, message string) {
	Error(w, http.StatusInternalServerError, message, nil)
}

// BadGateway writes a 502 error envelope. Used when the upstream data
// service answers with an error or malformed body.
func BadGateway(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadGateway, message, nil)
}

// GatewayTimeout writes a 504 error envelope. Used when the upstream data
// service is unreachable.
func GatewayTimeout(w http.ResponseWriter, message string) {
	Error(w, http.StatusGatewayTimeout, message, nil)
}
