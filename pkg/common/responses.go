package common

import (
	"encoding/json"
	"net/http"

	pkgerrors "studio-backend/pkg/errors"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo contains error details
type ErrorInfo struct {
	Type    string                 `json:"type,omitempty"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// RespondJSON sends a JSON response
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	response := APIResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// RespondError sends an error response
func RespondError(w http.ResponseWriter, status int, code, message string) {
	response := APIResponse{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// RespondDomainError maps a domain error onto the wire, carrying its type,
// code and entity details so the dashboard can highlight the offending
// record. Non-domain errors fall back to a plain 500.
func RespondDomainError(w http.ResponseWriter, err error) {
	domainErr := pkgerrors.GetDomainError(err)
	if domainErr == nil {
		RespondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
		return
	}
	response := APIResponse{
		Success: false,
		Error: &ErrorInfo{
			Type:    string(domainErr.Type),
			Code:    domainErr.Code,
			Message: domainErr.Message,
			Details: domainErr.Details,
		},
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(domainErr.StatusCode)
	json.NewEncoder(w).Encode(response)
}

// ParseJSONBody parses JSON request body with size limit
func ParseJSONBody(r *http.Request, v interface{}, maxBytes int64) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	return decoder.Decode(v)
}
