// Package apierror provides the error envelopes returned by the JSON routes.
// Handlers never put driver errors or stack traces in them.
package apierror

// APIError is the canonical error envelope for all 4xx/5xx JSON responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Erro de validação", Fields: fields}
}
