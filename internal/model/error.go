package model

import "fmt"

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON    = "INVALID_JSON"
	ErrCodeMissingField   = "MISSING_FIELD"
	ErrCodeAuth           = "AUTH_FAILED"
	ErrCodeDuplicateEmail = "DUPLICATE_EMAIL"
	ErrCodeSaveFailed     = "SAVE_FAILED"
	ErrCodeUnsaveFailed   = "UNSAVE_FAILED"
	ErrCodePantryFailed   = "PANTRY_FAILED"
	ErrCodeNetwork        = "NETWORK_ERROR"
	ErrCodeNotHydrated    = "NOT_HYDRATED"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeUnauthorised   = "UNAUTHORIZED"
	ErrCodeInternalError  = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrBadCredentials = NewDomainError(ErrCodeAuth, "Invalid email or password")
	ErrDuplicateEmail = NewDomainError(ErrCodeDuplicateEmail, "An account with this email already exists")
	ErrInvalidToken   = NewDomainError(ErrCodeAuth, "Invalid or expired token")
	ErrSaveFailed     = NewDomainError(ErrCodeSaveFailed, "Failed to save recipe")
	ErrUnsaveFailed   = NewDomainError(ErrCodeUnsaveFailed, "Failed to remove saved recipe")
	ErrPantryFailed   = NewDomainError(ErrCodePantryFailed, "Pantry operation failed")
	ErrNetwork        = NewDomainError(ErrCodeNetwork, "network error")
	ErrNotHydrated    = NewDomainError(ErrCodeNotHydrated, "Pantry has not been hydrated yet")
	ErrRecipeNotFound = NewDomainError(ErrCodeNotFound, "Recipe not found")
)

// ErrorResponse is the error envelope the API returns on any non-success
// status. Clients surface the detail message verbatim.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// APIError is a normalized remote failure: a non-success HTTP status plus the
// parsed detail message from the response body.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Detail)
}
