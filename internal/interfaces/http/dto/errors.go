package dto

import "net/http"

// API error codes. Clients switch on these, so they never change once shipped.
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"

	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeTooLarge     = "ERR_REQUEST_TOO_LARGE"

	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
	ErrCodeTokenRevoked = "ERR_TOKEN_REVOKED"
	// ErrCodeForbidden covers both a missing role and a foreign institution
	ErrCodeForbidden = "ERR_FORBIDDEN"

	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	ErrCodeInvalidState        = "ERR_INVALID_STATE"

	// ErrCodePaymentProvider means Stripe rejected the call or was unreachable
	ErrCodePaymentProvider = "ERR_PAYMENT_PROVIDER"
	ErrCodeRateLimited     = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus is the status each API code is answered with
var ErrorCodeHTTPStatus = statusTable(map[int][]string{
	http.StatusBadRequest:            {ErrCodeValidation, ErrCodeBadRequest, ErrCodeInvalidInput},
	http.StatusUnauthorized:          {ErrCodeUnauthorized, ErrCodeTokenExpired, ErrCodeTokenInvalid, ErrCodeTokenRevoked},
	http.StatusForbidden:             {ErrCodeForbidden},
	http.StatusNotFound:              {ErrCodeNotFound},
	http.StatusConflict:              {ErrCodeAlreadyExists, ErrCodeConcurrencyConflict},
	http.StatusRequestEntityTooLarge: {ErrCodeTooLarge},
	http.StatusUnprocessableEntity:   {ErrCodeInvalidState},
	http.StatusTooManyRequests:       {ErrCodeRateLimited},
	http.StatusInternalServerError:   {ErrCodeUnknown, ErrCodeInternal},
	http.StatusBadGateway:            {ErrCodePaymentProvider},
})

func statusTable(byStatus map[int][]string) map[string]int {
	out := make(map[string]int)
	for status, codes := range byStatus {
		for _, code := range codes {
			out[code] = status
		}
	}
	return out
}

// GetHTTPStatus answers 500 for codes it does not know
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping translates the codes carried by shared.DomainError
// and the aggregates' field rules into API codes.
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"UNAUTHORIZED":         ErrCodeUnauthorized,
	"FORBIDDEN":            ErrCodeForbidden,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"PAYMENT_PROVIDER":     ErrCodePaymentProvider,
	"TOKEN_EXPIRED":        ErrCodeTokenExpired,
	"TOKEN_INVALID":        ErrCodeTokenInvalid,
	"TOKEN_MAX_REFRESH":    ErrCodeTokenExpired,

	"INVALID_NAME":        ErrCodeValidation,
	"INVALID_EMAIL":       ErrCodeValidation,
	"INVALID_PASSWORD":    ErrCodeValidation,
	"INVALID_PRICE":       ErrCodeValidation,
	"INVALID_URL":         ErrCodeValidation,
	"INVALID_SUBDOMAIN":   ErrCodeValidation,
	"RESERVED_SUBDOMAIN":  ErrCodeValidation,
	"INVALID_INSTITUTION": ErrCodeValidation,
}

// NormalizeErrorCode passes API codes and unknown codes through unchanged
func NormalizeErrorCode(code string) string {
	if apiCode, ok := DomainErrorCodeMapping[code]; ok {
		return apiCode
	}
	return code
}
