// FILE: internal/dto/errors.go
// Typed domain errors. Controllers and the error middleware match on these;
// raw store/network errors never cross the HTTP boundary.
package dto

// Machine-readable reason codes returned in error responses.
const (
	ReasonUnauthenticated        = "UNAUTHENTICATED"
	ReasonForbidden              = "FORBIDDEN"
	ReasonQuotaExhausted         = "QUOTA_EXHAUSTED"
	ReasonEntitlementUnavailable = "ENTITLEMENT_UNAVAILABLE"
	ReasonStoreUnavailable       = "STORE_UNAVAILABLE"
)

// UnauthenticatedError - missing or invalid credential (401).
type UnauthenticatedError struct {
	Detail string
}

func (e *UnauthenticatedError) Error() string {
	return "unauthenticated"
}

// ForbiddenError - authenticated but not allowed to perform this operation (403).
type ForbiddenError struct {
	Detail string
}

func (e *ForbiddenError) Error() string {
	return "forbidden"
}

// QuotaExhaustedError carries usage details for the upgrade prompt (429).
type QuotaExhaustedError struct {
	Limit int `json:"limit"`
	Used  int `json:"used"`
}

func (e *QuotaExhaustedError) Error() string {
	return "generation limit reached"
}

// EntitlementUnavailableError - subscription store unreachable. Callers must
// treat this as deny (fail closed), surfaced as a retryable 503.
type EntitlementUnavailableError struct {
	Cause error
}

func (e *EntitlementUnavailableError) Error() string {
	return "entitlement lookup unavailable"
}

func (e *EntitlementUnavailableError) Unwrap() error {
	return e.Cause
}

// StoreUnavailableError - counter store failed mid-operation (503).
type StoreUnavailableError struct {
	Cause error
}

func (e *StoreUnavailableError) Error() string {
	return "usage store unavailable"
}

func (e *StoreUnavailableError) Unwrap() error {
	return e.Cause
}
