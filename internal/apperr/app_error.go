package apperr

import "github.com/openclaw/lister/pkg/zerror"

const (
	ValidationErrorCode = "VALIDATION_FAILED"
	ListingNotFoundCode = "LISTING_NOT_FOUND"
)

var (
	ValidationErr   = zerror.NewValidationFailed(ValidationErrorCode, "validation error")
	ListingNotFound = zerror.NewNotFound(ListingNotFoundCode, "listing not found")
)
