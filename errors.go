package statechart

import (
	stderrors "errors"

	apperrors "github.com/goliatone/go-errors"
)

const (
	ErrCodeDuplicateIdentifier = "DUPLICATE_IDENTIFIER"
	ErrCodeUnresolvedReference = "UNRESOLVED_REFERENCE"
	ErrCodeInvalidField        = "INVALID_FIELD"
	ErrCodePortConflict        = "PORT_CONFLICT"
)

var (
	ErrDuplicateIdentifier = apperrors.New("duplicate identifier", apperrors.CategoryConflict).
				WithTextCode(ErrCodeDuplicateIdentifier)
	ErrUnresolvedReference = apperrors.New("unresolved reference", apperrors.CategoryBadInput).
				WithTextCode(ErrCodeUnresolvedReference)
	ErrInvalidField = apperrors.New("invalid field", apperrors.CategoryValidation).
			WithTextCode(ErrCodeInvalidField)
	ErrPortConflict = apperrors.New("port conflict", apperrors.CategoryValidation).
			WithTextCode(ErrCodePortConflict)
)

func newModelError(base *apperrors.Error, message string, metadata map[string]any) *apperrors.Error {
	err := base.Clone()
	if message != "" {
		err.Message = message
	}
	if len(metadata) > 0 {
		err = err.WithMetadata(metadata)
	}
	return err
}

func errorCode(err error) string {
	var ge *apperrors.Error
	if stderrors.As(err, &ge) {
		return ge.TextCode
	}
	return ""
}

// IsDuplicateIdentifier reports whether err carries the duplicate-identifier code.
func IsDuplicateIdentifier(err error) bool {
	return errorCode(err) == ErrCodeDuplicateIdentifier
}

// IsUnresolvedReference reports whether err carries the unresolved-reference code.
func IsUnresolvedReference(err error) bool {
	return errorCode(err) == ErrCodeUnresolvedReference
}

// IsInvalidField reports whether err carries the invalid-field code.
func IsInvalidField(err error) bool {
	return errorCode(err) == ErrCodeInvalidField
}

// IsPortConflict reports whether err carries the port-conflict code.
func IsPortConflict(err error) bool {
	return errorCode(err) == ErrCodePortConflict
}
