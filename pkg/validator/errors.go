package validator

import "errors"

// ErrValidationFailed matches any ValidationErrors via errors.Is.
var ErrValidationFailed = errors.New("validation.failed")
