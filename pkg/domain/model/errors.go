package model

import "errors"

var (
	ErrInvalidApplicationKind     = errors.New("invalid application kind")
	ErrApplicationVariantMismatch = errors.New("application variant does not match kind")
)
