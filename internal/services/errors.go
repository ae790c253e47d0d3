package services

import "errors"

// Dashboard service errors
var (
	ErrDatasetNotFound    = errors.New("dataset not found")
	ErrInvalidConfig      = errors.New("invalid dashboard configuration")
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
)
