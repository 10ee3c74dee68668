// Package apperr содержит сентинельные ошибки, общие для всех контроллеров.
package apperr

import "github.com/pkg/errors"

var (
	ErrAuthRequired     = errors.New("authentication required")
	ErrUpstreamAPI      = errors.New("upstream API error")
	ErrValidationFailed = errors.New("validation failed")
	ErrNotFound         = errors.New("not found")
	ErrNotPublished     = errors.New("portfolio not published")
	ErrNoData           = errors.New("no report data")
	ErrRenderFailure    = errors.New("render failure")
	ErrNoSuchEntry      = errors.New("no such entry")
	ErrAlreadyComplete  = errors.New("form already completed")
)
