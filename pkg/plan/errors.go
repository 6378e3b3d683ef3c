package plan

import "errors"

var (
	ErrFailedToLoadCatalog = errors.New("failed to load plan catalog")
	ErrInvalidCatalog      = errors.New("invalid plan catalog configuration")
)
