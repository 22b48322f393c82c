package loader

import "errors"

// Sentinel kinds for ingestion errors.
var (
	ErrInvalidDataset = errors.New("invalid dataset")
	ErrInvalidCatalog = errors.New("invalid event catalog")
)
