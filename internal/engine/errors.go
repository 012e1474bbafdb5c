package engine

import "errors"

var (
	// ErrNoShapefiles indicates the input folder contains no shapefiles.
	ErrNoShapefiles = errors.New("no shapefiles found")

	// ErrNoOwnerHistory indicates a target file without an owner history,
	// which reconciliation needs to author new property sets.
	ErrNoOwnerHistory = errors.New("target file has no owner history")
)
