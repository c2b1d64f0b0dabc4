package assets

import "errors"

// Sentinel errors for asset operations.
var (
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrTemplateParse    = errors.New("template parse failed")

	// ErrInvalidAssetName is returned for names that are empty or contain
	// separators, dots or NUL.
	ErrInvalidAssetName = errors.New("invalid asset name")

	// ErrInvalidBasePath is returned when the assets directory cannot be
	// opened as a directory.
	ErrInvalidBasePath = errors.New("invalid assets directory")

	// ErrAssetRead covers I/O failures, including a symlink that leaves the
	// assets directory.
	ErrAssetRead = errors.New("failed to read asset")
)
