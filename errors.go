package wiki2html

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyText  = errors.New("wiki text cannot be empty")
	ErrConversion = errors.New("wiki conversion failed")

	// Input validation errors.
	ErrInvalidMode         = errors.New("invalid rendering mode")
	ErrInvalidOutlineDepth = errors.New("invalid outline depth")
	ErrInvalidShorten      = errors.New("invalid shorten width")

	// Converter setup errors.
	ErrInvalidMacro          = errors.New("invalid macro")
	ErrInvalidHighlightStyle = errors.New("invalid highlight style")

	// Asset loading errors.
	ErrStyleNotFound    = errors.New("style not found")
	ErrInvalidAssetPath = errors.New("invalid asset path")
)
