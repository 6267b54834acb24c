package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the header drops labels.
	LayoutCompactWidth = 100

	// LayoutCardMaxWidth caps the width of a product card.
	LayoutCardMaxWidth = 96

	// LayoutFormWidth is the width of the product form modal.
	LayoutFormWidth = 64
)

// List geometry.
const (
	// cardHeight is the rendered height of one product card including borders.
	cardHeight = 5

	// rowHeight is the height of one compact list row.
	rowHeight = 1
)

// Log overlay limits.
const (
	// LogOverlayLines is the number of log lines loaded into the overlay.
	LogOverlayLines = 500
)

// Timing constants.
const (
	// DefaultUIInterval is how often the model re-reads the store snapshot.
	DefaultUIInterval = time.Second
)
