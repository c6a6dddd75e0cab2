package domain

import (
	"errors"
	"fmt"
)

// ErrProductNotFound is returned when the product ID resolves to nothing the
// catalog knows about.
var ErrProductNotFound = errors.New("product_not_found")

// ErrSnapshotNotBillable is returned when a caller tries to freeze an
// on-request sentinel onto a cart or order line.
var ErrSnapshotNotBillable = errors.New("snapshot_not_billable")

// ConfigurationError is a data-integrity problem in the product's pricing
// setup (missing matrix, empty group, unordered tiers). It is surfaced as a
// server error and never silently defaulted to a zero price.
type ConfigurationError struct {
	ProductID string
	Reason    string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("pricing configuration invalid for product %s: %s", e.ProductID, e.Reason)
}

// SelectionError is a recoverable caller error: a required group without a
// selection, or a selection naming an option the matrix does not contain.
type SelectionError struct {
	Group        string
	Option       string
	MissingGroup bool
}

func (e *SelectionError) Error() string {
	if e.MissingGroup {
		return fmt.Sprintf("selection missing for required group %q", e.Group)
	}
	return fmt.Sprintf("option %q not available in group %q", e.Option, e.Group)
}

// BoundsError is a recoverable caller error: quantity or dimensions outside
// the configured limits. Dimensions above the maximum are rejected rather than
// capped so the engine never silently undercharges.
type BoundsError struct {
	Field     string
	Requested string
	Limit     string
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("%s %s outside configured limit %s", e.Field, e.Requested, e.Limit)
}
