// internal/domain/variant/repository_port.go
package variant

import (
	"context"
	"errors"

	scdom "storefront/internal/domain/storecontext"
)

// Criteria narrows a single-variant lookup. ProductID is required; VariantID wins over Axes.
type Criteria struct {
	ProductID string
	VariantID string
	Axes      Selection
}

// CatalogPort is the remote catalog as the resolver sees it. Every call is scoped by
// the caller's store context, which the port treats as opaque filter criteria.
type CatalogPort interface {
	// LookupVariant returns ErrNotFound when nothing matches.
	LookupVariant(ctx context.Context, sc scdom.Context, c Criteria) (Variant, error)

	// LookupVariantMatrix returns every variant of the product as a Matrix.
	// ErrNotFound when the product has no variants in this context.
	LookupVariantMatrix(ctx context.Context, sc scdom.Context, productID string) (*Matrix, error)

	// LookupProductAxisDefinitions returns the selectable axes declared by a product type.
	LookupProductAxisDefinitions(ctx context.Context, productTypeKey string) ([]AxisDefinition, error)
}

// ListingQuery is a catalog search.
type ListingQuery struct {
	Search string
	Limit  int
}

// ListingPort searches variants across products (home page listing).
type ListingPort interface {
	SearchVariants(ctx context.Context, sc scdom.Context, q ListingQuery) ([]Variant, error)
}

var (
	ErrNotFound = errors.New("variant: not found")
)
