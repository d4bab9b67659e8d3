// internal/application/query/mall/catalog_query.go
package mall

import (
	"context"
	"errors"
	"strings"

	dto "storefront/internal/application/query/mall/dto"

	scdom "storefront/internal/domain/storecontext"
	vdom "storefront/internal/domain/variant"
)

const defaultCatalogLimit = 500

// CatalogQuery is the home page listing: variants searched across products and
// folded into one tile per product.
type CatalogQuery struct {
	Listing vdom.ListingPort
	Limit   int
}

func NewCatalogQuery(listing vdom.ListingPort) *CatalogQuery {
	return &CatalogQuery{Listing: listing, Limit: defaultCatalogLimit}
}

// List searches in sc. Product order follows the first appearance of each product.
func (q *CatalogQuery) List(ctx context.Context, sc scdom.Context, search string) (dto.CatalogDTO, error) {
	if q == nil || q.Listing == nil {
		return dto.CatalogDTO{}, errors.New("catalog query: listing port is nil")
	}
	search = strings.TrimSpace(search)

	vs, err := q.Listing.SearchVariants(ctx, sc, vdom.ListingQuery{Search: search, Limit: q.Limit})
	if err != nil {
		return dto.CatalogDTO{}, err
	}

	type group struct {
		item dto.CatalogItemDTO
		axes map[string]map[string]struct{}
	}
	var order []string
	groups := map[string]*group{}
	for _, v := range vs {
		g, ok := groups[v.ProductID]
		if !ok {
			g = &group{
				item: dto.CatalogItemDTO{
					ProductID:      v.ProductID,
					Name:           v.Name,
					Representative: dto.Variant(v),
				},
				axes: map[string]map[string]struct{}{},
			}
			groups[v.ProductID] = g
			order = append(order, v.ProductID)
		}
		g.item.VariantCount++
		for axis, val := range v.Attributes {
			if val.IsZero() {
				continue
			}
			set := g.axes[axis.String()]
			if set == nil {
				set = map[string]struct{}{}
				g.axes[axis.String()] = set
			}
			set[val.Label()] = struct{}{}
		}
	}

	out := dto.CatalogDTO{Search: search, Items: make([]dto.CatalogItemDTO, 0, len(order))}
	for _, pid := range order {
		g := groups[pid]
		if len(g.axes) > 0 {
			g.item.AxisSummary = make(map[string][]string, len(g.axes))
			for axis, set := range g.axes {
				g.item.AxisSummary[axis] = dto.SortedLabels(set)
			}
		}
		out.Items = append(out.Items, g.item)
	}
	out.Total = len(out.Items)
	return out, nil
}
