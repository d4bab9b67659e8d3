// internal/adapters/out/commercetools/catalog.go
package commercetools

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/tidwall/gjson"

	scdom "storefront/internal/domain/storecontext"
	vdom "storefront/internal/domain/variant"
)

const (
	matrixLimit  = 100
	listingLimit = 500

	epProjections  = "standalone_variant_projections"
	epProducts     = "products"
	epProductTypes = "product_types"
)

// CatalogReader implements variant.CatalogPort and variant.ListingPort over the
// standalone variant projection endpoint.
//
// Product type axis definitions are cached for the life of the process; variant data
// (price, stock) is always fetched fresh for the caller's store context.
type CatalogReader struct {
	c        *Client
	dec      decoder
	ordering vdom.Ordering

	mu       sync.RWMutex
	typeDefs map[string][]vdom.AxisDefinition
}

var (
	_ vdom.CatalogPort = (*CatalogReader)(nil)
	_ vdom.ListingPort = (*CatalogReader)(nil)
)

// NewCatalogReader builds a reader. axes are the selectable attribute names in display order.
func NewCatalogReader(c *Client, locale string, axes []string) *CatalogReader {
	return &CatalogReader{
		c:        c,
		dec:      newDecoder(locale, axes),
		ordering: vdom.NewOrdering(locale),
		typeDefs: map[string][]vdom.AxisDefinition{},
	}
}

// LookupVariantMatrix implements variant.CatalogPort.
func (r *CatalogReader) LookupVariantMatrix(ctx context.Context, sc scdom.Context, productID string) (*vdom.Matrix, error) {
	pid := strings.TrimSpace(productID)
	if pid == "" {
		return nil, vdom.ErrProductIDRequired
	}
	results, err := r.projections(ctx, sc, productPredicate(pid), matrixLimit)
	if err != nil {
		return nil, err
	}
	return r.matrix(ctx, sc, pid, results)
}

// LookupVariant implements variant.CatalogPort.
//
// A variant id is resolved against the product's matrix. Axis criteria are pushed
// down as attribute predicates and the candidates go through the same exact-match
// rules as the in-memory resolver. No criteria returns the product's first variant.
func (r *CatalogReader) LookupVariant(ctx context.Context, sc scdom.Context, c vdom.Criteria) (vdom.Variant, error) {
	pid := strings.TrimSpace(c.ProductID)
	if pid == "" {
		return vdom.Variant{}, vdom.ErrProductIDRequired
	}

	if vid := strings.TrimSpace(c.VariantID); vid != "" || c.Axes.IsEmpty() {
		m, err := r.LookupVariantMatrix(ctx, sc, pid)
		if err != nil {
			return vdom.Variant{}, err
		}
		if vid == "" {
			return m.Variants()[0], nil
		}
		v, ok := m.FindVariationByID(vid)
		if !ok {
			return vdom.Variant{}, vdom.ErrNotFound
		}
		return v, nil
	}

	where := productPredicate(pid)
	for _, axis := range c.Axes.Constrained() {
		where += " and " + attributePredicate(axis, c.Axes[axis])
	}
	results, err := r.projections(ctx, sc, where, matrixLimit)
	if err != nil {
		return vdom.Variant{}, err
	}
	m, err := r.matrix(ctx, sc, pid, results)
	if err != nil {
		return vdom.Variant{}, err
	}
	v, ok, err := m.FindExact(c.Axes)
	if err != nil {
		return vdom.Variant{}, err
	}
	if !ok {
		return vdom.Variant{}, vdom.ErrNotFound
	}
	return v, nil
}

// LookupProductAxisDefinitions implements variant.CatalogPort.
func (r *CatalogReader) LookupProductAxisDefinitions(ctx context.Context, productTypeKey string) ([]vdom.AxisDefinition, error) {
	key := strings.TrimSpace(productTypeKey)
	if key == "" {
		return nil, vdom.ErrNotFound
	}
	defs, err := r.typeDefinitions(ctx, "key="+url.PathEscape(key))
	if IsNotFound(err) {
		return nil, vdom.ErrNotFound
	}
	return defs, err
}

// SearchVariants implements variant.ListingPort.
func (r *CatalogReader) SearchVariants(ctx context.Context, sc scdom.Context, q vdom.ListingQuery) ([]vdom.Variant, error) {
	limit := q.Limit
	if limit <= 0 || limit > listingLimit {
		limit = listingLimit
	}
	where := ""
	if s := strings.TrimSpace(q.Search); s != "" {
		where = fmt.Sprintf("name.%s=%s", r.dec.locale, quote(s))
	}
	results, err := r.projections(ctx, sc, where, limit)
	if err != nil {
		return nil, err
	}
	out := make([]vdom.Variant, 0, len(results))
	for _, res := range results {
		out = append(out, r.dec.variant(res, nil, sc))
	}
	return out, nil
}

// ==========================
// internals
// ==========================

func (r *CatalogReader) projections(ctx context.Context, sc scdom.Context, where string, limit int) ([]gjson.Result, error) {
	q := sc.QueryArgs()
	if where != "" {
		q.Set("where", where)
	}
	q.Set("staged", "false")
	q.Set("limit", strconv.Itoa(limit))

	body, err := r.c.get(ctx, epProjections, "standalone-variant-projections", q)
	if err != nil {
		return nil, err
	}
	return body.Get("results").Array(), nil
}

func (r *CatalogReader) matrix(ctx context.Context, sc scdom.Context, productID string, results []gjson.Result) (*vdom.Matrix, error) {
	if len(results) == 0 {
		return nil, vdom.ErrNotFound
	}
	defs, err := r.definitionsFor(ctx, productID, results[0])
	if err != nil {
		return nil, err
	}
	byAxis := defsByAxis(defs)
	variants := make([]vdom.Variant, 0, len(results))
	for _, res := range results {
		v := r.dec.variant(res, byAxis, sc)
		if v.ProductID == "" {
			v.ProductID = productID
		}
		variants = append(variants, v)
	}
	return vdom.NewMatrix(productID, variants, defs, r.ordering)
}

// definitionsFor finds the product type of a projection, via the product when the
// projection does not carry the reference.
func (r *CatalogReader) definitionsFor(ctx context.Context, productID string, sample gjson.Result) ([]vdom.AxisDefinition, error) {
	ref := sample.Get("productType")
	if !ref.Exists() {
		p, err := r.c.get(ctx, epProducts, "products/"+url.PathEscape(productID), nil)
		if IsNotFound(err) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		ref = p.Get("productType")
	}

	var path string
	switch {
	case ref.Get("key").String() != "":
		path = "key=" + url.PathEscape(ref.Get("key").String())
	case ref.Get("id").String() != "":
		path = url.PathEscape(ref.Get("id").String())
	default:
		return nil, nil
	}
	defs, err := r.typeDefinitions(ctx, path)
	if IsNotFound(err) {
		return nil, nil
	}
	return defs, err
}

func (r *CatalogReader) typeDefinitions(ctx context.Context, path string) ([]vdom.AxisDefinition, error) {
	r.mu.RLock()
	defs, ok := r.typeDefs[path]
	r.mu.RUnlock()
	if ok {
		return defs, nil
	}

	pt, err := r.c.get(ctx, epProductTypes, "product-types/"+path, nil)
	if err != nil {
		return nil, err
	}
	defs = r.dec.axisDefinitions(pt)

	r.mu.Lock()
	r.typeDefs[path] = defs
	r.mu.Unlock()
	return defs, nil
}

func productPredicate(productID string) string {
	return "product(id=" + quote(productID) + ")"
}

// attributePredicate matches one axis value. Number attributes only accept number
// literals; Number() guarantees the identity is one.
func attributePredicate(axis vdom.Axis, v vdom.AxisValue) string {
	name := quote(axis.String())
	switch {
	case v.Kind() == vdom.KindEnumerated:
		return fmt.Sprintf("attributes(name=%s and value(key=%s))", name, quote(v.Identity()))
	case v.Numeric():
		return fmt.Sprintf("attributes(name=%s and value=%s)", name, v.Identity())
	}
	return fmt.Sprintf("attributes(name=%s and value=%s)", name, quote(v.Identity()))
}
