// internal/adapters/out/commercetools/options.go
package commercetools

import (
	"context"
	"net/url"

	"github.com/tidwall/gjson"

	scdom "storefront/internal/domain/storecontext"
)

const optionsLimit = "200"

// OptionsReader implements storecontext.OptionsPort.
type OptionsReader struct {
	c   *Client
	dec decoder
}

var _ scdom.OptionsPort = (*OptionsReader)(nil)

func NewOptionsReader(c *Client, locale string) *OptionsReader {
	return &OptionsReader{c: c, dec: newDecoder(locale, nil)}
}

func (r *OptionsReader) ListStores(ctx context.Context) ([]scdom.Option, error) {
	q := url.Values{}
	q.Set("limit", optionsLimit)
	q.Set("sort", "name."+r.dec.locale+" asc")
	return r.list(ctx, "stores", "stores", q)
}

func (r *OptionsReader) ListDistributionChannels(ctx context.Context) ([]scdom.Option, error) {
	q := url.Values{}
	q.Set("where", `roles contains all ("ProductDistribution")`)
	q.Set("limit", optionsLimit)
	q.Set("sort", "name."+r.dec.locale+" asc")
	return r.list(ctx, "channels", "channels", q)
}

func (r *OptionsReader) ListCustomerGroups(ctx context.Context) ([]scdom.Option, error) {
	q := url.Values{}
	q.Set("limit", optionsLimit)
	q.Set("sort", "name asc")
	return r.list(ctx, "customer_groups", "customer-groups", q)
}

func (r *OptionsReader) ListCurrencies(ctx context.Context) ([]string, error) {
	return r.projectList(ctx, "currencies")
}

func (r *OptionsReader) ListCountries(ctx context.Context) ([]string, error) {
	return r.projectList(ctx, "countries")
}

func (r *OptionsReader) list(ctx context.Context, endpoint, path string, q url.Values) ([]scdom.Option, error) {
	body, err := r.c.get(ctx, endpoint, path, q)
	if err != nil {
		return nil, err
	}
	out := []scdom.Option{}
	body.Get("results").ForEach(func(_, res gjson.Result) bool {
		o := scdom.Option{
			ID:   res.Get("id").String(),
			Key:  res.Get("key").String(),
			Name: r.dec.localized(res.Get("name")),
		}
		if o.Name == "" {
			o.Name = o.Key
		}
		out = append(out, o)
		return true
	})
	return out, nil
}

// projectList reads a string array from the project settings (GET /{projectKey}).
func (r *OptionsReader) projectList(ctx context.Context, field string) ([]string, error) {
	body, err := r.c.get(ctx, "project", "", nil)
	if err != nil {
		return nil, err
	}
	out := []string{}
	body.Get(field).ForEach(func(_, v gjson.Result) bool {
		if s := v.String(); s != "" {
			out = append(out, s)
		}
		return true
	})
	return out, nil
}
