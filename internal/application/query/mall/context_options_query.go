// internal/application/query/mall/context_options_query.go
package mall

import (
	"context"
	"errors"
	"strings"

	scdom "storefront/internal/domain/storecontext"
)

// OptionsDTO is one context picker's content. Entity pickers fill Options,
// project settings (currencies, countries) fill Codes.
type OptionsDTO struct {
	Kind    string         `json:"kind"`
	Options []scdom.Option `json:"options,omitempty"`
	Codes   []string       `json:"codes,omitempty"`
}

const (
	OptionStores         = "stores"
	OptionChannels       = "channels"
	OptionCustomerGroups = "customer-groups"
	OptionCurrencies     = "currencies"
	OptionCountries      = "countries"
)

// ContextOptionsQuery lists what a shopper can pick as store context.
type ContextOptionsQuery struct {
	Options scdom.OptionsPort
}

func NewContextOptionsQuery(p scdom.OptionsPort) *ContextOptionsQuery {
	return &ContextOptionsQuery{Options: p}
}

func (q *ContextOptionsQuery) List(ctx context.Context, kind string) (OptionsDTO, error) {
	if q == nil || q.Options == nil {
		return OptionsDTO{}, errors.New("context options query: options port is nil")
	}
	kind = strings.ToLower(strings.TrimSpace(kind))
	out := OptionsDTO{Kind: kind}

	var err error
	switch kind {
	case OptionStores:
		out.Options, err = q.Options.ListStores(ctx)
	case OptionChannels:
		out.Options, err = q.Options.ListDistributionChannels(ctx)
	case OptionCustomerGroups:
		out.Options, err = q.Options.ListCustomerGroups(ctx)
	case OptionCurrencies:
		out.Codes, err = q.Options.ListCurrencies(ctx)
	case OptionCountries:
		out.Codes, err = q.Options.ListCountries(ctx)
	default:
		return OptionsDTO{}, ErrUnknownOptionKind
	}
	if err != nil {
		return OptionsDTO{}, err
	}
	return out, nil
}
