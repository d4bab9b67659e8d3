// internal/domain/storecontext/repository_port.go
package storecontext

import "context"

// Option is one selectable entry of a context picker.
type Option struct {
	ID   string `json:"id,omitempty"`
	Key  string `json:"key,omitempty"`
	Name string `json:"name"`
}

// OptionsPort lists what a shopper can pick as context.
type OptionsPort interface {
	ListStores(ctx context.Context) ([]Option, error)
	// ListDistributionChannels returns channels with the ProductDistribution role.
	ListDistributionChannels(ctx context.Context) ([]Option, error)
	ListCustomerGroups(ctx context.Context) ([]Option, error)
	// ListCurrencies and ListCountries come from the project settings.
	ListCurrencies(ctx context.Context) ([]string, error)
	ListCountries(ctx context.Context) ([]string, error)
}
