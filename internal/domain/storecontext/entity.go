// internal/domain/storecontext/entity.go
package storecontext

import (
	"errors"
	"net/url"
	"strings"
)

var (
	ErrInvalidCurrency = errors.New("storecontext: invalid currency")
	ErrInvalidCountry  = errors.New("storecontext: invalid country")
)

// Context is the pricing/display context a shopper browses in.
// It is a value: every change produces a new Context, nothing reads it from ambient state.
type Context struct {
	Currency          string `json:"currency,omitempty" firestore:"currency"`
	Country           string `json:"country,omitempty" firestore:"country"`
	ChannelID         string `json:"channelId,omitempty" firestore:"channelId"`
	ChannelName       string `json:"channelName,omitempty" firestore:"channelName"`
	StoreKey          string `json:"storeKey,omitempty" firestore:"storeKey"`
	StoreName         string `json:"storeName,omitempty" firestore:"storeName"`
	CustomerGroupID   string `json:"customerGroupId,omitempty" firestore:"customerGroupId"`
	CustomerGroupName string `json:"customerGroupName,omitempty" firestore:"customerGroupName"`
}

// Update is a partial change; nil fields are kept, empty strings clear.
type Update struct {
	Currency          *string `json:"currency,omitempty"`
	Country           *string `json:"country,omitempty"`
	ChannelID         *string `json:"channelId,omitempty"`
	ChannelName       *string `json:"channelName,omitempty"`
	StoreKey          *string `json:"storeKey,omitempty"`
	StoreName         *string `json:"storeName,omitempty"`
	CustomerGroupID   *string `json:"customerGroupId,omitempty"`
	CustomerGroupName *string `json:"customerGroupName,omitempty"`
}

// Apply returns a copy of c with u applied and normalized.
func (c Context) Apply(u Update) (Context, error) {
	out := c
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&out.Currency, u.Currency)
	set(&out.Country, u.Country)
	set(&out.ChannelID, u.ChannelID)
	set(&out.ChannelName, u.ChannelName)
	set(&out.StoreKey, u.StoreKey)
	set(&out.StoreName, u.StoreName)
	set(&out.CustomerGroupID, u.CustomerGroupID)
	set(&out.CustomerGroupName, u.CustomerGroupName)

	// Clearing an id clears its display name too.
	if out.ChannelID == "" {
		out.ChannelName = ""
	}
	if out.StoreKey == "" {
		out.StoreName = ""
	}
	if out.CustomerGroupID == "" {
		out.CustomerGroupName = ""
	}

	out = out.normalized()
	if err := out.Validate(); err != nil {
		return c, err
	}
	return out, nil
}

// WithDefaults fills the currency when missing and applies the USD→US country rule.
func (c Context) WithDefaults(defaultCurrency string) Context {
	out := c
	if strings.TrimSpace(out.Currency) == "" {
		out.Currency = defaultCurrency
	}
	return out.normalized()
}

func (c Context) normalized() Context {
	c.Currency = strings.ToUpper(strings.TrimSpace(c.Currency))
	c.Country = strings.ToUpper(strings.TrimSpace(c.Country))
	// USD prices are country scoped; without a country they never select.
	if c.Currency == "USD" && c.Country == "" {
		c.Country = "US"
	}
	return c
}

func (c Context) Validate() error {
	if c.Currency != "" && !isAlpha(c.Currency, 3) {
		return ErrInvalidCurrency
	}
	if c.Country != "" && !isAlpha(c.Country, 2) {
		return ErrInvalidCountry
	}
	return nil
}

// CanAddToCart mirrors the storefront rule: a currency must be chosen first.
func (c Context) CanAddToCart() bool { return c.Currency != "" }

// QueryArgs renders the price selection parameters understood by the catalog API.
func (c Context) QueryArgs() url.Values {
	q := url.Values{}
	if c.Currency != "" {
		q.Set("priceCurrency", c.Currency)
	}
	if c.Country != "" {
		q.Set("priceCountry", c.Country)
	}
	if c.ChannelID != "" {
		q.Set("priceChannel", c.ChannelID)
	}
	if c.CustomerGroupID != "" {
		q.Set("priceCustomerGroup", c.CustomerGroupID)
	}
	if c.StoreKey != "" {
		q.Set("storeProjection", c.StoreKey)
	}
	return q
}

// Key identifies the context for logging and metrics labels.
func (c Context) Key() string {
	return strings.Join([]string{c.Currency, c.Country, c.ChannelID, c.CustomerGroupID, c.StoreKey}, "|")
}

func isAlpha(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
