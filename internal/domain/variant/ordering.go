// internal/domain/variant/ordering.go
package variant

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Ordering sorts axis values for display.
//
// Text axes: numbers first (numeric compare), then everything else by locale collation.
// Enumerated axes: product-type option order, unknown keys after them by collation of key.
type Ordering struct {
	tag language.Tag
}

// NewOrdering builds an Ordering for a BCP 47 locale; invalid locales fall back to English.
func NewOrdering(locale string) Ordering {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil || tag == language.Und {
		tag = language.English
	}
	return Ordering{tag: tag}
}

func (o Ordering) collator() *collate.Collator {
	tag := o.tag
	if tag == language.Und {
		tag = language.English
	}
	// Collator keeps internal buffers; one per sort.
	return collate.New(tag)
}

// CompareText is the free-text ordering rule. Returns <0, 0, >0.
func (o Ordering) CompareText(a, b string) int {
	return o.compareText(o.collator(), a, b)
}

func (o Ordering) compareText(c *collate.Collator, a, b string) int {
	na, aok := parseNumber(a)
	nb, bok := parseNumber(b)
	switch {
	case aok && bok:
		if na < nb {
			return -1
		}
		if na > nb {
			return 1
		}
	case aok:
		return -1
	case bok:
		return 1
	}
	return c.CompareString(a, b)
}

// SortText sorts text values in place.
func (o Ordering) SortText(values []string) {
	c := o.collator()
	sort.SliceStable(values, func(i, j int) bool {
		return o.compareText(c, values[i], values[j]) < 0
	})
}

// Sort orders values of one axis. def may be nil when the product type is unknown.
func (o Ordering) Sort(values []AxisValue, def *AxisDefinition) {
	c := o.collator()
	sort.SliceStable(values, func(i, j int) bool {
		a, b := values[i], values[j]
		if a.Kind() == KindEnumerated && b.Kind() == KindEnumerated {
			ia, ib := -1, -1
			if def != nil {
				ia, ib = def.optionIndex(a.Identity()), def.optionIndex(b.Identity())
			}
			switch {
			case ia >= 0 && ib >= 0:
				return ia < ib
			case ia >= 0:
				return true
			case ib >= 0:
				return false
			}
			return c.CompareString(a.Identity(), b.Identity()) < 0
		}
		return o.compareText(c, a.Identity(), b.Identity()) < 0
	})
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
