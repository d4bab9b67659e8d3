// internal/domain/variant/resolve.go
package variant

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrAmbiguousMatch is matched by *AmbiguousMatchError via errors.Is.
var ErrAmbiguousMatch = errors.New("variant: ambiguous match")

// AmbiguousMatchError reports several variants covering one full selection.
type AmbiguousMatchError struct {
	ProductID  string
	Selection  map[string]string
	VariantIDs []string
}

func (e *AmbiguousMatchError) Error() string {
	keys := make([]string, 0, len(e.Selection))
	for k := range e.Selection {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+e.Selection[k])
	}
	return fmt.Sprintf(
		"variant: ambiguous match product=%s selection={%s} variants=[%s]",
		e.ProductID, strings.Join(parts, ","), strings.Join(e.VariantIDs, ","),
	)
}

func (e *AmbiguousMatchError) Is(target error) bool { return target == ErrAmbiguousMatch }

// Outcome is the result kind of one resolution.
type Outcome int

const (
	OutcomeResolved Outcome = iota
	OutcomeNoMatchingCombination
	OutcomeOutOfStock
)

func (o Outcome) String() string {
	switch o {
	case OutcomeResolved:
		return "resolved"
	case OutcomeNoMatchingCombination:
		return "no_matching_combination"
	case OutcomeOutOfStock:
		return "combination_exists_but_out_of_stock"
	default:
		return "unknown"
	}
}

// Resolution is computed fresh for every selection change and never cached:
// stock and price depend on the store context.
type Resolution struct {
	Outcome   Outcome
	Selection Selection
	// Variant is set for Resolved and OutOfStock.
	Variant Variant
	// Recovery is set for NoMatchingCombination when some variant carries the
	// changed axis value; the caller decides whether to move to it.
	Recovery *Variant
}

// Resolve maps sel to an outcome. changed is the axis the shopper just edited
// (empty for a programmatic lookup); it drives the recovery fallback.
func (m *Matrix) Resolve(sel Selection, changed Axis) (Resolution, error) {
	res := Resolution{Selection: sel.Clone()}

	v, ok, err := m.FindExact(sel)
	if err != nil {
		return res, err
	}
	if ok {
		res.Variant = v
		if v.InStock() {
			res.Outcome = OutcomeResolved
		} else {
			res.Outcome = OutcomeOutOfStock
		}
		return res, nil
	}

	return m.NoMatch(sel, changed), nil
}

// NoMatch builds the NoMatchingCombination outcome for sel, with the recovery
// variant for changed. Used when a remote lookup found nothing.
func (m *Matrix) NoMatch(sel Selection, changed Axis) Resolution {
	res := Resolution{Selection: sel.Clone(), Outcome: OutcomeNoMatchingCombination}
	if changed != "" {
		res.Recovery = m.recoveryFor(changed, sel[changed])
	}
	return res
}

// recoveryFor returns a variant carrying value on axis, ignoring other axes.
// In-stock variants are preferred; matrix order breaks ties.
func (m *Matrix) recoveryFor(axis Axis, value AxisValue) *Variant {
	if value.IsZero() {
		return nil
	}
	var fallback *Variant
	for i := range m.variants {
		v := m.variants[i]
		if !v.Value(axis).Equal(value) {
			continue
		}
		if v.InStock() {
			out := v
			return &out
		}
		if fallback == nil {
			out := v
			fallback = &out
		}
	}
	return fallback
}
