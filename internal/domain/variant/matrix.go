// internal/domain/variant/matrix.go
package variant

import (
	"sort"
	"strings"
)

// Matrix is the full set of one product's variants plus the distinct values per axis.
// It is built once per product and discarded when the product changes.
type Matrix struct {
	productID string
	variants  []Variant
	axes      []Axis
	defs      map[Axis]AxisDefinition
	values    map[Axis][]AxisValue
	ordering  Ordering
}

// ValueAvailability is one option of an axis as the shopper sees it.
// Out-of-stock and non-existent combinations stay in the list, flagged.
type ValueAvailability struct {
	Value   AxisValue
	Exists  bool
	InStock bool
}

// NewMatrix validates variants (same product, unique ids) and indexes the axis values.
// defs may be empty; axes then come from the variants' own attributes.
func NewMatrix(productID string, variants []Variant, defs []AxisDefinition, ordering Ordering) (*Matrix, error) {
	pid := strings.TrimSpace(productID)
	if pid == "" {
		return nil, ErrProductIDRequired
	}

	m := &Matrix{
		productID: pid,
		variants:  make([]Variant, 0, len(variants)),
		defs:      make(map[Axis]AxisDefinition, len(defs)),
		values:    map[Axis][]AxisValue{},
		ordering:  ordering,
	}

	seenAxis := map[Axis]struct{}{}
	for _, d := range defs {
		if _, dup := seenAxis[d.Name]; dup || d.Name == "" {
			continue
		}
		seenAxis[d.Name] = struct{}{}
		m.defs[d.Name] = d
		m.axes = append(m.axes, d.Name)
	}

	seenID := make(map[string]struct{}, len(variants))
	var extra []Axis
	for _, v := range variants {
		if err := v.validate(); err != nil {
			return nil, err
		}
		if v.ProductID != pid {
			return nil, ErrProductMismatch
		}
		if _, dup := seenID[v.ID]; dup {
			return nil, ErrDuplicateVariationID
		}
		seenID[v.ID] = struct{}{}
		m.variants = append(m.variants, v)

		for a := range v.Attributes {
			if _, ok := seenAxis[a]; ok {
				continue
			}
			seenAxis[a] = struct{}{}
			extra = append(extra, a)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	m.axes = append(m.axes, extra...)

	for _, a := range m.axes {
		m.values[a] = m.collectValues(a)
	}
	return m, nil
}

func (m *Matrix) collectValues(axis Axis) []AxisValue {
	seen := map[string]struct{}{}
	var out []AxisValue
	for _, v := range m.variants {
		val := v.Value(axis)
		if val.IsZero() {
			continue
		}
		if _, dup := seen[val.Identity()]; dup {
			continue
		}
		seen[val.Identity()] = struct{}{}
		out = append(out, val)
	}
	var def *AxisDefinition
	if d, ok := m.defs[axis]; ok {
		def = &d
	}
	m.ordering.Sort(out, def)
	return out
}

// ==========================
// Accessors
// ==========================

func (m *Matrix) ProductID() string { return m.productID }

func (m *Matrix) Len() int { return len(m.variants) }

// Variants returns the variants in matrix iteration order.
func (m *Matrix) Variants() []Variant {
	return append([]Variant(nil), m.variants...)
}

// Axes returns axes in definition order, then any undeclared ones by name.
func (m *Matrix) Axes() []Axis {
	return append([]Axis(nil), m.axes...)
}

// Definition returns the declared definition of axis, if any.
func (m *Matrix) Definition(axis Axis) (AxisDefinition, bool) {
	d, ok := m.defs[axis]
	return d, ok
}

// Values returns the ordered distinct values occurring on axis.
func (m *Matrix) Values(axis Axis) []AxisValue {
	return append([]AxisValue(nil), m.values[axis]...)
}

// FindVariationByID looks a variant up by its id.
func (m *Matrix) FindVariationByID(id string) (Variant, bool) {
	id = strings.TrimSpace(id)
	for _, v := range m.variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}

// ValueFor turns raw shopper input into a value of axis.
func (m *Matrix) ValueFor(axis Axis, raw string) AxisValue {
	if d, ok := m.defs[axis]; ok {
		return ValueFor(d, raw)
	}
	num := Number(raw)
	for _, v := range m.values[axis] {
		switch {
		case v.Kind() == KindEnumerated && v.Identity() == strings.TrimSpace(raw):
			return v
		case v.Numeric() && num.Numeric():
			// undeclared axis whose values arrived as JSON numbers
			return num
		}
	}
	return Text(raw)
}

// ==========================
// Lookups
// ==========================

// FindExact returns the variant matching every non-empty axis of sel.
//
// Variants whose assigned axes are exactly the selected ones win over variants that
// carry extra values; otherwise matrix order decides. Two or more variants covering
// the same full selection is a malformed matrix and yields *AmbiguousMatchError.
func (m *Matrix) FindExact(sel Selection) (Variant, bool, error) {
	if sel.IsEmpty() {
		return Variant{}, false, ErrEmptySelection
	}
	want := len(sel.Constrained())

	var first *Variant
	var exact []Variant
	for i := range m.variants {
		v := m.variants[i]
		if !sel.Matches(v) {
			continue
		}
		if first == nil {
			first = &m.variants[i]
		}
		if v.assignedAxes() == want {
			exact = append(exact, v)
		}
	}

	switch {
	case len(exact) > 1:
		ids := make([]string, 0, len(exact))
		for _, v := range exact {
			ids = append(ids, v.ID)
		}
		return Variant{}, false, &AmbiguousMatchError{
			ProductID:  m.productID,
			Selection:  sel.Identities(),
			VariantIDs: ids,
		}
	case len(exact) == 1:
		return exact[0], true, nil
	case first != nil:
		return *first, true, nil
	}
	return Variant{}, false, nil
}

// CombinationExists reports whether some variant carries both assignments, stock aside.
func (m *Matrix) CombinationExists(axis Axis, value AxisValue, otherAxis Axis, otherValue AxisValue) bool {
	sel := Selection{axis: value, otherAxis: otherValue}
	if sel.IsEmpty() {
		return false
	}
	for _, v := range m.variants {
		if sel.Matches(v) {
			return true
		}
	}
	return false
}

// IsAvailable reports whether a variant exists for the combination and is in stock.
func (m *Matrix) IsAvailable(axis Axis, value AxisValue, otherAxis Axis, otherValue AxisValue) bool {
	sel := Selection{axis: value, otherAxis: otherValue}
	if sel.IsEmpty() {
		return false
	}
	for _, v := range m.variants {
		if sel.Matches(v) && v.InStock() {
			return true
		}
	}
	return false
}

// AvailableValuesForAxis lists every value of axis with existence and stock flags,
// given the other axes fixed as in fixed (fixed[axis] itself is ignored).
func (m *Matrix) AvailableValuesForAxis(axis Axis, fixed Selection) []ValueAvailability {
	vals := m.values[axis]
	out := make([]ValueAvailability, 0, len(vals))
	for _, val := range vals {
		sel := fixed.With(axis, val)
		va := ValueAvailability{Value: val}
		for _, v := range m.variants {
			if !sel.Matches(v) {
				continue
			}
			va.Exists = true
			if v.InStock() {
				va.InStock = true
				break
			}
		}
		out = append(out, va)
	}
	return out
}
