// internal/domain/variant/selection.go
package variant

import "sort"

// Selection is the shopper's target value per axis. Axes may be empty.
type Selection map[Axis]AxisValue

// SeedFromVariant builds a selection holding v's own value for every axis in axes
// (or empty when v has no value there). Axes assigned on v but missing from axes are
// added as well so no attribute is lost.
func SeedFromVariant(v Variant, axes []Axis) Selection {
	s := make(Selection, len(axes))
	for _, a := range axes {
		s[a] = v.Value(a)
	}
	for a, val := range v.Attributes {
		if _, ok := s[a]; !ok {
			s[a] = val
		}
	}
	return s
}

// IsEmpty reports whether no axis holds a value.
func (s Selection) IsEmpty() bool {
	for _, v := range s {
		if !v.IsZero() {
			return false
		}
	}
	return true
}

// With returns a copy with axis set to value.
func (s Selection) With(axis Axis, value AxisValue) Selection {
	out := s.Clone()
	out[axis] = value
	return out
}

func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Constrained returns the axes with a value, sorted by name.
func (s Selection) Constrained() []Axis {
	out := make([]Axis, 0, len(s))
	for a, v := range s {
		if !v.IsZero() {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Equal compares identities on all axes; an absent axis equals an empty one.
func (s Selection) Equal(o Selection) bool {
	for a, v := range s {
		if !v.Equal(o[a]) {
			return false
		}
	}
	for a, v := range o {
		if !v.Equal(s[a]) {
			return false
		}
	}
	return true
}

// Matches reports whether v satisfies every non-empty axis of s.
func (s Selection) Matches(v Variant) bool {
	for a, want := range s {
		if want.IsZero() {
			continue
		}
		if !v.Value(a).Equal(want) {
			return false
		}
	}
	return true
}

// Identities flattens the selection for logging and transport.
func (s Selection) Identities() map[string]string {
	out := make(map[string]string, len(s))
	for a, v := range s {
		out[string(a)] = v.Identity()
	}
	return out
}
