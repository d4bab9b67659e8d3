// internal/domain/variant/axis.go
package variant

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Axis is a named configurable dimension of a product (size, color, style ...).
type Axis string

const (
	AxisSize  Axis = "size"
	AxisColor Axis = "color"
	AxisStyle Axis = "style"
)

func (a Axis) String() string { return string(a) }

// AxisKind tells how values on an axis are compared.
type AxisKind int

const (
	// KindText values are free text compared as normalized strings.
	KindText AxisKind = iota
	// KindEnumerated values carry a stable key and a display label; only the key counts.
	KindEnumerated
)

func (k AxisKind) String() string {
	switch k {
	case KindEnumerated:
		return "enumerated"
	default:
		return "text"
	}
}

// EnumOption is one allowed value of an enumerated axis.
type EnumOption struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// AxisDefinition describes an axis as declared by the product type.
type AxisDefinition struct {
	Name    Axis         `json:"name"`
	Kind    AxisKind     `json:"kind"`
	Options []EnumOption `json:"options,omitempty"`
	// Numeric is set for number-typed attributes. Values stay KindText for
	// comparison and ordering, but remote predicates must not quote them.
	Numeric bool `json:"numeric,omitempty"`
}

// Label returns the display label for key, falling back to the key itself.
func (d AxisDefinition) Label(key string) string {
	for _, o := range d.Options {
		if o.Key == key {
			if strings.TrimSpace(o.Label) != "" {
				return o.Label
			}
			break
		}
	}
	return key
}

// optionIndex returns the declared position of key, or -1.
func (d AxisDefinition) optionIndex(key string) int {
	for i, o := range d.Options {
		if o.Key == key {
			return i
		}
	}
	return -1
}

// AxisValue is either Text(s) or Enumerated(key, label).
// The tag is decided once, when the remote payload is ingested.
type AxisValue struct {
	kind    AxisKind
	text    string
	key     string
	label   string
	numeric bool
}

// Text builds a free-text value.
func Text(s string) AxisValue {
	return AxisValue{kind: KindText, text: normalizeText(s)}
}

// Number builds a text value from a numeric literal, kept in its shortest decimal
// form ("8.50" -> "8.5") so it compares equal however the number was written.
// Literals that do not parse fall back to Text.
func Number(literal string) AxisValue {
	f, ok := parseNumber(literal)
	if !ok {
		return Text(literal)
	}
	return AxisValue{kind: KindText, text: strconv.FormatFloat(f, 'f', -1, 64), numeric: true}
}

// Enumerated builds an enumerated value. label is display-only.
func Enumerated(key, label string) AxisValue {
	return AxisValue{kind: KindEnumerated, key: strings.TrimSpace(key), label: label}
}

func (v AxisValue) Kind() AxisKind { return v.kind }

// Numeric reports whether the value came from a number-typed attribute.
func (v AxisValue) Numeric() bool { return v.numeric }

// IsZero reports whether the value is empty (no selection on the axis).
func (v AxisValue) IsZero() bool { return v.Identity() == "" }

// Identity is the comparison key: enum key or normalized text.
func (v AxisValue) Identity() string {
	if v.kind == KindEnumerated {
		return v.key
	}
	return v.text
}

// Label is what a shopper sees.
func (v AxisValue) Label() string {
	if v.kind == KindEnumerated {
		if strings.TrimSpace(v.label) != "" {
			return v.label
		}
		return v.key
	}
	return v.text
}

// Equal compares identities only. Labels are locale dependent and never affect identity.
func (v AxisValue) Equal(o AxisValue) bool {
	return v.Identity() == o.Identity()
}

func (v AxisValue) String() string { return v.Identity() }

func normalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// ValueFor converts raw shopper input into an AxisValue using the axis definition.
// Unknown axes are treated as text.
func ValueFor(def AxisDefinition, raw string) AxisValue {
	if def.Kind == KindEnumerated {
		key := strings.TrimSpace(raw)
		return Enumerated(key, def.Label(key))
	}
	if def.Numeric {
		return Number(raw)
	}
	return Text(raw)
}
