package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrdering_SortText(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{name: "numeric before alphabetic", in: []string{"10", "8", "M", "9"}, want: []string{"8", "9", "10", "M"}},
		{name: "decimals", in: []string{"9.5", "9", "10", "8.5"}, want: []string{"8.5", "9", "9.5", "10"}},
		{name: "letters collate", in: []string{"XL", "L", "m", "S"}, want: []string{"L", "m", "S", "XL"}},
		{name: "mixed prefix is text", in: []string{"10M", "2", "A"}, want: []string{"2", "10M", "A"}},
		{name: "accents", in: []string{"élan", "zeta", "eagle"}, want: []string{"eagle", "élan", "zeta"}},
	}

	o := NewOrdering("en")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := append([]string(nil), tt.in...)
			o.SortText(got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOrdering_CompareText(t *testing.T) {
	o := NewOrdering("en")

	assert.Negative(t, o.CompareText("8", "10"))
	assert.Positive(t, o.CompareText("M", "10"))
	assert.Negative(t, o.CompareText("10", "M"))
	assert.Zero(t, o.CompareText("M", "M"))
}

func TestOrdering_InvalidLocaleFallsBack(t *testing.T) {
	o := NewOrdering("not a locale!!")
	got := []string{"b", "a"}
	o.SortText(got)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestOrdering_SortEnumerated(t *testing.T) {
	o := NewOrdering("en")
	vals := []AxisValue{
		Enumerated("purple", ""),
		Enumerated("green", ""),
		Enumerated("aqua", ""),
		Enumerated("red", ""),
	}
	o.Sort(vals, &testColorDef)
	assert.Equal(t, []string{"red", "green", "aqua", "purple"}, identities(vals))

	noDef := []AxisValue{Enumerated("red", ""), Enumerated("blue", "")}
	o.Sort(noDef, nil)
	assert.Equal(t, []string{"blue", "red"}, identities(noDef))
}

func TestAxisValue_TextNormalization(t *testing.T) {
	// NFC: "e" + combining acute equals precomposed "é"
	assert.True(t, Text(" e\u0301 ").Equal(Text("\u00e9")))
	assert.False(t, Text("M").Equal(Text("m")))
	assert.True(t, Text("  ").IsZero())
	assert.Equal(t, "Red", Enumerated("red", "Red").Label())
	assert.Equal(t, "red", Enumerated("red", "").Label())
}

func TestAxisValue_Number(t *testing.T) {
	n := Number(" 8.50 ")
	assert.True(t, n.Numeric())
	assert.Equal(t, KindText, n.Kind())
	assert.Equal(t, "8.5", n.Identity())
	assert.True(t, n.Equal(Text("8.5")), "identity ignores the numeric flag")
	assert.True(t, Number("9").Equal(Number("9.0")))

	for _, bad := range []string{"M", "NaN", "Inf", ""} {
		v := Number(bad)
		assert.False(t, v.Numeric(), bad)
	}

	def := AxisDefinition{Name: AxisSize, Numeric: true}
	assert.True(t, ValueFor(def, "10").Numeric())
	assert.False(t, ValueFor(AxisDefinition{Name: AxisSize}, "10").Numeric())
}
