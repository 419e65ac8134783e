package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "lowercases", in: "QUESO Cremoso", want: "queso cremoso"},
		{name: "strips accents", in: "jamón cocido », ¡dulce!", want: "jamon cocido dulce"},
		{name: "collapses whitespace", in: "  3   cajas\t de   muzza  ", want: "3 cajas de muzza"},
		{name: "drops punctuation", in: "j.cocido - 2kg!!", want: "j cocido 2kg"},
		{name: "enie becomes n", in: "cuña", want: "cuna"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"", "3 Cajas de Muzza", "¿Cuánto sale el pategrás?", "  ---  ", "ñoquis & ravioles",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestCanonicalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "3 Cajas de Muzza", want: "3 cajas de muzzarella"},
		{in: "1 caja de qeso cremso", want: "1 caja de queso cremoso"},
		{in: "mayo y ketchap", want: "mayonesa y ketchup"},
		{in: "algo desconocido", want: "algo desconocido"},
		{in: "", want: ""},
	}

	for _, tc := range tests {
		got := Canonicalize(tc.in)
		assert.Equal(t, tc.want, got)
		// Deterministic: a second pass yields the identical string.
		assert.Equal(t, got, Canonicalize(tc.in))
	}
}

func TestMeaningfulTokens(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "drops stopwords and digits",
			in:   "hola quiero 3 cajas de muzza",
			want: []string{"cajas", "muzzarella"},
		},
		{
			name: "preserves order and duplicates",
			in:   "queso azul y queso cheddar",
			want: []string{"queso", "azul", "queso", "cheddar"},
		},
		{
			name: "empty input",
			in:   "",
			want: []string{},
		},
		{
			name: "only filler",
			in:   "hola buenas 123",
			want: []string{},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, MeaningfulTokens(tc.in))
		})
	}
}

func TestEditDistance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b string
		want int
	}{
		{name: "identical", a: "muzzarella", b: "muzzarella", want: 0},
		{name: "single substitution", a: "queso", b: "qeiso", want: 2},
		{name: "typo", a: "qeso", b: "queso", want: 1},
		{name: "both empty", a: "", b: "", want: 0},
		{name: "normalizes before comparing", a: "JAMÓN", b: "jamon", want: 0},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, EditDistance(tc.a, tc.b))
		})
	}
}

func TestEditDistanceIdentities(t *testing.T) {
	t.Parallel()

	inputs := []string{"", "queso", "3 cajas de muzza", "salame milán"}
	for _, s := range inputs {
		assert.Zero(t, EditDistance(s, s), "d(s,s) for %q", s)
		assert.Equal(t, len(Normalize(s)), EditDistance("", s), "d(empty,s) for %q", s)
		assert.Equal(t, len(Normalize(s)), EditDistance(s, ""), "d(s,empty) for %q", s)
	}
}

func TestKnownToken(t *testing.T) {
	t.Parallel()

	assert.True(t, KnownToken("muzza"), "alias key")
	assert.True(t, KnownToken("muzzarella"), "canonical value")
	assert.False(t, KnownToken("inventado"))
}
