package colorx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"three digit shorthand", "#abc", "#aabbcc"},
		{"three digit without hash", "36f", "#3366ff"},
		{"four digit shorthand", "abcd", "#aabbccdd"},
		{"full six digit", "1a2b3c", "#1a2b3c"},
		{"full six digit with hash", "#1A2B3C", "#1A2B3C"},
		{"full eight digit", "11223344", "#11223344"},
		{"two digits pass through", "12", "12"},
		{"five digits pass through", "12345", "12345"},
		{"seven digits pass through", "1234567", "1234567"},
		{"non hex passes through", "zz", "zz"},
		{"non hex shorthand length", "zzz", "zzz"},
		{"named color passes through", "rebeccapurple", "rebeccapurple"},
		{"empty string", "", ""},
		{"lone hash", "#", "#"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{"#abc", "abc", "abcd", "1a2b3c", "#11223344", "zz", "", "12"}
	for _, in := range inputs {
		once := Normalize(in)
		require.Equal(t, once, Normalize(once), "input %q", in)
	}
}
