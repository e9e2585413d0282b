package id

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompare(t *testing.T) {
	a := Generate()
	b := Generate()

	require.Equal(t, -1, Compare(a, b))
	require.Equal(t, 1, Compare(b, a))
	require.Equal(t, 0, Compare(a, a))
	require.Equal(t, -1, Compare("nope", a))
	require.Equal(t, 1, Compare(a, "nope"))
}

func TestValid(t *testing.T) {
	tt := []struct {
		name string
		id   string
		want bool
	}{
		{name: "generated", id: Generate(), want: true},
		{name: "empty", id: "", want: false},
		{name: "garbage", id: "not-an-id", want: false},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Valid(tc.id))
		})
	}
}
