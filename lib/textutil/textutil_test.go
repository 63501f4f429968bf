package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	testCases := []struct {
		in       string
		expected string
	}{
		{in: "Pick Rate", expected: "pickrate"},
		{in: " on-fire_rate\n", expected: "onfirerate"},
		{in: "Soldier: 76", expected: "soldier:76"},
		{in: "", expected: ""},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.expected, NormalizeName(tc.in), tc.in)
	}
}
