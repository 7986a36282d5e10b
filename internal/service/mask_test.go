package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMaskEmailAddress(t *testing.T) {
	cases := map[string]string{
		"":                    "",
		"Teacher@Example.com": "t***r@example.com",
		"al@example.com":      "a***@example.com",
		"not-an-email":        "***",
		"@example.com":        "***",
		"a@b@example.com":     "***",
	}
	for input, want := range cases {
		require.Equal(t, want, maskEmailAddress(input), input)
	}
}
