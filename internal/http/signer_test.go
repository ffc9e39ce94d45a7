package httpx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCookieSigner_RoundTrip(t *testing.T) {
	signer := NewCookieSigner("test-secret")

	signed := signer.Sign("session-123")
	value, ok := signer.Verify(signed)
	require.True(t, ok)
	assert.Equal(t, "session-123", value)
}

func TestCookieSigner_RejectsTampering(t *testing.T) {
	signer := NewCookieSigner("test-secret")
	signed := signer.Sign("session-123")

	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "no signature", input: "session-123"},
		{name: "trailing dot", input: "session-123."},
		{name: "leading dot", input: ".sig"},
		{name: "altered value", input: "session-999." + signed[len("session-123."):]},
		{name: "altered signature", input: "session-123.AAAA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := signer.Verify(tt.input)
			assert.False(t, ok)
		})
	}
}

func TestCookieSigner_DifferentSecrets(t *testing.T) {
	signed := NewCookieSigner("secret-a").Sign("session-123")

	_, ok := NewCookieSigner("secret-b").Verify(signed)
	assert.False(t, ok)
}
