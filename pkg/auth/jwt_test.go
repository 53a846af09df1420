package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT_SignVerifyRoundTrip(t *testing.T) {
	j := New("test-secret", time.Hour)

	tok, err := j.Sign("user-123")
	require.NoError(t, err)

	uid, err := j.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", uid)
}

func TestJWT_VerifyRejects(t *testing.T) {
	j := New("test-secret", time.Hour)
	other := New("other-secret", time.Hour)

	tests := []struct {
		name string
		tok  func() string
	}{
		{"empty token", func() string { return "" }},
		{"garbage", func() string { return "not.a.jwt" }},
		{"wrong secret", func() string {
			tok, err := other.Sign("user-123")
			require.NoError(t, err)
			return tok
		}},
		{"expired", func() string {
			expired := New("test-secret", -time.Minute)
			tok, err := expired.Sign("user-123")
			require.NoError(t, err)
			return tok
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := j.Verify(tt.tok())
			assert.Error(t, err)
		})
	}
}

func TestJWT_SignEmptyUID(t *testing.T) {
	j := New("test-secret", time.Hour)
	_, err := j.Sign("")
	assert.Error(t, err)
}
