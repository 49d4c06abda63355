package utils

import (
    "strings"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestNewVerificationToken_Unique(t *testing.T) {
    seen := make(map[string]bool)
    for i := 0; i < 100; i++ {
        tok := NewVerificationToken()
        assert.NotEmpty(t, tok)
        assert.False(t, seen[tok], "token repeated")
        seen[tok] = true
    }
}

func TestBuildVerificationURL(t *testing.T) {
    url := BuildVerificationURL("https://app.example.com/verify", "abc-123")
    assert.Equal(t, "https://app.example.com/verify?token=abc-123", url)
}

func TestRenderQRCode(t *testing.T) {
    uri, err := RenderQRCode("https://app.example.com/verify?token=abc-123")
    require.NoError(t, err)
    assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))
    assert.Greater(t, len(uri), len("data:image/png;base64,"))
}
