package txlink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShareLinkAndTokenFromLink(t *testing.T) {
	d := scenarioA()

	link, err := ShareLink("https://pay.example.com/", d)
	require.NoError(t, err)
	assert.Contains(t, link, "https://pay.example.com/transaction/")

	token, err := TokenFromLink(link)
	require.NoError(t, err)

	got, err := Decode(token)
	require.NoError(t, err)
	assert.Equal(t, d, got)
}

func TestTokenFromLink(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Token
		wantErr bool
	}{
		{"bare token", "  abcDEF_-  ", "abcDEF_-", false},
		{"full link", "https://x.io/transaction/abc", "abc", false},
		{"trailing slash", "https://x.io/transaction/abc/", "abc", false},
		{"query ignored", "https://x.io/transaction/abc?ref=1#top", "abc", false},
		{"escaped kept", "https://x.io/transaction/eyJ%3D%3D", "eyJ%3D%3D", false},
		{"relative path", "/transaction/abc", "abc", false},
		{"empty", "   ", "", true},
		{"no token", "https://x.io/transaction/", "", true},
		{"nested", "https://x.io/transaction/a/b", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TokenFromLink(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShareLinkRejectsInvalid(t *testing.T) {
	_, err := ShareLink("https://x.io", Description{})
	assert.Error(t, err)
}
