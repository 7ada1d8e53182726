package application_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/commentpanel/internal/application"
	"github.com/ericfisherdev/commentpanel/internal/domain/model"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "watch url", url: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "watch url with extra params", url: "https://www.youtube.com/watch?feature=share&v=abc123&t=42", want: "abc123"},
		{name: "watch url with fragment", url: "https://www.youtube.com/watch?v=abc123#comments", want: "abc123"},
		{name: "short link", url: "https://youtu.be/xyz789?si=tracking", want: "xyz789"},
		{name: "embed", url: "https://www.youtube.com/embed/emb456", want: "emb456"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := application.ExtractVideoID(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractVideoID_NoMatch(t *testing.T) {
	for _, url := range []string{"", "https://www.youtube.com/", "https://example.com/watch", "chrome://newtab"} {
		t.Run(url, func(t *testing.T) {
			_, err := application.ExtractVideoID(url)
			assert.ErrorIs(t, err, model.ErrContextUnavailable)
		})
	}
}
