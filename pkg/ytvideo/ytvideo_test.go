package ytvideo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractId(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{name: "short link", url: "https://youtu.be/abc123", want: "abc123"},
		{name: "watch param", url: "https://www.youtube.com/watch?v=abc123&t=5", want: "abc123"},
		{name: "embed path", url: "https://www.youtube.com/embed/abc123", want: "abc123"},
		{name: "no www", url: "https://youtube.com/watch?v=dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "mobile host", url: "https://m.youtube.com/watch?v=abc123", want: "abc123"},
		{name: "unknown host", url: "https://example.com/abc123", wantErr: true},
		{name: "short link without id", url: "https://youtu.be/", wantErr: true},
		{name: "watch without v param", url: "https://www.youtube.com/watch?list=PL123", wantErr: true},
		{name: "embed without id", url: "https://www.youtube.com/embed/", wantErr: true},
		{name: "nested short link path", url: "https://youtu.be/abc/def", wantErr: true},
		{name: "no scheme", url: "youtu.be/abc123", wantErr: true},
		{name: "empty", url: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractId(tt.url)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnsupportedURL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
