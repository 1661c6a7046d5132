package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient_Timeout(t *testing.T) {
	t.Parallel()

	c := NewHTTPClient(3 * time.Second)

	assert.Equal(t, 3*time.Second, c.Timeout)
	assert.IsType(t, &userAgentTransport{}, c.Transport)
}

func TestNewHTTPClient_UserAgent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		header   string
		expected string
	}{
		{name: "default user agent", header: "", expected: UserAgent},
		{name: "caller user agent kept", header: "google-genai-sdk/1.0", expected: "google-genai-sdk/1.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.Header.Get("User-Agent")
				w.WriteHeader(http.StatusNoContent)
			}))
			defer srv.Close()

			req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
			require.NoError(t, err)
			if tt.header != "" {
				req.Header.Set("User-Agent", tt.header)
			}

			resp, err := NewHTTPClient(time.Second).Do(req)
			require.NoError(t, err)
			_ = resp.Body.Close()

			assert.Equal(t, tt.expected, got)
		})
	}
}
