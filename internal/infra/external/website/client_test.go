package website

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Probe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "MVP90-Terminal/1.0", r.Header.Get("User-Agent"))

		switch r.URL.Path {
		case "/":
			w.Write([]byte(`<html><head>
				<title> EcoLogistics </title>
				<meta name="Description" content="Carbon-aware freight routing">
				<meta name="keywords" content="logistics, climate , ,routing">
			</head><body></body></html>`))
		case "/og":
			w.Write([]byte(`<html><head><title>OG</title>
				<meta property="og:description" content="From open graph">
			</head></html>`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(Config{Enabled: true})

	t.Run("title description keywords", func(t *testing.T) {
		meta, err := c.Probe(context.Background(), srv.URL+"/")
		require.NoError(t, err)

		assert.Equal(t, "EcoLogistics", meta.Title)
		assert.Equal(t, "Carbon-aware freight routing", meta.Description)
		assert.Equal(t, []string{"logistics", "climate", "routing"}, meta.Keywords)
		assert.Equal(t, "EcoLogistics Carbon-aware freight routing", meta.Text())
	})

	t.Run("open graph fallback", func(t *testing.T) {
		meta, err := c.Probe(context.Background(), srv.URL+"/og")
		require.NoError(t, err)

		assert.Equal(t, "From open graph", meta.Description)
		assert.Empty(t, meta.Keywords)
	})

	t.Run("non-200", func(t *testing.T) {
		_, err := c.Probe(context.Background(), srv.URL+"/missing")
		assert.ErrorContains(t, err, "unexpected status: 404")
	})
}

func TestClient_Disabled(t *testing.T) {
	c := NewClient(Config{})
	assert.False(t, c.Enabled())

	_, err := c.Probe(context.Background(), "http://example.invalid")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
