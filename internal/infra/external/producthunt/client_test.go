package producthunt

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const postsResponse = `{"data":{"posts":{"edges":[
	{"node":{"id":"1","name":"CropSense","tagline":"Soil sensors for farms","description":"IoT",
	 "votesCount":321,"commentsCount":12,"createdAt":"2024-03-01T08:00:00Z","featuredAt":null,"makerInside":true,
	 "topics":{"edges":[{"node":{"name":"Agriculture"}},{"node":{"name":"IoT"}}]}}},
	{"node":{"id":"2","name":"Other","tagline":"Something else","description":"",
	 "votesCount":5,"commentsCount":0,"createdAt":"2024-03-02T08:00:00Z","featuredAt":"2024-03-03T08:00:00Z","makerInside":false,
	 "topics":{"edges":[]}}}
]}}}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(Config{Token: "ph-token", BaseURL: srv.URL})
}

func TestClient_Disabled(t *testing.T) {
	c := NewClient(Config{})
	assert.False(t, c.Enabled())

	_, err := c.SearchPosts(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestClient_SearchPosts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer ph-token", r.Header.Get("Authorization"))

		var req graphqlRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, strings.Contains(req.Query, `posts(first: 20, order: VOTES, postedAfter: "2023-01-01")`))

		w.Write([]byte(postsResponse))
	})

	t.Run("filters by term", func(t *testing.T) {
		posts, err := c.SearchPosts(context.Background(), "iot")
		require.NoError(t, err)
		require.Len(t, posts, 1)

		p := posts[0]
		assert.Equal(t, "CropSense", p.Name)
		assert.Equal(t, 321, p.VotesCount)
		assert.Equal(t, []string{"Agriculture", "IoT"}, p.Topics)
		assert.True(t, p.FeaturedAt.IsZero())
		assert.True(t, p.MakerInside)
	})

	t.Run("empty term keeps all", func(t *testing.T) {
		posts, err := c.SearchPosts(context.Background(), "")
		require.NoError(t, err)
		assert.Len(t, posts, 2)
		assert.False(t, posts[1].FeaturedAt.IsZero())
	})
}

func TestClient_GetPost(t *testing.T) {
	t.Run("by slug", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			var req graphqlRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "cropsense", req.Variables["slug"])

			w.Write([]byte(`{"data":{"post":{"id":"1","name":"CropSense","votesCount":9,"createdAt":"2024-03-01T08:00:00Z","topics":{"edges":[]}}}}`))
		})

		p, err := c.GetPostBySlug(context.Background(), "cropsense")
		require.NoError(t, err)
		assert.Equal(t, 9, p.VotesCount)
	})

	t.Run("null post", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data":{"post":null}}`))
		})

		_, err := c.GetPostByID(context.Background(), "404")
		assert.ErrorIs(t, err, ErrPostNotFound)
	})

	t.Run("graphql errors", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data":null,"errors":[{"message":"invalid token"}]}`))
		})

		_, err := c.GetPostByID(context.Background(), "1")
		assert.ErrorContains(t, err, "invalid token")
	})

	t.Run("http error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		_, err := c.GetPostByID(context.Background(), "1")
		assert.ErrorContains(t, err, "unexpected status: 401")
	})
}
