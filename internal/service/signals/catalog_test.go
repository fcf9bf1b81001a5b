package signals

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thebenmerlin/MVP90/internal/domain/startup"
)

func TestLoadEntities_Embedded(t *testing.T) {
	entities, err := LoadEntities("")
	require.NoError(t, err)
	require.Len(t, entities, 5)

	first := entities[0]
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, "NeuroLink AI", first.Name)
	assert.Equal(t, "octocat", first.GitHubUsername)
	assert.Equal(t, "neurolink-ai", first.ProductHuntSlug)
	assert.Equal(t, "https://neurolink-ai.com", first.WebsiteURL)
	assert.Equal(t, startup.ActionBuild, first.ActionTag)
	assert.Equal(t, int64(250000), first.EstimatedBuildCost)

	medi := entities[3]
	assert.Equal(t, "MediChain", medi.Name)
	assert.Empty(t, medi.ProductHuntSlug)
	assert.Empty(t, medi.WebsiteURL)
}

func TestLoadEntities_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "startups.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
- id: 7
  name: Solo
  action_tag: Store
`), 0o644))

	entities, err := LoadEntities(path)
	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, 0, entities[0].IndiaMarketFit)

	_, err = LoadEntities(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseEntities_Validation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty", `[]`},
		{"zero id", "- {id: 0, name: A, action_tag: Build}"},
		{"duplicate id", "- {id: 1, name: A, action_tag: Build}\n- {id: 1, name: B, action_tag: Scout}"},
		{"no name", "- {id: 1, action_tag: Build}"},
		{"bad tag", "- {id: 1, name: A, action_tag: Sell}"},
		{"fit out of range", "- {id: 1, name: A, action_tag: Build, india_market_fit: 11}"},
		{"negative cost", "- {id: 1, name: A, action_tag: Build, estimated_build_cost: -5}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEntities([]byte(tt.yaml))
			assert.ErrorIs(t, err, startup.ErrInvalidCatalog)
		})
	}

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := ParseEntities([]byte("id: [unterminated"))
		assert.Error(t, err)
	})
}
