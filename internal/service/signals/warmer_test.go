package signals

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWarmer(t *testing.T) {
	svc, _ := newTestService(t, nil)

	t.Run("invalid spec", func(t *testing.T) {
		_, err := NewWarmer(context.Background(), svc, "every now and then")
		assert.Error(t, err)
	})

	t.Run("descriptor and six-field specs", func(t *testing.T) {
		for _, spec := range []string{"@every 5m", "0 */5 * * * *", "*/5 * * * *"} {
			w, err := NewWarmer(context.Background(), svc, spec)
			require.NoError(t, err, spec)
			w.Start()
			w.Stop()
		}
	})

	t.Run("run refreshes every entity", func(t *testing.T) {
		src := &countingSource{StaticSource: StaticSource{}}
		svc, _ := newTestService(t, []Source{src})

		w, err := NewWarmer(context.Background(), svc, "@every 1h")
		require.NoError(t, err)

		w.run()
		assert.EqualValues(t, 5, src.calls.Load())
		assert.Equal(t, 5, svc.CacheStatus().Cached)
	})
}
