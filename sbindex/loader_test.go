package sbindex_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/awalczak/storynav"
	"github.com/awalczak/storynav/sbindex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeIndexFile(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func TestLoader_Load(t *testing.T) {
	t.Parallel()

	t.Run("file sources parse into refs", func(t *testing.T) {
		t.Parallel()

		path := writeIndexFile(t, indexV5)
		loader := sbindex.NewLoader(sbindex.NewParser())

		ds, err := loader.Load(context.Background(), []storynav.RefSource{
			{ID: storynav.InternalRefID, Title: "Local", URL: path},
		})
		require.NoError(t, err)

		ref := ds.Ref(storynav.InternalRefID)
		require.NotNil(t, ref)
		require.NoError(t, ref.Err)
		assert.True(t, ref.PreviewInitialized)
		require.NotNil(t, ref.Index)
		assert.NotNil(t, ref.Index.Node("ui-forms-button--primary"))
	})

	t.Run("remote sources fetch index.json from the base url", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/index.json", r.URL.Path)
			_, _ = w.Write([]byte(indexV5))
		}))
		defer srv.Close()

		loader := sbindex.NewLoader(sbindex.NewParser())
		ds, err := loader.Load(context.Background(), []storynav.RefSource{
			{ID: "design-system", Title: "Design System", URL: srv.URL},
		})
		require.NoError(t, err)

		ref := ds.Ref("design-system")
		require.NotNil(t, ref)
		require.NoError(t, ref.Err)
		require.NotNil(t, ref.Index)
	})

	t.Run("dataset order follows source order", func(t *testing.T) {
		t.Parallel()

		local := writeIndexFile(t, indexV5)
		loader := sbindex.NewLoader(sbindex.NewParser())

		ds, err := loader.Load(context.Background(), []storynav.RefSource{
			{ID: storynav.InternalRefID, URL: local},
			{ID: "other", URL: filepath.Join(t.TempDir(), "missing.json")},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{storynav.InternalRefID, "other"}, ds.Order)
	})

	t.Run("a failing ref records its error without failing the load", func(t *testing.T) {
		t.Parallel()

		loader := sbindex.NewLoader(sbindex.NewParser())
		ds, err := loader.Load(context.Background(), []storynav.RefSource{
			{ID: "broken", URL: filepath.Join(t.TempDir(), "nope.json")},
		})
		require.NoError(t, err)

		ref := ds.Ref("broken")
		require.NotNil(t, ref)
		assert.Error(t, ref.Err)
		assert.Nil(t, ref.Index)
		assert.False(t, ref.PreviewInitialized)
	})

	t.Run("remote fetch retries until the ref comes up", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte(indexV5))
		}))
		defer srv.Close()

		loader := sbindex.NewLoader(sbindex.NewParser(), sbindex.WithRetry(5, time.Millisecond))
		ds, err := loader.Load(context.Background(), []storynav.RefSource{
			{ID: "slow", URL: srv.URL},
		})
		require.NoError(t, err)

		ref := ds.Ref("slow")
		require.NoError(t, ref.Err)
		assert.EqualValues(t, 3, calls.Load())
	})

	t.Run("retry gives up after the configured attempts", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		loader := sbindex.NewLoader(sbindex.NewParser(), sbindex.WithRetry(2, time.Millisecond))
		ds, err := loader.Load(context.Background(), []storynav.RefSource{
			{ID: "down", URL: srv.URL},
		})
		require.NoError(t, err)

		ref := ds.Ref("down")
		assert.ErrorContains(t, ref.Err, "after 2 attempts")
		assert.EqualValues(t, 2, calls.Load())
	})

	t.Run("a non-positive retry count still fetches once", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		loader := sbindex.NewLoader(sbindex.NewParser(), sbindex.WithRetry(0, time.Millisecond))
		ds, err := loader.Load(context.Background(), []storynav.RefSource{
			{ID: "once", URL: srv.URL},
		})
		require.NoError(t, err)

		ref := ds.Ref("once")
		require.Error(t, ref.Err)
		assert.ErrorContains(t, ref.Err, "unexpected status")
		assert.EqualValues(t, 1, calls.Load())
	})

	t.Run("cancelled context aborts the load", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		loader := sbindex.NewLoader(sbindex.NewParser())
		_, err := loader.Load(ctx, []storynav.RefSource{
			{ID: "any", URL: writeIndexFile(t, indexV5)},
		})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
