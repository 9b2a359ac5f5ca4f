package factview

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleBuildsLazilyOnce(t *testing.T) {
	builds := 0
	h := NewHandle(func(context.Context) (*View, error) {
		builds++
		return &View{}, nil
	})
	require.Equal(t, 0, builds)

	v1, err := h.View(context.Background())
	require.NoError(t, err)
	v2, err := h.View(context.Background())
	require.NoError(t, err)

	assert.Same(t, v1, v2)
	assert.Equal(t, 1, builds)
}

func TestHandleRebuildSwaps(t *testing.T) {
	n := 0
	h := NewHandle(func(context.Context) (*View, error) {
		n++
		return &View{Rows: make([]Row, n)}, nil
	})

	v1, err := h.View(context.Background())
	require.NoError(t, err)
	require.Len(t, v1.Rows, 1)

	require.NoError(t, h.Rebuild(context.Background()))
	v2, err := h.View(context.Background())
	require.NoError(t, err)
	assert.Len(t, v2.Rows, 2)
	assert.Len(t, v1.Rows, 1, "old view is untouched")
}

func TestHandleRebuildFailureKeepsOldView(t *testing.T) {
	fail := false
	h := NewHandle(func(context.Context) (*View, error) {
		if fail {
			return nil, errors.New("source unavailable")
		}
		return &View{Rows: make([]Row, 1)}, nil
	})

	v1, err := h.View(context.Background())
	require.NoError(t, err)

	fail = true
	require.Error(t, h.Rebuild(context.Background()))

	v2, err := h.View(context.Background())
	require.NoError(t, err)
	assert.Same(t, v1, v2)
}
