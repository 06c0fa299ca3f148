package correlation_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jagreehal/autotel-go/correlation"
)

func TestGetOrCreate_MintsOnFirstCall(t *testing.T) {
	_, ok := correlation.FromContext(context.Background())
	require.False(t, ok)

	ctx, id := correlation.GetOrCreate(context.Background())
	assert.NotEmpty(t, id)

	got, ok := correlation.FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, id, got)
}

func TestGetOrCreate_StableWithinTask(t *testing.T) {
	ctx, id := correlation.GetOrCreate(context.Background())

	ctx2, id2 := correlation.GetOrCreate(ctx)
	assert.Equal(t, id, id2)
	assert.Equal(t, ctx, ctx2)
}

func TestGetOrCreate_IndependentAcrossConcurrentTasks(t *testing.T) {
	_, id1 := correlation.GetOrCreate(context.Background())
	_, id2 := correlation.GetOrCreate(context.Background())

	assert.NotEqual(t, id1, id2)
}

func TestWithID_OverridesBinding(t *testing.T) {
	ctx := correlation.WithID(context.Background(), "upstream-id")
	id, ok := correlation.FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "upstream-id", id)

	ctx2, id2 := correlation.GetOrCreate(ctx)
	assert.Equal(t, ctx, ctx2)
	assert.Equal(t, "upstream-id", id2)
}

func TestDegraded_AlwaysFalseInGo(t *testing.T) {
	assert.False(t, correlation.Degraded())
}
