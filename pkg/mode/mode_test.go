package mode_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forestline/eudrtrack/pkg/mode"
	"github.com/forestline/eudrtrack/pkg/storage"
)

func TestPreference(t *testing.T) {
	ctx := context.Background()
	m := storage.NewMemory()
	p := mode.NewPreference(m, true, zerolog.Nop())

	assert.True(t, p.Offline(ctx), "fallback applies when nothing is stored")

	require.NoError(t, p.SetOffline(ctx, false))
	assert.False(t, p.Offline(ctx))

	raw, err := m.Get(ctx, mode.OfflineKey)
	require.NoError(t, err)
	assert.Equal(t, "false", string(raw))

	// Another writer of the same medium is seen on the next read.
	require.NoError(t, m.Set(ctx, mode.OfflineKey, []byte("true")))
	assert.True(t, p.Offline(ctx))

	require.NoError(t, m.Set(ctx, mode.OfflineKey, []byte("maybe")))
	assert.True(t, p.Offline(ctx))
}

func TestToggleAndStatic(t *testing.T) {
	ctx := context.Background()
	tg := mode.NewToggle(false)
	assert.False(t, tg.Offline(ctx))
	tg.Set(true)
	assert.True(t, tg.Offline(ctx))

	assert.True(t, mode.Static(true).Offline(ctx))
	assert.Equal(t, "offline", mode.Name(true))
	assert.Equal(t, "online", mode.Name(false))
}
