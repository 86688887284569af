package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/forestline/eudrtrack/pkg/storage"
	"github.com/forestline/eudrtrack/pkg/storage/sqlite"
	"github.com/forestline/eudrtrack/pkg/storage/storagetest"
)

func TestMedium(t *testing.T) {
	suite.Run(t, &storagetest.MediumSuite{
		New: func() storage.Medium {
			m, err := sqlite.Open(filepath.Join(t.TempDir(), "kv.db"))
			require.NoError(t, err)
			return m
		},
	})
}

func TestValuesSurviveReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "kv.db")

	m, err := sqlite.Open(path)
	require.NoError(t, err)
	require.NoError(t, m.Set(ctx, "eudr_initialized", []byte("true")))
	require.NoError(t, m.Close())

	m, err = sqlite.Open(path)
	require.NoError(t, err)
	defer m.Close()

	v, err := m.Get(ctx, "eudr_initialized")
	require.NoError(t, err)
	require.Equal(t, "true", string(v))
}
