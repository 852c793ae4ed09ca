package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/opticatalog/internal/application"
	"github.com/ericfisherdev/opticatalog/internal/config"
	"github.com/ericfisherdev/opticatalog/internal/domain/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOpenStores_Backends(t *testing.T) {
	for _, storage := range []string{config.StorageJSON, config.StorageSQLite} {
		t.Run(storage, func(t *testing.T) {
			dir := t.TempDir()
			cfg := &config.Config{
				Storage:        storage,
				DataDir:        filepath.Join(dir, "data"),
				DBPath:         filepath.Join(dir, "db", "catalog.db"),
				PasswordHasher: config.HasherSHA256,
			}
			ctx := context.Background()

			stores, err := OpenStores(ctx, cfg, discardLogger())
			require.NoError(t, err)
			t.Cleanup(func() { _ = stores.Close() })

			svc, err := NewServices(ctx, cfg, stores, discardLogger())
			require.NoError(t, err)

			ok, err := svc.Auth.Verify(ctx, application.DefaultPassword)
			require.NoError(t, err)
			assert.True(t, ok, "credential initialized with default password")

			added, err := svc.Catalog.Add(ctx, model.Transceiver{SKU: "A", Status: "Active"})
			require.NoError(t, err)
			assert.True(t, added)

			got, err := svc.Catalog.Get(ctx, "A")
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, "Active", got.Status)
		})
	}
}

func TestOpenStores_JSONFilesLiveInDataDir(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{Storage: config.StorageJSON, DataDir: dir, PasswordHasher: config.HasherSHA256}
	ctx := context.Background()

	stores, err := OpenStores(ctx, cfg, discardLogger())
	require.NoError(t, err)
	_, err = NewServices(ctx, cfg, stores, discardLogger())
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "auth.json"))
	assert.NoError(t, err)
}

func TestOpenStores_UnknownBackend(t *testing.T) {
	_, err := OpenStores(context.Background(), &config.Config{Storage: "mongo"}, discardLogger())
	assert.Error(t, err)
}

func TestNewServices_UnknownHasher(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageJSON, DataDir: t.TempDir(), PasswordHasher: "md5"}
	stores, err := OpenStores(context.Background(), cfg, discardLogger())
	require.NoError(t, err)

	_, err = NewServices(context.Background(), cfg, stores, discardLogger())
	assert.Error(t, err)
}
