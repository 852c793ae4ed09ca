// Package bootstrap opens the storage backend selected by configuration. It
// is shared by the server and the admin CLI so both see the same data.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/opticatalog/internal/adapter/driven/jsonfile"
	sqliteadapter "github.com/ericfisherdev/opticatalog/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/opticatalog/internal/application"
	"github.com/ericfisherdev/opticatalog/internal/config"
	"github.com/ericfisherdev/opticatalog/internal/domain/port/driven"
)

// Stores bundles the driven ports for one backend.
type Stores struct {
	Transceivers driven.TransceiverStore
	Credentials  driven.CredentialStore

	closeFn func() error
}

// Close releases the backend. It is a no-op for the JSON backend.
func (s *Stores) Close() error {
	if s.closeFn == nil {
		return nil
	}
	return s.closeFn()
}

// OpenStores opens the backend named by cfg.Storage. For SQLite the schema
// is migrated before returning.
func OpenStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Stores, error) {
	switch cfg.Storage {
	case config.StorageJSON:
		logger.Info("using json file storage",
			"catalog_file", cfg.CatalogFile(),
			"auth_file", cfg.AuthFile(),
		)
		return &Stores{
			Transceivers: jsonfile.NewTransceiverRepo(cfg.CatalogFile()),
			Credentials:  jsonfile.NewCredentialRepo(cfg.AuthFile()),
		}, nil

	case config.StorageSQLite:
		db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
		if err != nil {
			return nil, err
		}
		logger.Info("database opened", "path", db.Path())

		if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
			_ = db.Close()
			return nil, err
		}
		logger.Info("migrations complete")

		return &Stores{
			Transceivers: sqliteadapter.NewTransceiverRepo(db),
			Credentials:  sqliteadapter.NewCredentialRepo(db),
			closeFn:      db.Close,
		}, nil
	}

	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
}

// Services are the application services built over a set of Stores.
type Services struct {
	Catalog *application.CatalogService
	Auth    *application.AuthGate
	Import  *application.ImportService
}

// NewServices wires the application layer and makes sure an admin
// credential exists.
func NewServices(ctx context.Context, cfg *config.Config, stores *Stores, logger *slog.Logger) (*Services, error) {
	hasher, err := application.NewHasher(cfg.PasswordHasher)
	if err != nil {
		return nil, err
	}

	auth := application.NewAuthGate(stores.Credentials, hasher, logger)
	if err := auth.EnsureInitialized(ctx); err != nil {
		return nil, fmt.Errorf("initialize admin credential: %w", err)
	}

	catalog := application.NewCatalogService(stores.Transceivers, logger)
	return &Services{
		Catalog: catalog,
		Auth:    auth,
		Import:  application.NewImportService(catalog, logger),
	}, nil
}
