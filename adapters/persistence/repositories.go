package persistence

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/cv-studio/adapters/persistence/memory"
	"github.com/khoahotran/cv-studio/internal/config"
	"github.com/khoahotran/cv-studio/internal/domain/document"
	"github.com/khoahotran/cv-studio/internal/domain/profile"
	"github.com/khoahotran/cv-studio/internal/domain/share"
	"github.com/khoahotran/cv-studio/internal/domain/user"
	"github.com/khoahotran/cv-studio/pkg/logger"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Repositories struct {
	Users      user.Repository
	Profiles   profile.Repository
	Entities   profile.EntityRepository
	Documents  document.Repository
	Selections document.SelectionRepository
	Shares     share.Repository
}

func NewPostgresRepositories(db *pgxpool.Pool, log logger.Logger) Repositories {
	return Repositories{
		Users:      NewPostgresUserRepo(db, log),
		Profiles:   NewPostgresProfileRepo(db, log),
		Entities:   NewPostgresEntityRepo(db, log),
		Documents:  NewPostgresDocumentRepo(db, log),
		Selections: NewPostgresSelectionRepo(db, log),
		Shares:     NewPostgresShareRepo(db, log),
	}
}

func NewMemoryRepositories(store *memory.Store) Repositories {
	return Repositories{
		Users:      store.Users(),
		Profiles:   store.Profiles(),
		Entities:   store.Entities(),
		Documents:  store.Documents(),
		Selections: store.Selections(),
		Shares:     store.Shares(),
	}
}

// Open builds the repositories for the configured storage driver. The
// returned close function releases the connection pool, if any.
func Open(ctx context.Context, cfg config.Config, log logger.Logger) (Repositories, func(), error) {
	switch cfg.Storage.Driver {
	case DriverMemory:
		log.Warn("Using in-memory storage, data is lost on exit")
		return NewMemoryRepositories(memory.NewStore()), func() {}, nil
	case DriverPostgres, "":
		pool, err := NewPostgresPool(ctx, cfg, log)
		if err != nil {
			return Repositories{}, nil, err
		}
		return NewPostgresRepositories(pool, log), pool.Close, nil
	}
	return Repositories{}, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
