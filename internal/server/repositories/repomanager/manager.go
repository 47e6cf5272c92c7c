package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gallery/internal/dbx"
	"github.com/dmitrijs2005/gallery/internal/server/repositories/artworks"
	"github.com/dmitrijs2005/gallery/internal/server/repositories/users"
)

type RepositoryManager interface {
	Conn() *sql.DB
	RunMigrations(ctx context.Context) error
	Users(db dbx.DBTX) users.Repository
	Artworks(db dbx.DBTX) artworks.Repository
	Close() error
}
