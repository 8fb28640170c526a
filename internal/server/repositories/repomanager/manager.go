// Package repomanager wires the database connection, the repositories, and
// the schema migrations together behind a single constructor.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/screenwise/screenwise/internal/server/repositories/users"
)

// RepositoryManager owns the database handle and hands out repositories
// bound to it.
type RepositoryManager interface {
	Conn() *sql.DB
	Users() users.Repository
	RunMigrations(ctx context.Context) error
	Close() error
}
