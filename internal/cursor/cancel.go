package cursor

import (
	"context"
	"database/sql"
	"fmt"

	"dbkeeper/internal/dialect"
)

// Canceller knows how a backend identifies a session and how to stop the
// statement running in it from another session.
type Canceller struct {
	IDQuery string
	Kill    func(ctx context.Context, db *sql.DB, id int64) error
}

// CancellerFor returns the server-side cancel for d, or nil when the
// backend has none reachable through database/sql.
func CancellerFor(d dialect.Dialect) *Canceller {
	switch d {
	case dialect.Postgres, dialect.CockroachDB, dialect.Redshift:
		return &Canceller{
			IDQuery: "SELECT pg_backend_pid()",
			Kill: func(ctx context.Context, db *sql.DB, id int64) error {
				_, err := db.ExecContext(ctx, "SELECT pg_cancel_backend($1)", id)
				return err
			},
		}
	case dialect.MySQL, dialect.MariaDB:
		return &Canceller{
			IDQuery: "SELECT CONNECTION_ID()",
			Kill: func(ctx context.Context, db *sql.DB, id int64) error {
				_, err := db.ExecContext(ctx, fmt.Sprintf("KILL QUERY %d", id))
				return err
			},
		}
	case dialect.SQLServer:
		return &Canceller{
			IDQuery: "SELECT @@SPID",
			Kill: func(ctx context.Context, db *sql.DB, id int64) error {
				_, err := db.ExecContext(ctx, fmt.Sprintf("KILL %d", id))
				return err
			},
		}
	}
	return nil
}
