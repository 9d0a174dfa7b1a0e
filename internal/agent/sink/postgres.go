// Package sink mirrors the reconciler's per-user latest-event state into the
// external autotriage database.
package sink

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/pswatch/internal/agent/reconcile"
	"github.com/dmitrijs2005/pswatch/internal/common"
	"github.com/dmitrijs2005/pswatch/internal/dbx"
	"github.com/dmitrijs2005/pswatch/internal/logging"
)

// Writer persists the users whose latest-event state changed in a cycle.
type Writer interface {
	Flush(ctx context.Context, changed []int64, users map[int64]reconcile.UserActivity) error
}

// PostgresWriter writes to the host application's users table, keyed by its
// external ps360 identifier column. The table itself belongs to the host
// application; this agent only owns the three ps360_last_event_* columns.
type PostgresWriter struct {
	db     *sql.DB
	logger logging.Logger
}

func NewPostgresWriter(db *sql.DB, logger logging.Logger) *PostgresWriter {
	return &PostgresWriter{db: db, logger: logger.With("module", "sink")}
}

const updateQuery = `
	UPDATE users
	SET ps360_last_event_type = $1,
	    ps360_last_event_timestamp = $2,
	    ps360_last_event_workstation = $3
	WHERE ps360 = $4`

// Flush writes the latest-event state of every changed user in one
// transaction. All-or-nothing: on any failure nothing from this cycle is
// considered persisted and the caller must not advance the watermark.
// Users absent from changed are never written, even though they exist in
// the table.
func (w *PostgresWriter) Flush(ctx context.Context, changed []int64, users map[int64]reconcile.UserActivity) error {
	if len(changed) == 0 {
		return nil
	}

	err := dbx.WithTx(ctx, w.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, id := range changed {
			user, ok := users[id]
			if !ok {
				return fmt.Errorf("changed user %d missing from user table", id)
			}
			_, err := tx.ExecContext(ctx, updateQuery,
				string(user.Last.Kind), user.Last.Time, user.Last.Workstation, user.ID)
			if err != nil {
				return fmt.Errorf("user %d: %w", id, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrSink, err)
	}

	w.logger.Debug(ctx, "flushed user activity", "count", len(changed))
	return nil
}
