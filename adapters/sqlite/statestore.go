package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/artpar/windowkit/domain/gui"
	"github.com/artpar/windowkit/ports"
)

// StateStore implements ports.StateStore using SQLite.
type StateStore struct {
	db *DB
}

// NewStateStore creates a new SQLite state store.
func NewStateStore(db *DB) *StateStore {
	return &StateStore{db: db}
}

// SetVersion records the version sentinel for a namespace.
func (s *StateStore) SetVersion(ctx context.Context, namespace, version string) error {
	_, err := s.db.DB.ExecContext(ctx,
		`INSERT INTO window_versions (namespace, version)
		VALUES (?, ?)
		ON CONFLICT(namespace) DO UPDATE SET version = excluded.version`,
		namespace, version,
	)
	return err
}

// Version returns the version sentinel for a namespace, or "" when absent.
func (s *StateStore) Version(ctx context.Context, namespace string) (string, error) {
	var version string
	err := s.db.DB.QueryRowContext(ctx,
		`SELECT version FROM window_versions WHERE namespace = ?`,
		namespace,
	).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return version, nil
}

// Put stores a record for namespace/user. The version sentinel key is reserved.
func (s *StateStore) Put(ctx context.Context, namespace string, rec ports.Record) error {
	if string(rec.User) == ports.VersionKey {
		return fmt.Errorf("user id %q is reserved", ports.VersionKey)
	}

	elems, err := json.Marshal(rec.Elems)
	if err != nil {
		return fmt.Errorf("marshal elems: %w", err)
	}

	pinned := 0
	if rec.Pinned {
		pinned = 1
	}

	_, err = s.db.DB.ExecContext(ctx,
		`INSERT INTO window_state (namespace, user_id, pinned, elems, built_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(namespace, user_id) DO UPDATE SET
			pinned = excluded.pinned,
			elems = excluded.elems,
			built_at = excluded.built_at`,
		namespace, string(rec.User), pinned, string(elems), rec.BuiltAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

// Get returns the record for namespace/user, or false when absent.
func (s *StateStore) Get(ctx context.Context, namespace string, user gui.UserID) (ports.Record, bool, error) {
	var (
		rec     ports.Record
		userID  string
		pinned  int
		elems   string
		builtAt string
	)
	err := s.db.DB.QueryRowContext(ctx,
		`SELECT user_id, pinned, elems, built_at FROM window_state
		WHERE namespace = ? AND user_id = ?`,
		namespace, string(user),
	).Scan(&userID, &pinned, &elems, &builtAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.Record{}, false, nil
	}
	if err != nil {
		return ports.Record{}, false, err
	}

	rec.User = gui.UserID(userID)
	rec.Pinned = pinned != 0
	if err := json.Unmarshal([]byte(elems), &rec.Elems); err != nil {
		return ports.Record{}, false, fmt.Errorf("unmarshal elems: %w", err)
	}
	rec.BuiltAt, _ = time.Parse(time.RFC3339Nano, builtAt)
	return rec, true, nil
}

// Delete removes the record for namespace/user. Missing records are not an error.
func (s *StateStore) Delete(ctx context.Context, namespace string, user gui.UserID) error {
	_, err := s.db.DB.ExecContext(ctx,
		`DELETE FROM window_state WHERE namespace = ? AND user_id = ?`,
		namespace, string(user),
	)
	return err
}

// List returns all records for a namespace, excluding the version sentinel.
func (s *StateStore) List(ctx context.Context, namespace string) ([]ports.Record, error) {
	rows, err := s.db.DB.QueryContext(ctx,
		`SELECT user_id, pinned, elems, built_at FROM window_state
		WHERE namespace = ? ORDER BY user_id`,
		namespace,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ports.Record
	for rows.Next() {
		var (
			rec     ports.Record
			userID  string
			pinned  int
			elems   string
			builtAt string
		)
		if err := rows.Scan(&userID, &pinned, &elems, &builtAt); err != nil {
			return nil, err
		}
		rec.User = gui.UserID(userID)
		rec.Pinned = pinned != 0
		if err := json.Unmarshal([]byte(elems), &rec.Elems); err != nil {
			return nil, fmt.Errorf("unmarshal elems: %w", err)
		}
		rec.BuiltAt, _ = time.Parse(time.RFC3339Nano, builtAt)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Purge removes all records and the version sentinel for a namespace.
func (s *StateStore) Purge(ctx context.Context, namespace string) error {
	tx, err := s.db.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM window_state WHERE namespace = ?`, namespace,
	); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM window_versions WHERE namespace = ?`, namespace,
	); err != nil {
		return err
	}
	return tx.Commit()
}

// Ensure interface compliance.
var _ ports.StateStore = (*StateStore)(nil)
