package sqlite

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"lazycookie/internal/jar"

	_ "modernc.org/sqlite"
)

var _ jar.Jar = (*Jar)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS cookies (
    name   TEXT PRIMARY KEY,
    value  TEXT NOT NULL,
    expiry INTEGER NOT NULL DEFAULT 0,
    seq    INTEGER NOT NULL
)`

// Jar is a cookie jar stored in a SQLite database, laid out like the
// cookie databases browsers keep on disk. expiry is in unix seconds and 0
// marks a session cookie.
type Jar struct {
	db *sql.DB

	jar.Options
}

// Open opens (or creates) the jar database at path.
func Open(path string, opts ...jar.Option) (*Jar, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error: cannot open cookie database: %w", err)
	}
	// A single connection serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error: failed to create cookies table: %w", err)
	}
	j := &Jar{
		db:      db,
		Options: jar.ApplyOptions(opts),
	}
	if !j.KeepSession {
		res, err := db.Exec(`DELETE FROM cookies WHERE expiry = 0`)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("error: failed to drop session cookies: %w", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			slog.Info("dropping session cookies", "count", n)
		}
	}
	return j, nil
}

func (j *Jar) Cookie() string {
	now := j.Now().Unix()
	if _, err := j.db.Exec(
		`DELETE FROM cookies WHERE expiry != 0 AND expiry <= ?`, now,
	); err != nil {
		slog.Error("failed to purge expired cookies", "error", err)
	}

	rows, err := j.db.Query(`SELECT name, value, expiry, seq FROM cookies ORDER BY seq ASC`)
	if err != nil {
		slog.Error("failed to query cookies", "error", err)
		return ""
	}
	defer rows.Close()

	var entries []jar.Entry
	for rows.Next() {
		var (
			e      jar.Entry
			expiry int64
		)
		if err := rows.Scan(&e.Name, &e.Value, &expiry, &e.Seq); err != nil {
			slog.Error("failed to scan cookie row", "error", err)
			return ""
		}
		if expiry != 0 {
			e.Expiry = time.Unix(expiry, 0)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate cookie rows", "error", err)
		return ""
	}
	return jar.Format(entries)
}

func (j *Jar) SetCookie(directive string) {
	now := j.Now()
	d := jar.ParseDirective(directive, now)

	if d.Expired(now) {
		if _, err := j.db.Exec(`DELETE FROM cookies WHERE name = ?`, d.Name); err != nil {
			slog.Error("failed to delete cookie", "name", d.Name, "error", err)
		}
		return
	}

	var expiry int64
	if !d.Expiry.IsZero() {
		expiry = expirySeconds(d.Expiry)
	}
	if _, err := j.db.Exec(`
        INSERT INTO cookies (name, value, expiry, seq)
        VALUES (?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM cookies))
        ON CONFLICT(name) DO UPDATE SET value = excluded.value, expiry = excluded.expiry
    `, d.Name, d.Value, expiry); err != nil {
		slog.Error("failed to store cookie", "name", d.Name, "error", err)
	}
}

// expirySeconds rounds t up to a whole second so that a cookie is never
// purged before its expiry.
func expirySeconds(t time.Time) int64 {
	secs := t.Unix()
	if t.Nanosecond() > 0 {
		secs++
	}
	return secs
}

func (j *Jar) Close() error {
	return j.db.Close()
}
