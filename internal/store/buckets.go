package store

import (
	"database/sql"
	"fmt"
	"time"
)

// UpsertBucket records a bucket, refreshing its metadata but keeping the
// last sync time.
func (s *Store) UpsertBucket(b Bucket) error {
	_, err := s.db.Exec(
		`INSERT INTO buckets (id, name, type, client, hostname, created_at) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			type = excluded.type,
			client = excluded.client,
			hostname = excluded.hostname,
			created_at = excluded.created_at`,
		b.ID, b.Name, b.Type, b.Client, b.Hostname, b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert bucket %q: %w", b.ID, err)
	}
	return nil
}

func (s *Store) ListBuckets() ([]Bucket, error) {
	rows, err := s.db.Query(
		`SELECT id, name, type, client, hostname, created_at, last_synced_at FROM buckets ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list buckets: %w", err)
	}
	defer rows.Close()

	var buckets []Bucket
	for rows.Next() {
		b, err := scanBucket(rows)
		if err != nil {
			return nil, err
		}
		buckets = append(buckets, *b)
	}
	return buckets, rows.Err()
}

func (s *Store) MarkBucketSynced(id string, at time.Time) error {
	res, err := s.db.Exec(`UPDATE buckets SET last_synced_at = ? WHERE id = ?`, formatTime(at), id)
	if err != nil {
		return fmt.Errorf("mark bucket synced: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("mark bucket synced: %w", sql.ErrNoRows)
	}
	return nil
}

// LastSync returns the most recent sync time across buckets, or nil if
// nothing has been synced yet.
func (s *Store) LastSync() (*time.Time, error) {
	var ts sql.NullString
	if err := s.db.QueryRow(`SELECT MAX(last_synced_at) FROM buckets`).Scan(&ts); err != nil {
		return nil, fmt.Errorf("last sync: %w", err)
	}
	if !ts.Valid {
		return nil, nil
	}
	t, _ := time.Parse(timeLayout, ts.String)
	return &t, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBucket(r rowScanner) (*Bucket, error) {
	b := &Bucket{}
	var synced sql.NullString
	if err := r.Scan(&b.ID, &b.Name, &b.Type, &b.Client, &b.Hostname, &b.CreatedAt, &synced); err != nil {
		return nil, err
	}
	if synced.Valid {
		t, _ := time.Parse(timeLayout, synced.String)
		b.LastSyncedAt = &t
	}
	return b, nil
}
