package store

import (
	"database/sql"
	"fmt"
	"time"
)

// InsertResult counts what InsertEvents changed.
type InsertResult struct {
	Inserted int
	Updated  int
}

// InsertEvents caches events for a bucket. A sample already stored under the
// same (timestamp, app, title) keeps the longer duration, since ActivityWatch
// grows its newest event as heartbeats merge into it.
func (s *Store) InsertEvents(bucketID string, events []Event) (InsertResult, error) {
	var res InsertResult

	tx, err := s.db.Begin()
	if err != nil {
		return res, fmt.Errorf("begin insert events: %w", err)
	}
	defer tx.Rollback()

	countRows := func() (int, error) {
		var n int
		err := tx.QueryRow(`SELECT COUNT(*) FROM window_events WHERE bucket_id = ?`, bucketID).Scan(&n)
		return n, err
	}
	before, err := countRows()
	if err != nil {
		return res, fmt.Errorf("count events: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO window_events (bucket_id, aw_id, timestamp, duration, app, title)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(bucket_id, timestamp, app, title) DO UPDATE SET
			duration = MAX(duration, excluded.duration),
			aw_id = COALESCE(excluded.aw_id, aw_id)
		 WHERE excluded.duration > window_events.duration
			OR (window_events.aw_id IS NULL AND excluded.aw_id IS NOT NULL)`,
	)
	if err != nil {
		return res, fmt.Errorf("prepare insert events: %w", err)
	}
	defer stmt.Close()

	changed := 0
	for _, e := range events {
		r, err := stmt.Exec(bucketID, e.AWID, formatTime(e.Timestamp), e.Duration, e.App, e.Title)
		if err != nil {
			return res, fmt.Errorf("insert event: %w", err)
		}
		n, _ := r.RowsAffected()
		changed += int(n)
	}

	after, err := countRows()
	if err != nil {
		return res, fmt.Errorf("count events: %w", err)
	}
	res.Inserted = after - before
	res.Updated = changed - res.Inserted

	if err := tx.Commit(); err != nil {
		return InsertResult{}, fmt.Errorf("commit insert events: %w", err)
	}
	return res, nil
}

func (s *Store) ListEvents(f EventFilter) ([]Event, error) {
	where, args := f.where()
	query := `SELECT id, bucket_id, aw_id, timestamp, duration, app, title FROM window_events` + where
	query += ` ORDER BY timestamp, id`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var ts string
		var awID sql.NullInt64
		if err := rows.Scan(&e.ID, &e.BucketID, &awID, &ts, &e.Duration, &e.App, &e.Title); err != nil {
			return nil, err
		}
		if awID.Valid {
			e.AWID = &awID.Int64
		}
		e.Timestamp, _ = time.Parse(timeLayout, ts)
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *Store) CountEvents(f EventFilter) (int, error) {
	where, args := f.where()
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM window_events`+where, args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

// LatestEventTime returns the newest cached timestamp for a bucket, or nil
// if the bucket has no events.
func (s *Store) LatestEventTime(bucketID string) (*time.Time, error) {
	var ts sql.NullString
	err := s.db.QueryRow(
		`SELECT MAX(timestamp) FROM window_events WHERE bucket_id = ?`, bucketID,
	).Scan(&ts)
	if err != nil {
		return nil, fmt.Errorf("latest event time: %w", err)
	}
	if !ts.Valid {
		return nil, nil
	}
	t, err := time.Parse(timeLayout, ts.String)
	if err != nil {
		return nil, fmt.Errorf("parse latest event time: %w", err)
	}
	return &t, nil
}

// DeleteEventsBefore prunes cached events older than t.
func (s *Store) DeleteEventsBefore(t time.Time) (int, error) {
	res, err := s.db.Exec(`DELETE FROM window_events WHERE timestamp < ?`, formatTime(t))
	if err != nil {
		return 0, fmt.Errorf("delete events: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (f EventFilter) where() (string, []any) {
	clause := ` WHERE 1=1`
	var args []any

	if f.BucketID != nil {
		clause += ` AND bucket_id = ?`
		args = append(args, *f.BucketID)
	}
	if f.App != nil {
		clause += ` AND app = ?`
		args = append(args, *f.App)
	}
	if f.From != nil {
		if f.Overlap {
			clause += ` AND (timestamp >= ? OR julianday(timestamp) + duration / 86400.0 > julianday(?))`
			args = append(args, formatTime(*f.From), formatTime(*f.From))
		} else {
			clause += ` AND timestamp >= ?`
			args = append(args, formatTime(*f.From))
		}
	}
	if f.To != nil {
		clause += ` AND timestamp < ?`
		args = append(args, formatTime(*f.To))
	}
	return clause, args
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
