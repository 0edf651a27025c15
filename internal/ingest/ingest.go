// Package ingest moves window events from ActivityWatch, either live or from
// an export file, into the local store.
package ingest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sadopc/foldertime/internal/awclient"
	"github.com/sadopc/foldertime/internal/store"
)

// Source is the subset of the ActivityWatch API that Sync needs.
type Source interface {
	ListBuckets(ctx context.Context) ([]awclient.Bucket, error)
	GetEvents(ctx context.Context, bucketID string, q awclient.EventQuery) ([]awclient.Event, error)
}

// Result counts what a sync or import did.
type Result struct {
	Buckets  int
	Fetched  int
	Inserted int
	Updated  int // cached events whose duration grew
	Skipped  int
}

func (r *Result) add(o Result) {
	r.Buckets += o.Buckets
	r.Fetched += o.Fetched
	r.Inserted += o.Inserted
	r.Updated += o.Updated
	r.Skipped += o.Skipped
}

// Sync pulls window events in [from, to) from every window bucket on src.
// A zero from resumes each bucket after its newest cached event; a zero to
// leaves the range open.
func Sync(ctx context.Context, src Source, st *store.Store, from, to time.Time, logger *zap.Logger) (Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var res Result

	buckets, err := src.ListBuckets(ctx)
	if err != nil {
		return res, fmt.Errorf("sync: %w", err)
	}

	for _, b := range buckets {
		if !awclient.IsWindowBucket(b) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}

		q := awclient.EventQuery{}
		start := from
		if start.IsZero() {
			latest, err := st.LatestEventTime(b.ID)
			if err != nil {
				return res, fmt.Errorf("sync %q: %w", b.ID, err)
			}
			if latest != nil {
				start = *latest
			}
		}
		if !start.IsZero() {
			q.Start = &start
		}
		if !to.IsZero() {
			q.End = &to
		}

		events, err := src.GetEvents(ctx, b.ID, q)
		if err != nil {
			return res, fmt.Errorf("sync %q: %w", b.ID, err)
		}

		r, err := save(st, b, events, logger)
		if err != nil {
			return res, fmt.Errorf("sync %q: %w", b.ID, err)
		}
		if err := st.MarkBucketSynced(b.ID, time.Now()); err != nil {
			return res, fmt.Errorf("sync %q: %w", b.ID, err)
		}
		res.add(r)

		logger.Info("synced bucket",
			zap.String("bucket", b.ID),
			zap.Int("fetched", r.Fetched),
			zap.Int("inserted", r.Inserted),
			zap.Int("updated", r.Updated),
			zap.Int("skipped", r.Skipped),
		)
	}
	return res, nil
}

// Import stores events read from an export. Buckets that do not hold window
// samples are ignored.
func Import(st *store.Store, data []BucketEvents, logger *zap.Logger) (Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var res Result
	for _, be := range data {
		if !awclient.IsWindowBucket(be.Bucket) {
			logger.Debug("skipping non-window bucket", zap.String("bucket", be.Bucket.ID), zap.String("type", be.Bucket.Type))
			continue
		}
		r, err := save(st, be.Bucket, be.Events, logger)
		if err != nil {
			return res, fmt.Errorf("import %q: %w", be.Bucket.ID, err)
		}
		res.add(r)
	}
	return res, nil
}

func save(st *store.Store, b awclient.Bucket, events []awclient.Event, logger *zap.Logger) (Result, error) {
	res := Result{Buckets: 1, Fetched: len(events)}

	err := st.UpsertBucket(store.Bucket{
		ID:        b.ID,
		Name:      b.Name,
		Type:      b.Type,
		Client:    b.Client,
		Hostname:  b.Hostname,
		CreatedAt: b.Created,
	})
	if err != nil {
		return res, err
	}

	rows := make([]store.Event, 0, len(events))
	for _, e := range events {
		w, ok := e.Window()
		if !ok {
			res.Skipped++
			logger.Debug("skipping event without app/title", zap.String("bucket", b.ID), zap.Time("timestamp", e.Timestamp))
			continue
		}
		rows = append(rows, store.Event{
			AWID:      e.ID,
			Timestamp: w.Timestamp,
			Duration:  w.Duration,
			App:       w.Application,
			Title:     w.Title,
		})
	}

	ins, err := st.InsertEvents(b.ID, rows)
	if err != nil {
		return res, err
	}
	res.Inserted = ins.Inserted
	res.Updated = ins.Updated
	return res, nil
}
