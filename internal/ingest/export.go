package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/sadopc/foldertime/internal/awclient"
)

// ImportBucketID names the bucket used for a bare event array.
const ImportBucketID = "import"

// BucketEvents pairs a bucket with its events.
type BucketEvents struct {
	Bucket awclient.Bucket
	Events []awclient.Event
}

type exportFile struct {
	Buckets map[string]exportBucket `json:"buckets"`
}

type exportBucket struct {
	awclient.Bucket
	Events []awclient.Event `json:"events"`
}

// ReadExport parses an ActivityWatch export. Both the full export object
// ({"buckets": {...}}) and a bare array of window events are accepted.
func ReadExport(r io.Reader) ([]BucketEvents, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, fmt.Errorf("read export: empty input")
	}

	switch raw[0] {
	case '[':
		var events []awclient.Event
		if err := json.Unmarshal(raw, &events); err != nil {
			return nil, fmt.Errorf("parse event array: %w", err)
		}
		return []BucketEvents{{
			Bucket: awclient.Bucket{ID: ImportBucketID, Name: ImportBucketID, Type: awclient.WindowBucketType},
			Events: events,
		}}, nil

	case '{':
		var f exportFile
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("parse export: %w", err)
		}
		if f.Buckets == nil {
			return nil, fmt.Errorf("parse export: missing \"buckets\" object")
		}
		out := make([]BucketEvents, 0, len(f.Buckets))
		for id, b := range f.Buckets {
			if b.ID == "" {
				b.ID = id
			}
			out = append(out, BucketEvents{Bucket: b.Bucket, Events: b.Events})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Bucket.ID < out[j].Bucket.ID })
		return out, nil

	default:
		return nil, fmt.Errorf("read export: expected JSON object or array")
	}
}
