// Package journal reads and writes the append-only move logs that make a
// sort run reversible. A journal is UTF-8 text with one JSON object per line.
package journal

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/babarot/dlsort/internal/category"
	"github.com/samber/lo"
)

// Kind is the action field of a record
type Kind string

const (
	KindMove  Kind = "move"
	KindError Kind = "error"
)

// TimeLayout is the timestamp format of records: local time, second precision
const TimeLayout = "2006-01-02T15:04:05"

var errMalformed = errors.New("malformed record")

// Record is one journal line
type Record struct {
	Timestamp time.Time
	Action    Kind
	Category  category.Category // move only
	Src       string
	Dst       string
	SizeBytes int64     // move only, captured before the move
	ModTime   time.Time // move only, captured before the move
	Error     string    // error only
}

type moveLine struct {
	Timestamp  string `json:"timestamp"`
	Action     Kind   `json:"action"`
	Category   string `json:"category"`
	Src        string `json:"src"`
	Dst        string `json:"dst"`
	SizeBytes  int64  `json:"size_bytes"`
	MTimeEpoch int64  `json:"mtime_epoch"`
}

type errorLine struct {
	Timestamp string `json:"timestamp"`
	Action    Kind   `json:"action"`
	Src       string `json:"src"`
	Dst       string `json:"dst"`
	Error     string `json:"error"`
}

// wireLine accepts either shape when reading
type wireLine struct {
	Timestamp  string  `json:"timestamp"`
	Action     Kind    `json:"action"`
	Category   string  `json:"category"`
	Src        string  `json:"src"`
	Dst        string  `json:"dst"`
	SizeBytes  int64   `json:"size_bytes"`
	MTimeEpoch float64 `json:"mtime_epoch"`
	Error      string  `json:"error"`
}

// Encode renders r as a single JSON line without the trailing newline.
// Non-ASCII and HTML characters are written as-is.
func Encode(r Record) ([]byte, error) {
	var v any
	ts := r.Timestamp.Format(TimeLayout)
	switch r.Action {
	case KindMove:
		v = moveLine{
			Timestamp:  ts,
			Action:     KindMove,
			Category:   string(r.Category),
			Src:        r.Src,
			Dst:        r.Dst,
			SizeBytes:  r.SizeBytes,
			MTimeEpoch: r.ModTime.Unix(),
		}
	case KindError:
		v = errorLine{
			Timestamp: ts,
			Action:    KindError,
			Src:       r.Src,
			Dst:       r.Dst,
			Error:     r.Error,
		}
	default:
		return nil, fmt.Errorf("unknown record action %q", r.Action)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Decode parses one journal line. Lines that are not JSON, moves without
// src or dst, and unknown actions are reported as malformed. A missing or
// unreadable timestamp is not.
func Decode(line []byte) (Record, error) {
	var w wireLine
	if err := json.Unmarshal(line, &w); err != nil {
		return Record{}, fmt.Errorf("%w: %v", errMalformed, err)
	}

	// undo only needs action, src and dst; a bad timestamp stays zero
	var ts time.Time
	if w.Timestamp != "" {
		parsed, err := time.ParseInLocation(TimeLayout, w.Timestamp, time.Local)
		if err != nil {
			slog.Debug("journal record has an unreadable timestamp", "timestamp", w.Timestamp, "error", err)
		} else {
			ts = parsed
		}
	}

	r := Record{
		Timestamp: ts,
		Action:    w.Action,
		Src:       w.Src,
		Dst:       w.Dst,
	}
	switch w.Action {
	case KindMove:
		if w.Src == "" || w.Dst == "" {
			return Record{}, fmt.Errorf("%w: move without src or dst", errMalformed)
		}
		r.Category = category.Category(w.Category)
		r.SizeBytes = w.SizeBytes
		r.ModTime = time.Unix(int64(w.MTimeEpoch), 0)
	case KindError:
		r.Error = w.Error
	default:
		return Record{}, fmt.Errorf("%w: unknown action %q", errMalformed, w.Action)
	}
	return r, nil
}

// IsMalformed reports whether err came from a line that could not be decoded
func IsMalformed(err error) bool {
	return errors.Is(err, errMalformed)
}

// Moves keeps the move records, in journal order
func Moves(records []Record) []Record {
	return lo.Filter(records, func(r Record, _ int) bool {
		return r.Action == KindMove
	})
}

// Errors keeps the error records, in journal order
func Errors(records []Record) []Record {
	return lo.Filter(records, func(r Record, _ int) bool {
		return r.Action == KindError
	})
}
