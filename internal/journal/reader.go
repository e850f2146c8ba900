package journal

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// ErrNotFound is returned when a journal file does not exist
var ErrNotFound = errors.New("journal not found")

// Read returns every well-formed record of the journal at path, in file
// order. Malformed lines, such as a half-written last line left by a crash,
// are skipped so the rest of the journal stays usable.
func Read(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return nil, err
	}
	defer f.Close()

	var (
		records []Record
		r       = bufio.NewReader(f)
		lineNo  int
	)
	for {
		line, readErr := r.ReadBytes('\n')
		if readErr != nil && readErr != io.EOF {
			return records, fmt.Errorf("read journal: %w", readErr)
		}

		lineNo++
		if line = bytes.TrimSpace(line); len(line) > 0 {
			rec, err := Decode(line)
			switch {
			case err == nil:
				records = append(records, rec)
			case IsMalformed(err):
				slog.Debug("skipped malformed journal line", "path", path, "line", lineNo, "error", err)
			default:
				return records, err
			}
		}

		if readErr == io.EOF {
			return records, nil
		}
	}
}
