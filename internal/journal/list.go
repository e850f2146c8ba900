package journal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/k1LoW/duration"
)

var fileNameRe = regexp.MustCompile(`^move_log_(\d{4}-\d{2}-\d{2}_\d{6})(?: \((\d+)\))?\.jsonl$`)

// Info summarizes one journal file
type Info struct {
	Path      string
	Name      string
	CreatedAt time.Time
	Size      int64
	Moves     int
	Errors    int

	seq int // collision counter, 0 for the first journal of a second
}

// List returns the journals in dir, newest first. When withinDays is
// positive, journals created earlier than that are left out.
func List(dir string, withinDays int) ([]Info, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read journal directory: %w", err)
	}

	var window time.Duration
	if withinDays > 0 {
		window, err = duration.Parse(fmt.Sprintf("%d days", withinDays))
		if err != nil {
			return nil, fmt.Errorf("parse journal window: %w", err)
		}
	}

	var infos []Info
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		m := fileNameRe.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}

		fi, err := entry.Info()
		if err != nil {
			continue
		}
		createdAt, err := time.ParseInLocation(fileStampTime, m[1], time.Local)
		if err != nil {
			createdAt = fi.ModTime()
		}
		if window > 0 && time.Since(createdAt) > window {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		info := Info{
			Path:      path,
			Name:      entry.Name(),
			CreatedAt: createdAt,
			Size:      fi.Size(),
		}
		if m[2] != "" {
			info.seq, _ = strconv.Atoi(m[2])
		}
		if records, err := Read(path); err == nil {
			info.Moves = len(Moves(records))
			info.Errors = len(Errors(records))
		} else {
			slog.Warn("failed to read journal", "path", path, "error", err)
		}
		infos = append(infos, info)
	}

	sort.SliceStable(infos, func(i, j int) bool {
		if !infos[i].CreatedAt.Equal(infos[j].CreatedAt) {
			return infos[i].CreatedAt.After(infos[j].CreatedAt)
		}
		return infos[i].seq > infos[j].seq
	})
	return infos, nil
}

// Latest returns the newest journal in dir
func Latest(dir string) (Info, error) {
	infos, err := List(dir, 0)
	if err != nil {
		return Info{}, err
	}
	if len(infos) == 0 {
		return Info{}, fmt.Errorf("no journal in %s: %w", dir, ErrNotFound)
	}
	return infos[0], nil
}
