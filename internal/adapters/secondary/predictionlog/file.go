// Package predictionlog appends prediction responses to line-delimited JSON
// files and fans them out to additional sinks.
package predictionlog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"

	"house-price-service/internal/core/domain"
	ports "house-price-service/internal/core/ports/output"
)

// FileLog writes one JSON object per line. Each append opens the file with
// O_APPEND, writes the whole line in a single call and closes it again, under
// a mutex so concurrent requests never interleave.
type FileLog struct {
	path string
	mu   sync.Mutex
}

var _ ports.PredictionLogRepository = (*FileLog)(nil)

// NewFileLog creates the parent directory of path if needed.
func NewFileLog(path string) (*FileLog, error) {
	if path == "" {
		return nil, errors.New("prediction log path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create prediction log directory: %w", err)
	}
	return &FileLog{path: path}, nil
}

func (l *FileLog) Path() string {
	return l.path
}

func (l *FileLog) Append(_ context.Context, resp *domain.PredictionResponse) error {
	line, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encode prediction log line: %w", err)
	}
	line = append(line, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open prediction log: %w", err)
	}
	if _, err := f.Write(line); err != nil {
		f.Close()
		return fmt.Errorf("write prediction log: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close prediction log: %w", err)
	}
	return nil
}

// Multi appends to every sink and joins their errors. A failing sink does not
// stop the others.
type Multi []ports.PredictionLogRepository

func (m Multi) Append(ctx context.Context, resp *domain.PredictionResponse) error {
	var errs []error
	for _, sink := range m {
		if sink == nil {
			continue
		}
		if err := sink.Append(ctx, resp); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
