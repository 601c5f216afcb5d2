package files

import (
	"context"
	"log/slog"
	"os"

	apperrors "esccli/internal/errors"
	"esccli/pkg/contracts/domain"
)

// Reader loads discovered logs into memory
type Reader struct {
	logger *slog.Logger
}

// NewReader creates a reader
func NewReader(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{logger: logger}
}

// ReadAll buffers every file in order. A log is identified by its file name.
// Any read failure aborts the batch.
func (r *Reader) ReadAll(ctx context.Context, files []FileInfo) ([]domain.LogBlob, error) {
	blobs := make([]domain.LogBlob, 0, len(files))
	var total int64
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(f.Path)
		if err != nil {
			return nil, apperrors.NewIOError(f.Path, err)
		}
		total += int64(len(data))
		blobs = append(blobs, domain.LogBlob{ID: f.Name, Text: string(data)})
	}

	r.logger.InfoContext(ctx, "Logs loaded",
		slog.Int("files", len(blobs)),
		slog.Int64("bytes", total))
	return blobs, nil
}
