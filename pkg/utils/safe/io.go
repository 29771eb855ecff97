package safe

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/secmon-lab/phantom/pkg/utils/logging"
)

// Close safely closes an io.Closer and logs any errors.
// It handles nil closers gracefully.
func Close(ctx context.Context, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Error("Failed to close", slog.Any("error", err))
	}
}

// Remove deletes a file and logs any errors. Empty paths and already-removed
// files are ignored. Media files handed to the orchestrator go through here
// on every exit path.
func Remove(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logging.From(ctx).Error("Failed to remove file",
			slog.String("path", path), slog.Any("error", err))
	}
}
