package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/phantom/pkg/domain/types"
	"github.com/secmon-lab/phantom/pkg/utils/logging"
	"github.com/secmon-lab/phantom/pkg/utils/safe"
)

// Service produces media files for posts. The file is written to a temp
// path and the caller owns its cleanup on every exit path.
type Service interface {
	// Fetch generates media for the prompt and returns the local file path
	Fetch(ctx context.Context, prompt string, contentType types.ContentType) (string, error)
}

type service struct {
	httpClient *http.Client
	baseURL    string

	// archive settings, disabled when bucket is empty
	gcsClient *storage.Client
	bucket    string
}

// Option configures the media service
type Option func(*service)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(s *service) {
		s.httpClient = httpClient
	}
}

// WithArchive enables copying every generated file to a GCS bucket
func WithArchive(gcsClient *storage.Client, bucket string) Option {
	return func(s *service) {
		s.gcsClient = gcsClient
		s.bucket = bucket
	}
}

// New creates a media service talking to a generator endpoint
func New(baseURL string, opts ...Option) Service {
	s := &service{
		httpClient: &http.Client{Timeout: 5 * time.Minute},
		baseURL:    baseURL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type generateRequest struct {
	Prompt string `json:"prompt"`
	Kind   string `json:"kind"`
}

func (s *service) Fetch(ctx context.Context, prompt string, contentType types.ContentType) (string, error) {
	body, err := json.Marshal(&generateRequest{
		Prompt: prompt,
		Kind:   contentType.String(),
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to marshal generate request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return "", goerr.Wrap(err, "failed to create generate request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", goerr.Wrap(err, "failed to call media generator")
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", goerr.New("unexpected status from media generator",
			goerr.V("status", resp.StatusCode), goerr.V("body", string(data)))
	}

	ext := ".png"
	if contentType == types.ContentTypeVideo {
		ext = ".mp4"
	}

	f, err := os.CreateTemp("", "phantom-media-*"+ext)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create temp file")
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		safe.Close(ctx, f)
		safe.Remove(ctx, f.Name())
		return "", goerr.Wrap(err, "failed to write media file")
	}
	if err := f.Close(); err != nil {
		safe.Remove(ctx, f.Name())
		return "", goerr.Wrap(err, "failed to close media file")
	}

	// Archive is best-effort: a broken bucket must not block posting
	if s.gcsClient != nil && s.bucket != "" {
		if err := s.archive(ctx, f.Name()); err != nil {
			logging.From(ctx).Warn("failed to archive media",
				slog.String("path", f.Name()), slog.Any("error", err))
		}
	}

	return f.Name(), nil
}

func (s *service) archive(ctx context.Context, path string) error {
	f, err := os.Open(path) // #nosec G304 -- path is our own temp file
	if err != nil {
		return goerr.Wrap(err, "failed to open media for archive")
	}
	defer safe.Close(ctx, f)

	object := fmt.Sprintf("media/%s/%d%s",
		time.Now().UTC().Format("2006-01-02"), time.Now().UnixNano(), filepath.Ext(path))
	w := s.gcsClient.Bucket(s.bucket).Object(object).NewWriter(ctx)

	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to upload media", goerr.V("object", object))
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to finalize media upload", goerr.V("object", object))
	}

	return nil
}
