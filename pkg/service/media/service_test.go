package media_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/phantom/pkg/domain/types"
	"github.com/secmon-lab/phantom/pkg/service/media"
)

func TestFetchWritesTempFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.Value(t, r.URL.Path).Equal("/generate")

		var body map[string]string
		gt.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gt.Value(t, body["prompt"]).Equal("neon city at night")
		gt.Value(t, body["kind"]).Equal("video")

		_, _ = w.Write([]byte("fake mp4 bytes"))
	}))
	defer srv.Close()

	svc := media.New(srv.URL)

	path, err := svc.Fetch(context.Background(), "neon city at night", types.ContentTypeVideo)
	gt.NoError(t, err)
	defer os.Remove(path)

	gt.Bool(t, strings.HasSuffix(path, ".mp4")).True()

	data, err := os.ReadFile(path)
	gt.NoError(t, err)
	gt.Value(t, string(data)).Equal("fake mp4 bytes")
}

func TestFetchImageExtension(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("fake png bytes"))
	}))
	defer srv.Close()

	svc := media.New(srv.URL)

	path, err := svc.Fetch(context.Background(), "a meme frog", types.ContentTypeImage)
	gt.NoError(t, err)
	defer os.Remove(path)

	gt.Bool(t, strings.HasSuffix(path, ".png")).True()
}

func TestFetchGeneratorError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	svc := media.New(srv.URL)

	_, err := svc.Fetch(context.Background(), "anything", types.ContentTypeImage)
	gt.Error(t, err)
}
