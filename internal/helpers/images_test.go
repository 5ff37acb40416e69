package helpers

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedStrategy struct {
	name  string
	calls int
	// fail[i] forces the i-th call (0-based) to error
	fail map[int]bool
	// slow forces every call to block past the ingestor timeout
	slow bool
}

func (s *scriptedStrategy) Name() string { return s.name }

func (s *scriptedStrategy) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	call := s.calls
	s.calls++
	if s.slow {
		time.Sleep(50 * time.Millisecond)
	}
	if s.fail[call] {
		return "", errors.New("upload refused")
	}
	return fmt.Sprintf("https://%s.example/%s", s.name, path), nil
}

func newTestIngestor(strategies ...UploadStrategy) *Ingestor {
	ing := NewIngestor(strategies, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ing.delay = 0
	ing.timeout = 10 * time.Millisecond
	return ing
}

func pngDataURI(payload string) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte(payload))
}

func TestIngestPartialFailureKeepsSurvivors(t *testing.T) {
	strategy := &scriptedStrategy{name: "primary", fail: map[int]bool{1: true}}
	ing := newTestIngestor(strategy)

	urls := ing.Ingest(context.Background(), []string{
		pngDataURI("one"),
		pngDataURI("two"),
		pngDataURI("three"),
	})

	assert.Len(t, urls, 2)
	assert.Equal(t, 3, strategy.calls)
	for _, url := range urls {
		assert.True(t, strings.HasPrefix(url, "https://primary.example/bookings/"))
	}
}

func TestIngestSkipsMalformedPayloads(t *testing.T) {
	strategy := &scriptedStrategy{name: "primary"}
	ing := newTestIngestor(strategy)

	urls := ing.Ingest(context.Background(), []string{
		"not a data uri",
		"data:image/gif;base64,R0lGOD",
		"data:image/png;base64,!!!not-base64!!!",
		pngDataURI("fine"),
	})

	require.Len(t, urls, 1)
	assert.Equal(t, 1, strategy.calls)
}

func TestIngestFallsBackToSecondStrategy(t *testing.T) {
	primary := &scriptedStrategy{name: "primary", fail: map[int]bool{0: true}}
	secondary := &scriptedStrategy{name: "secondary"}
	ing := newTestIngestor(primary, secondary)

	urls := ing.Ingest(context.Background(), []string{pngDataURI("img")})

	require.Len(t, urls, 1)
	assert.Contains(t, urls[0], "secondary.example")
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

func TestIngestTimeoutMovesOn(t *testing.T) {
	stuck := &scriptedStrategy{name: "stuck", slow: true}
	fallback := &scriptedStrategy{name: "fallback"}
	ing := newTestIngestor(stuck, fallback)

	urls := ing.Ingest(context.Background(), []string{pngDataURI("img")})

	require.Len(t, urls, 1)
	assert.Contains(t, urls[0], "fallback.example")
}

func TestIngestAllFailuresReturnsEmpty(t *testing.T) {
	strategy := &scriptedStrategy{name: "primary", fail: map[int]bool{0: true, 1: true}}
	ing := newTestIngestor(strategy)

	urls := ing.Ingest(context.Background(), []string{pngDataURI("a"), pngDataURI("b")})

	assert.NotNil(t, urls)
	assert.Empty(t, urls)
}

func TestIngestJpegExtensionNormalized(t *testing.T) {
	strategy := &scriptedStrategy{name: "primary"}
	ing := newTestIngestor(strategy)

	payload := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("jpg bytes"))
	urls := ing.Ingest(context.Background(), []string{payload})

	require.Len(t, urls, 1)
	assert.True(t, strings.HasSuffix(urls[0], ".jpg"))
}

func TestLocalDiskStrategyWritesFile(t *testing.T) {
	dir := t.TempDir()
	strategy := NewLocalDiskStrategy(dir)

	url, err := strategy.Upload(context.Background(), "bookings/test.png", []byte("bytes"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/"+filepath.ToSlash(filepath.Join(dir, "bookings/test.png")), url)

	written, err := os.ReadFile(filepath.Join(dir, "bookings", "test.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("bytes"), written)
}
