package model

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Arya2160/OncoSense/internal/logger"
)

// stubFetcher records fetch calls and writes a canned payload, or fails.
type stubFetcher struct {
	mu      sync.Mutex
	calls   int
	payload []byte
	err     error
	delay   time.Duration
}

func (s *stubFetcher) Fetch(_ context.Context, _ string, dest string) error {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.err != nil {
		return s.err
	}
	return os.WriteFile(dest, s.payload, 0o600)
}

func (s *stubFetcher) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func writeArtifact(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "model.json")
	require.NoError(t, os.WriteFile(path, validArtifactJSON(make([]float64, 7), 0), 0o600))
	return path
}

func TestManager_LoadsLocalArtifact(t *testing.T) {
	path := writeArtifact(t, t.TempDir())
	m := NewManager(Config{Enabled: true, Path: path}, nil, logger.NewNop())

	assert.Equal(t, StateUnloaded, m.State())
	assert.Equal(t, "heuristic", m.ModelKind())

	clf, err := m.Classifier(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "leukemia-logreg", clf.Name())
	assert.Equal(t, StateLoaded, m.State())
	assert.Equal(t, "classifier", m.ModelKind())
}

func TestManager_DisabledFailsImmediately(t *testing.T) {
	m := NewManager(Config{Enabled: false}, nil, logger.NewNop())

	assert.Equal(t, StateFailed, m.State())
	assert.Equal(t, "heuristic", m.ModelKind())

	_, err := m.Classifier(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestManager_MissingArtifactNoURLFailsSticky(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")
	m := NewManager(Config{Enabled: true, Path: path}, nil, logger.NewNop())

	_, err := m.Classifier(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, StateFailed, m.State())

	// Failure is permanent: placing the artifact afterwards must not
	// trigger a retry.
	writeArtifact(t, filepath.Dir(path))
	require.NoError(t, os.Rename(filepath.Join(filepath.Dir(path), "model.json"), path))

	_, err = m.Classifier(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, StateFailed, m.State())
}

func TestManager_DownloadsWhenLocalArtifactAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	fetcher := &stubFetcher{payload: validArtifactJSON(make([]float64, 7), 0)}
	m := NewManager(Config{
		Enabled:         true,
		Path:            path,
		URL:             "https://example.test/model.json",
		DownloadTimeout: 5 * time.Second,
	}, fetcher, logger.NewNop())

	clf, err := m.Classifier(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "leukemia-logreg", clf.Name())
	assert.Equal(t, 1, fetcher.callCount())

	// Subsequent calls serve the cached classifier.
	_, err = m.Classifier(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.callCount())
}

func TestManager_FailedDownloadIsSticky(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	fetcher := &stubFetcher{err: errors.New("connection refused")}
	m := NewManager(Config{
		Enabled:         true,
		Path:            path,
		URL:             "https://example.test/model.json",
		DownloadTimeout: 5 * time.Second,
	}, fetcher, logger.NewNop())

	_, err := m.Classifier(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)

	_, err = m.Classifier(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 1, fetcher.callCount(), "failed load must not be retried")
}

func TestManager_CorruptArtifactFailsSticky(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte("not a model"), 0o600))
	m := NewManager(Config{Enabled: true, Path: path}, nil, logger.NewNop())

	_, err := m.Classifier(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, StateFailed, m.State())
}

func TestManager_ConcurrentFirstLoadFetchesOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	fetcher := &stubFetcher{
		payload: validArtifactJSON(make([]float64, 7), 0),
		delay:   20 * time.Millisecond,
	}
	m := NewManager(Config{
		Enabled:         true,
		Path:            path,
		URL:             "https://example.test/model.json",
		DownloadTimeout: 5 * time.Second,
	}, fetcher, logger.NewNop())

	const workers = 16
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = m.Classifier(context.Background())
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "worker %d", i)
	}
	assert.Equal(t, 1, fetcher.callCount())
	assert.Equal(t, StateLoaded, m.State())
}
