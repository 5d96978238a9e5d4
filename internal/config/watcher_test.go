package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reloadRecorder struct {
	mu    sync.Mutex
	cfgs  []*Config
	calls int
}

func (r *reloadRecorder) record(cfg *Config) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cfgs = append(r.cfgs, cfg)
	r.calls++
}

func (r *reloadRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func (r *reloadRecorder) last() *Config {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.cfgs) == 0 {
		return nil
	}
	return r.cfgs[len(r.cfgs)-1]
}

func waitForReloads(t *testing.T, rec *reloadRecorder, want int, description string) {
	t.Helper()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if rec.count() >= want {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", description)
}

func writeConfigFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
}

func TestWatcher_ReloadsOnValidChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lumi.json")
	writeConfigFile(t, path, `{"server": {"port": 9001}}`)

	rec := &reloadRecorder{}
	w, err := NewWatcher(path, rec.record, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = w.Close()
	})

	writeConfigFile(t, path, `{"server": {"port": 9002}, "logging": {"level": "debug"}}`)

	waitForReloads(t, rec, 1, "config reload after valid write")

	cfg := rec.last()
	require.NotNil(t, cfg)
	assert.Equal(t, 9002, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestWatcher_KeepsPreviousConfigOnInvalidChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lumi.json")
	writeConfigFile(t, path, `{"server": {"port": 9001}}`)

	rec := &reloadRecorder{}
	w, err := NewWatcher(path, rec.record, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = w.Close()
	})

	// Malformed JSON fails the load; an out-of-range port fails validation.
	// Neither may reach the callback.
	writeConfigFile(t, path, `{"server": {"port": 9001}`)
	writeConfigFile(t, path, `{"server": {"port": -1}}`)
	time.Sleep(600 * time.Millisecond)
	assert.Equal(t, 0, rec.count())

	// A subsequent valid write still gets through.
	writeConfigFile(t, path, `{"server": {"port": 9003}}`)
	waitForReloads(t, rec, 1, "config reload after recovering from invalid write")
	assert.Equal(t, 9003, rec.last().Server.Port)
}

func TestWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lumi.json")
	writeConfigFile(t, path, `{"server": {"port": 9001}}`)

	rec := &reloadRecorder{}
	w, err := NewWatcher(path, rec.record, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = w.Close()
	})

	writeConfigFile(t, filepath.Join(dir, "notes.txt"), "not a config")
	time.Sleep(600 * time.Millisecond)
	assert.Equal(t, 0, rec.count())
}

func TestNewWatcher_RequiresPathAndCallback(t *testing.T) {
	_, err := NewWatcher("", func(*Config) {}, zerolog.Nop())
	assert.ErrorContains(t, err, "config path is required")

	_, err = NewWatcher(filepath.Join(t.TempDir(), "lumi.json"), nil, zerolog.Nop())
	assert.ErrorContains(t, err, "reload callback is required")
}
