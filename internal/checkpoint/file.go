package checkpoint

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/example/jobhunt-orchestrator/internal/models"
)

// FileStore writes one JSON file per thread under dir. The filesystem is
// abstracted with afero so tests run against an in-memory fs.
type FileStore struct {
	fs  afero.Fs
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewFileStore(fs afero.Fs, dir string) (*FileStore, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create checkpoint dir: %w", err)
	}
	return &FileStore{fs: fs, dir: dir, locks: map[string]*sync.Mutex{}}, nil
}

// lock serializes save/load per thread without any cross-thread lock.
func (f *FileStore) lock(threadID string) *sync.Mutex {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.locks[threadID]
	if !ok {
		l = &sync.Mutex{}
		f.locks[threadID] = l
	}
	return l
}

func (f *FileStore) path(threadID string) string {
	return filepath.Join(f.dir, threadID+".json")
}

func (f *FileStore) Save(ctx context.Context, threadID string, state *models.RunState) error {
	b, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal checkpoint %s: %w", threadID, err)
	}
	l := f.lock(threadID)
	l.Lock()
	defer l.Unlock()
	tmp := f.path(threadID) + ".tmp"
	if err := afero.WriteFile(f.fs, tmp, b, 0o600); err != nil {
		return fmt.Errorf("write checkpoint %s: %w", threadID, err)
	}
	if err := f.fs.Rename(tmp, f.path(threadID)); err != nil {
		return fmt.Errorf("commit checkpoint %s: %w", threadID, err)
	}
	return nil
}

func (f *FileStore) Load(ctx context.Context, threadID string) (*models.RunState, error) {
	l := f.lock(threadID)
	l.Lock()
	defer l.Unlock()
	b, err := afero.ReadFile(f.fs, f.path(threadID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read checkpoint %s: %w", threadID, err)
	}
	var st models.RunState
	if err := json.Unmarshal(b, &st); err != nil {
		return nil, fmt.Errorf("unmarshal checkpoint %s: %w", threadID, err)
	}
	return &st, nil
}

func (f *FileStore) List(ctx context.Context) ([]string, error) {
	entries, err := afero.ReadDir(f.fs, f.dir)
	if err != nil {
		return nil, fmt.Errorf("list checkpoints: %w", err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ".json"))
	}
	return ids, nil
}

func (f *FileStore) Delete(ctx context.Context, threadID string) error {
	l := f.lock(threadID)
	l.Lock()
	defer l.Unlock()
	if err := f.fs.Remove(f.path(threadID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete checkpoint %s: %w", threadID, err)
	}
	return nil
}
