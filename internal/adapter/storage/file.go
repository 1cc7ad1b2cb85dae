package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"valutatrade-hub/internal/domain/model"
	"valutatrade-hub/pkg/logger"
)

const (
	snapshotFile = "rates.json"
	historyFile  = "history.json"

	// historyCap bounds the on-disk quote history; oldest entries are
	// dropped first.
	historyCap = 1000

	defaultHistoryLimit = 100
)

// FileStore keeps the rate snapshot and quote history as JSON files in
// one directory. Writes go through a temp file and rename, so a crash
// mid-write never leaves a torn snapshot behind.
type FileStore struct {
	dir string
	mu  sync.Mutex
	log *logger.Logger
}

func NewFileStore(dir string, log *logger.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir, log: log}, nil
}

func (f *FileStore) Load(ctx context.Context) (model.RateSnapshot, error) {
	empty := model.RateSnapshot{Pairs: make(map[string]model.RateQuote)}

	data, err := os.ReadFile(filepath.Join(f.dir, snapshotFile))
	if errors.Is(err, os.ErrNotExist) {
		return empty, nil
	}
	if err != nil {
		return empty, fmt.Errorf("read %s: %w", snapshotFile, err)
	}

	var snap model.RateSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return empty, fmt.Errorf("decode %s: %w", snapshotFile, err)
	}
	if snap.Pairs == nil {
		snap.Pairs = make(map[string]model.RateQuote)
	}
	return snap, nil
}

func (f *FileStore) Save(ctx context.Context, snap model.RateSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writeJSON(snapshotFile, snap)
}

func (f *FileStore) AppendHistory(ctx context.Context, quotes []model.RateQuote) error {
	if len(quotes) == 0 {
		return nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.readHistory()
	if err != nil {
		return err
	}

	entries = append(entries, quotes...)
	if len(entries) > historyCap {
		entries = entries[len(entries)-historyCap:]
	}

	return f.writeJSON(historyFile, entries)
}

// History returns up to limit entries for pair (all pairs when empty),
// oldest first.
func (f *FileStore) History(ctx context.Context, pair string, limit int) ([]model.RateQuote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.readHistory()
	if err != nil {
		return nil, err
	}

	if pair != "" {
		filtered := entries[:0]
		for _, q := range entries {
			if q.PairKey() == pair {
				filtered = append(filtered, q)
			}
		}
		entries = filtered
	}

	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}

	return entries, nil
}

func (f *FileStore) readHistory() ([]model.RateQuote, error) {
	data, err := os.ReadFile(filepath.Join(f.dir, historyFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", historyFile, err)
	}

	var entries []model.RateQuote
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode %s: %w", historyFile, err)
	}
	return entries, nil
}

func (f *FileStore) writeJSON(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	path := filepath.Join(f.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
