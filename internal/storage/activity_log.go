package storage

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"pagebot/internal/providers"
	"pagebot/internal/storage/interfaces"
	"pagebot/internal/structures"
)

const activityFile = "activity.zst"

const defaultActivityCapacity = 500

// ActivityEntry is a single recorded event: a chat interaction or an
// admin mutation.
type ActivityEntry struct {
	ID     string    `json:"id"`
	At     time.Time `json:"at"`
	Kind   string    `json:"kind"`
	Detail string    `json:"detail"`
	ChatID int64     `json:"chatId,omitempty"`
}

// ActivityLog keeps the most recent events in a capped in-memory ring,
// persisted zstd-compressed on flush.
type ActivityLog struct {
	mu         sync.RWMutex
	entries    []*ActivityEntry
	dir        string
	capacity   int
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewActivityLog(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger) *ActivityLog {
	dir := conf.ActivityLog.Dir
	if dir == "" {
		dir = conf.Persistence.DataDir
	}
	capacity := conf.ActivityLog.Capacity
	if capacity <= 0 {
		capacity = defaultActivityCapacity
	}
	return &ActivityLog{
		dir:        dir,
		capacity:   capacity,
		compressor: compressor,
		logger:     logger,
	}
}

func (a *ActivityLog) Record(kind, detail string, chatID int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, &ActivityEntry{
		ID:     uuid.NewString(),
		At:     time.Now(),
		Kind:   kind,
		Detail: detail,
		ChatID: chatID,
	})
	if len(a.entries) > a.capacity {
		a.entries = a.entries[len(a.entries)-a.capacity:]
	}
}

// Recent returns up to n entries, newest first.
func (a *ActivityLog) Recent(n int) []*ActivityEntry {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if n <= 0 || n > len(a.entries) {
		n = len(a.entries)
	}
	out := make([]*ActivityEntry, 0, n)
	for i := len(a.entries) - 1; i >= len(a.entries)-n; i-- {
		cp := *a.entries[i]
		out = append(out, &cp)
	}
	return out
}

func (a *ActivityLog) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = nil
}

// Flush writes the ring to disk. Errors are returned for logging but the
// in-memory ring stays intact either way.
func (a *ActivityLog) Flush() error {
	a.mu.RLock()
	data, err := json.Marshal(a.entries)
	a.mu.RUnlock()
	if err != nil {
		return err
	}

	compressed, err := a.compressor.Compress(data)
	if err != nil {
		return err
	}

	path := filepath.Join(a.dir, activityFile)
	tmpFile := path + ".tmp"
	if err := os.WriteFile(tmpFile, compressed, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpFile, path)
}

// Restore loads a previous flush; a missing file is not an error.
func (a *ActivityLog) Restore() error {
	data, err := os.ReadFile(filepath.Join(a.dir, activityFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressed, err := a.compressor.Decompress(data)
	if err != nil {
		return err
	}

	var entries []*ActivityEntry
	if err := json.Unmarshal(decompressed, &entries); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if len(entries) > a.capacity {
		entries = entries[len(entries)-a.capacity:]
	}
	a.entries = entries
	return nil
}
