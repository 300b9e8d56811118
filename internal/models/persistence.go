package models

import "time"

// Backup is the export/import envelope: all three documents in one file.
// Import tolerates partial backups — absent keys leave the corresponding
// registry untouched, which is why every field may be omitted.
type Backup struct {
	Pages map[string]*Page       `json:"pages,omitempty"`
	Files map[string]*FileRecord `json:"files,omitempty"`
	Stats *StatsDocument         `json:"stats,omitempty"`
}

// State is the explicitly owned application state: the three in-memory
// registries mirrored by the persistent store. It is constructed once and
// passed by reference to every handler.
type State struct {
	Pages *PageRegistry
	Files *FileRegistry
	Stats *Stats
}

func NewState(now time.Time) *State {
	return &State{
		Pages: NewPageRegistry(),
		Files: NewFileRegistry(),
		Stats: NewStats(now),
	}
}

// NewDefaultState is the wire provider for State.
func NewDefaultState() *State {
	return NewState(time.Now())
}
