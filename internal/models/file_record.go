package models

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// FileRecord describes an uploaded media file. TransportHandle is the chat
// platform's opaque reference; the bytes themselves are never stored here.
type FileRecord struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	MimeType        string    `json:"mimeType"`
	SizeBytes       int64     `json:"sizeBytes"`
	TransportHandle string    `json:"transportHandle"`
	UploadedAt      time.Time `json:"uploadedAt"`
}

// NewFileID derives a record id from the submission instant.
func NewFileID(now time.Time) string {
	return fmt.Sprintf("%d", now.UnixMilli())
}

type FileRegistry struct {
	mu    sync.RWMutex
	files map[string]*FileRecord
}

func NewFileRegistry() *FileRegistry {
	return &FileRegistry{files: make(map[string]*FileRecord)}
}

func (r *FileRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.files)
}

func (r *FileRegistry) Get(id string) (*FileRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.files[id]
	if !ok {
		return nil, false
	}
	cp := *f
	return &cp, true
}

func (r *FileRegistry) GetAll() map[string]*FileRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]*FileRecord, len(r.files))
	for id, f := range r.files {
		cp := *f
		out[id] = &cp
	}
	return out
}

func (r *FileRegistry) Put(rec *FileRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("%w: file id is required", ErrInvalid)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.files[rec.ID]; ok {
		return fmt.Errorf("file %q: %w", rec.ID, ErrDuplicate)
	}
	cp := *rec
	r.files[rec.ID] = &cp
	return nil
}

func (r *FileRegistry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.files[id]; !ok {
		return fmt.Errorf("file %q: %w", id, ErrNotFound)
	}
	delete(r.files, id)
	return nil
}

// Search matches the query case-insensitively against name and MIME type.
func (r *FileRegistry) Search(query string) []*FileRecord {
	q := strings.ToLower(query)
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*FileRecord
	for _, f := range r.files {
		if strings.Contains(strings.ToLower(f.Name), q) ||
			strings.Contains(strings.ToLower(f.MimeType), q) {
			cp := *f
			out = append(out, &cp)
		}
	}
	return out
}

func (r *FileRegistry) Replace(files map[string]*FileRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files = make(map[string]*FileRecord, len(files))
	for id, f := range files {
		cp := *f
		r.files[id] = &cp
	}
}

func (r *FileRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files = make(map[string]*FileRecord)
}
