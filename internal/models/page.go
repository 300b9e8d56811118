package models

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

type Page struct {
	Title   string     `json:"title"`
	Message string     `json:"message"`
	Buttons [][]Button `json:"buttons"`
}

// PageUpdate carries a partial update; nil fields keep the current value.
type PageUpdate struct {
	Title   *string     `json:"title"`
	Message *string     `json:"message"`
	Buttons *[][]Button `json:"buttons"`
}

func (p *Page) clone() *Page {
	cp := &Page{Title: p.Title, Message: p.Message, Buttons: make([][]Button, len(p.Buttons))}
	for i, row := range p.Buttons {
		cp.Buttons[i] = append([]Button(nil), row...)
	}
	return cp
}

// PageRegistry is the keyed page store. All access goes through the mutex;
// Get/GetAll return copies so callers never alias registry-owned slices.
type PageRegistry struct {
	mu    sync.RWMutex
	pages map[string]*Page
}

func NewPageRegistry() *PageRegistry {
	return &PageRegistry{pages: make(map[string]*Page)}
}

func (r *PageRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.pages)
}

func (r *PageRegistry) Get(key string) (*Page, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.pages[key]
	if !ok {
		return nil, false
	}
	return p.clone(), true
}

func (r *PageRegistry) GetAll() map[string]*Page {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]*Page, len(r.pages))
	for k, p := range r.pages {
		out[k] = p.clone()
	}
	return out
}

func (r *PageRegistry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.pages))
	for k := range r.pages {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (r *PageRegistry) Create(key string, page *Page) error {
	if key == "" {
		return fmt.Errorf("%w: page key is required", ErrInvalid)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pages[key]; ok {
		return fmt.Errorf("page %q: %w", key, ErrDuplicate)
	}
	if page.Buttons == nil {
		page.Buttons = [][]Button{}
	}
	r.pages[key] = page.clone()
	return nil
}

// Update merges the non-nil fields of upd over the existing page.
func (r *PageRegistry) Update(key string, upd *PageUpdate) (*Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pages[key]
	if !ok {
		return nil, fmt.Errorf("page %q: %w", key, ErrNotFound)
	}
	if upd.Title != nil {
		p.Title = *upd.Title
	}
	if upd.Message != nil {
		p.Message = *upd.Message
	}
	if upd.Buttons != nil {
		p.Buttons = *upd.Buttons
		if p.Buttons == nil {
			p.Buttons = [][]Button{}
		}
	}
	return p.clone(), nil
}

func (r *PageRegistry) Delete(key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pages[key]; !ok {
		return fmt.Errorf("page %q: %w", key, ErrNotFound)
	}
	delete(r.pages, key)
	return nil
}

// AddButton appends to row rowIndex when it exists; a negative or
// out-of-range index opens a new row at the bottom.
func (r *PageRegistry) AddButton(key string, rowIndex int, btn Button) (*Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pages[key]
	if !ok {
		return nil, fmt.Errorf("page %q: %w", key, ErrNotFound)
	}
	if rowIndex >= 0 && rowIndex < len(p.Buttons) {
		p.Buttons[rowIndex] = append(p.Buttons[rowIndex], btn)
	} else {
		p.Buttons = append(p.Buttons, []Button{btn})
	}
	return p.clone(), nil
}

// DeleteButton removes buttons[rowIndex][buttonIndex]; an emptied row is
// removed as well, preserving the order of the remaining rows.
func (r *PageRegistry) DeleteButton(key string, rowIndex, buttonIndex int) (*Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pages[key]
	if !ok {
		return nil, fmt.Errorf("page %q: %w", key, ErrNotFound)
	}
	if rowIndex < 0 || rowIndex >= len(p.Buttons) {
		return nil, fmt.Errorf("page %q row %d: %w", key, rowIndex, ErrNotFound)
	}
	row := p.Buttons[rowIndex]
	if buttonIndex < 0 || buttonIndex >= len(row) {
		return nil, fmt.Errorf("page %q row %d button %d: %w", key, rowIndex, buttonIndex, ErrNotFound)
	}
	row = append(row[:buttonIndex], row[buttonIndex+1:]...)
	if len(row) == 0 {
		p.Buttons = append(p.Buttons[:rowIndex], p.Buttons[rowIndex+1:]...)
	} else {
		p.Buttons[rowIndex] = row
	}
	return p.clone(), nil
}

// Search matches the query case-insensitively against key, title and message.
func (r *PageRegistry) Search(query string) map[string]*Page {
	q := strings.ToLower(query)
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]*Page)
	for k, p := range r.pages {
		if strings.Contains(strings.ToLower(k), q) ||
			strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(p.Message), q) {
			out[k] = p.clone()
		}
	}
	return out
}

// Replace swaps the full page set, e.g. on backup import.
func (r *PageRegistry) Replace(pages map[string]*Page) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pages = make(map[string]*Page, len(pages))
	for k, p := range pages {
		if p.Buttons == nil {
			p.Buttons = [][]Button{}
		}
		r.pages[k] = p.clone()
	}
}

func (r *PageRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pages = make(map[string]*Page)
}
