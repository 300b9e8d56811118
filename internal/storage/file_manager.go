package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"pagebot/internal/models"
	"pagebot/internal/providers"
	"pagebot/internal/structures"
)

const (
	pagesFile = "pages.json"
	filesFile = "files.json"
	statsFile = "stats.json"
)

// FileManager mirrors the three in-memory registries to independent JSON
// documents. Save writes all three unconditionally under one mutex so two
// racing mutations can never interleave partial writes to the same file.
type FileManager struct {
	dir      string
	rootPage string
	state    *models.State
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
	mu       sync.Mutex
}

func NewFileManager(conf *structures.Config, state *models.State, logger providers.Logger, metrics providers.MetricsProviderInterface) *FileManager {
	return &FileManager{
		dir:      conf.Persistence.DataDir,
		rootPage: conf.Bot.RootPage,
		state:    state,
		logger:   logger,
		metrics:  metrics,
	}
}

// Load reads the three documents. A missing file yields the empty default
// for that document alone; a parse failure is logged and likewise falls
// back. Only an unusable data directory is a hard error.
func (f *FileManager) Load() error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("cannot create data dir %s: %w", f.dir, err)
	}

	var pages map[string]*models.Page
	if f.loadDoc(pagesFile, &pages) && pages != nil {
		f.state.Pages.Replace(pages)
	}

	var files map[string]*models.FileRecord
	if f.loadDoc(filesFile, &files) && files != nil {
		f.state.Files.Replace(files)
	}

	var stats models.StatsDocument
	if f.loadDoc(statsFile, &stats) {
		f.state.Stats.Restore(&stats, time.Now())
	}

	f.seedDefaults()
	return nil
}

// seedDefaults bootstraps a welcome page so /start always has something
// to render on a fresh install.
func (f *FileManager) seedDefaults() {
	if f.state.Pages.Len() > 0 {
		return
	}
	err := f.state.Pages.Create(f.rootPage, &models.Page{
		Title:   "Welcome",
		Message: "Welcome! Use the buttons below to navigate.",
		Buttons: [][]models.Button{},
	})
	if err == nil {
		f.logger.Infof(providers.TypeApp, "Seeded default page %q", f.rootPage)
	}
}

// loadDoc returns true when the document was read and parsed.
func (f *FileManager) loadDoc(name string, out interface{}) bool {
	path := filepath.Join(f.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			f.logger.Infof(providers.TypeApp, "No %s yet, starting with empty defaults", name)
		} else {
			f.logger.Errorf(providers.TypeApp, "Cannot read %s: %s", name, err)
		}
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		f.logger.Errorf(providers.TypeApp, "Cannot parse %s, falling back to empty defaults: %s", name, err)
		return false
	}
	return true
}

// Save persists all three documents sequentially, even when only one
// changed. Each write is tmp-file + fsync + rename.
func (f *FileManager) Save() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	start := time.Now()
	if err := f.writeDoc(pagesFile, f.state.Pages.GetAll()); err != nil {
		return err
	}
	if err := f.writeDoc(filesFile, f.state.Files.GetAll()); err != nil {
		return err
	}
	if err := f.writeDoc(statsFile, f.state.Stats.Document()); err != nil {
		return err
	}
	f.metrics.ObservePersistenceDuration(time.Since(start))
	return nil
}

func (f *FileManager) writeDoc(name string, doc interface{}) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	path := filepath.Join(f.dir, name)
	tmpFile := path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	if _, err = file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, path)
}
