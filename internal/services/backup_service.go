package services

import (
	"time"

	"pagebot/internal/models"
	"pagebot/internal/providers"
)

type BackupServiceInterface interface {
	Export() *models.Backup
	Import(backup *models.Backup) error
	ClearAll()
}

// BackupService implements export/import and clear-all over the whole
// application state.
type BackupService struct {
	state    *models.State
	store    StoreInterface
	recorder RecorderInterface
	logger   providers.Logger
}

func NewBackupService(state *models.State, store StoreInterface, recorder RecorderInterface, logger providers.Logger) BackupServiceInterface {
	return &BackupService{state: state, store: store, recorder: recorder, logger: logger}
}

func (bs *BackupService) Export() *models.Backup {
	return &models.Backup{
		Pages: bs.state.Pages.GetAll(),
		Files: bs.state.Files.GetAll(),
		Stats: bs.state.Stats.Document(),
	}
}

// Import wholesale-replaces the registries present in the backup.
// Partial backups are fine: registries for absent keys stay untouched.
func (bs *BackupService) Import(backup *models.Backup) error {
	if backup.Pages != nil {
		bs.state.Pages.Replace(backup.Pages)
	}
	if backup.Files != nil {
		bs.state.Files.Replace(backup.Files)
	}
	if backup.Stats != nil {
		bs.state.Stats.Restore(backup.Stats, time.Now())
	}
	bs.recorder.Record("admin", "backup imported", 0)
	if err := bs.store.Save(); err != nil {
		bs.logger.Errorf(providers.TypeApp, "Save after import failed: %s", err)
		return err
	}
	return nil
}

// ClearAll wipes all three registries and persists once.
func (bs *BackupService) ClearAll() {
	bs.state.Pages.Clear()
	bs.state.Files.Clear()
	bs.state.Stats.Reset(time.Now())
	bs.recorder.Record("admin", "all registries cleared", 0)
	if err := bs.store.Save(); err != nil {
		bs.logger.Errorf(providers.TypeApp, "Save after clear-all failed: %s", err)
	}
}
