package services

import (
	"time"

	"pagebot/internal/models"
	"pagebot/internal/providers"
)

type FileServiceInterface interface {
	GetAll() map[string]*models.FileRecord
	Get(id string) (*models.FileRecord, error)
	Register(name, mimeType string, sizeBytes int64, transportHandle string) (*models.FileRecord, error)
	Delete(id string) error
	Search(query string) []*models.FileRecord
}

type FileService struct {
	state    *models.State
	store    StoreInterface
	recorder RecorderInterface
	logger   providers.Logger
}

func NewFileService(state *models.State, store StoreInterface, recorder RecorderInterface, logger providers.Logger) FileServiceInterface {
	return &FileService{state: state, store: store, recorder: recorder, logger: logger}
}

func (fs *FileService) persist(what string) {
	if err := fs.store.Save(); err != nil {
		fs.logger.Errorf(providers.TypeApp, "Save after %s failed: %s", what, err)
	}
}

func (fs *FileService) GetAll() map[string]*models.FileRecord {
	return fs.state.Files.GetAll()
}

func (fs *FileService) Get(id string) (*models.FileRecord, error) {
	f, ok := fs.state.Files.Get(id)
	if !ok {
		return nil, models.ErrNotFound
	}
	return f, nil
}

// Register stores the metadata for a file the transport already accepted.
// The record id is derived from the submission instant.
func (fs *FileService) Register(name, mimeType string, sizeBytes int64, transportHandle string) (*models.FileRecord, error) {
	now := time.Now()
	rec := &models.FileRecord{
		ID:              models.NewFileID(now),
		Name:            name,
		MimeType:        mimeType,
		SizeBytes:       sizeBytes,
		TransportHandle: transportHandle,
		UploadedAt:      now,
	}
	if err := fs.state.Files.Put(rec); err != nil {
		return nil, err
	}
	fs.recorder.Record("admin", "file uploaded: "+rec.Name, 0)
	fs.persist("file register")
	return rec, nil
}

// Delete removes the record only; the remote media stays with the
// transport.
func (fs *FileService) Delete(id string) error {
	if err := fs.state.Files.Delete(id); err != nil {
		return err
	}
	fs.recorder.Record("admin", "file deleted: "+id, 0)
	fs.persist("file delete")
	return nil
}

func (fs *FileService) Search(query string) []*models.FileRecord {
	return fs.state.Files.Search(query)
}
