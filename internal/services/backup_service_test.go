package services_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagebot/internal/models"
	"pagebot/internal/services"
	"pagebot/internal/testutil"
)

func newBackupService(t *testing.T) (services.BackupServiceInterface, *models.State, *testutil.MockStore) {
	t.Helper()
	state := models.NewState(time.Now())
	store := &testutil.MockStore{}
	svc := services.NewBackupService(state, store, &testutil.MockRecorder{}, &testutil.MockLogger{})
	return svc, state, store
}

func seedState(t *testing.T, state *models.State) {
	t.Helper()
	require.NoError(t, state.Pages.Create("p", &models.Page{Title: "t", Message: "m"}))
	require.NoError(t, state.Files.Put(&models.FileRecord{ID: "1", Name: "a.pdf"}))
	state.Stats.RecordInteraction(7, time.Now())
}

func TestBackupService_ExportCoversAllRegistries(t *testing.T) {
	svc, state, _ := newBackupService(t)
	seedState(t, state)

	backup := svc.Export()
	assert.Len(t, backup.Pages, 1)
	assert.Len(t, backup.Files, 1)
	require.NotNil(t, backup.Stats)
	assert.Equal(t, []int64{7}, backup.Stats.AllTimeUserIDs)
}

func TestBackupService_ExportImportRoundTrip(t *testing.T) {
	src, srcState, _ := newBackupService(t)
	seedState(t, srcState)
	backup := src.Export()

	dst, dstState, store := newBackupService(t)
	require.NoError(t, dst.Import(backup))

	assert.Equal(t, 1, dstState.Pages.Len())
	assert.Equal(t, 1, dstState.Files.Len())
	snap := dstState.Stats.Snapshot(time.Now())
	assert.Equal(t, 1, snap.TotalUsers)
	assert.Equal(t, 1, store.Calls())
}

func TestBackupService_ImportPartialKeepsOtherRegistries(t *testing.T) {
	svc, state, _ := newBackupService(t)
	seedState(t, state)

	// Pages-only backup: files and stats stay.
	err := svc.Import(&models.Backup{
		Pages: map[string]*models.Page{"other": {Title: "o", Message: "m"}},
	})
	require.NoError(t, err)

	_, ok := state.Pages.Get("other")
	assert.True(t, ok)
	_, ok = state.Pages.Get("p")
	assert.False(t, ok)
	assert.Equal(t, 1, state.Files.Len())
	snap := state.Stats.Snapshot(time.Now())
	assert.Equal(t, 1, snap.TotalUsers)
}

func TestBackupService_ImportReturnsSaveError(t *testing.T) {
	svc, _, store := newBackupService(t)
	store.SaveErr = errors.New("disk full")

	err := svc.Import(&models.Backup{})
	assert.Error(t, err)
}

func TestBackupService_ClearAll(t *testing.T) {
	svc, state, store := newBackupService(t)
	seedState(t, state)

	svc.ClearAll()

	assert.Equal(t, 0, state.Pages.Len())
	assert.Equal(t, 0, state.Files.Len())
	snap := state.Stats.Snapshot(time.Now())
	assert.Equal(t, 0, snap.TotalUsers)
	assert.Equal(t, 1, store.Calls())
}
