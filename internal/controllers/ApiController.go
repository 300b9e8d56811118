package controllers

import (
	"errors"
	"io"
	"net/http"
	"os"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"

	"pagebot/internal/models"
	"pagebot/internal/providers"
	"pagebot/internal/services"
	"pagebot/internal/storage"
	"pagebot/internal/telegram"
)

const (
	maxRequestBodySize = 1 << 20  // 1 MB
	maxUploadSize      = 50 << 20 // 50 MB
	restartDelay       = 500 * time.Millisecond
	activityLogLimit   = 100
)

// ActivityReaderInterface serves the activity-log endpoint.
type ActivityReaderInterface interface {
	Recent(n int) []*storage.ActivityEntry
}

type ApiController struct {
	logger    providers.Logger
	pages     services.PageServiceInterface
	files     services.FileServiceInterface
	stats     services.StatsServiceInterface
	backup    services.BackupServiceInterface
	transport telegram.TransportInterface
	activity  ActivityReaderInterface
	cache     providers.CacheProviderInterface
	exit      func(code int)
}

func NewApiController(logger providers.Logger, pages services.PageServiceInterface, files services.FileServiceInterface, stats services.StatsServiceInterface, backup services.BackupServiceInterface, transport telegram.TransportInterface, activity ActivityReaderInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger:    logger,
		pages:     pages,
		files:     files,
		stats:     stats,
		backup:    backup,
		transport: transport,
		activity:  activity,
		cache:     cache,
		exit:      os.Exit,
	}
}

// --- response helpers ---

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func writeSuccess(w http.ResponseWriter, extra map[string]interface{}) {
	body := map[string]interface{}{"success": true}
	for k, v := range extra {
		body[k] = v
	}
	writeJSON(w, http.StatusOK, body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{"success": false, "error": msg})
}

// writeServiceError maps the error taxonomy onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrDuplicate), errors.Is(err, models.ErrInvalid):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (interface{}, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

// --- stats ---

func (ac *ApiController) GetStats(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "stats", func() (interface{}, error) {
		return ac.stats.Snapshot(), nil
	})
}

func (ac *ApiController) GetDetailedStats(w http.ResponseWriter, r *http.Request) {
	days, counts := ac.stats.DailyActivity(14)
	activity := make([]map[string]interface{}, len(days))
	for i := range days {
		activity[i] = map[string]interface{}{"day": days[i], "messages": counts[i]}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"stats":         ac.stats.Snapshot(),
		"dailyActivity": activity,
		"pagesTotal":    len(ac.pages.GetAll()),
		"filesTotal":    len(ac.files.GetAll()),
	})
}

func (ac *ApiController) GetStatsChart(w http.ResponseWriter, r *http.Request) {
	img, err := ac.stats.ActivityChartPNG()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}

func (ac *ApiController) GetActivityLog(w http.ResponseWriter, r *http.Request) {
	entries := ac.activity.Recent(activityLogLimit)
	if entries == nil {
		entries = []*storage.ActivityEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}

// --- pages ---

func (ac *ApiController) GetPages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ac.pages.GetAll())
}

func (ac *ApiController) GetPage(w http.ResponseWriter, r *http.Request) {
	page, err := ac.pages.Get(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

type createPageRequest struct {
	PageID   string `json:"pageId"`
	PageData struct {
		Title   string            `json:"title"`
		Message string            `json:"message"`
		Buttons [][]models.Button `json:"buttons"`
	} `json:"pageData"`
}

func (ac *ApiController) CreatePage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req createPageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.PageID == "" || req.PageData.Title == "" || req.PageData.Message == "" {
		writeError(w, http.StatusBadRequest, "pageId, pageData.title and pageData.message are required")
		return
	}

	page := &models.Page{
		Title:   req.PageData.Title,
		Message: req.PageData.Message,
		Buttons: req.PageData.Buttons,
	}
	if page.Buttons == nil {
		page.Buttons = [][]models.Button{}
	}
	if err := ac.pages.Create(req.PageID, page); err != nil {
		writeServiceError(w, err)
		return
	}
	ac.cache.Clear()
	writeSuccess(w, map[string]interface{}{"pageId": req.PageID, "page": page})
}

func (ac *ApiController) UpdatePage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var upd models.PageUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	page, err := ac.pages.Update(r.PathValue("id"), &upd)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	ac.cache.Clear()
	writeSuccess(w, map[string]interface{}{"page": page})
}

func (ac *ApiController) DeletePage(w http.ResponseWriter, r *http.Request) {
	if err := ac.pages.Delete(r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	ac.cache.Clear()
	writeSuccess(w, nil)
}

// --- buttons ---

func (ac *ApiController) GetButtons(w http.ResponseWriter, r *http.Request) {
	buttons, err := ac.pages.GetButtons(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, buttons)
}

type addButtonRequest struct {
	RowIndex   interface{} `json:"rowIndex"`
	ButtonData struct {
		Text         string `json:"text"`
		CallbackData string `json:"callback_data"`
		URL          string `json:"url"`
	} `json:"buttonData"`
}

func (ac *ApiController) AddButton(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req addButtonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	btn, err := models.ButtonFromWire(req.ButtonData.Text, req.ButtonData.CallbackData, req.ButtonData.URL)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// An absent rowIndex opens a new row; clients send it as a number
	// or a numeric string, hence the lenient coercion.
	rowIndex := -1
	if req.RowIndex != nil {
		rowIndex = cast.ToInt(req.RowIndex)
	}

	page, err := ac.pages.AddButton(r.PathValue("id"), rowIndex, btn)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	ac.cache.Clear()
	writeSuccess(w, map[string]interface{}{"page": page})
}

type deleteButtonRequest struct {
	RowIndex    interface{} `json:"rowIndex"`
	ButtonIndex interface{} `json:"buttonIndex"`
}

func (ac *ApiController) DeleteButton(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req deleteButtonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.RowIndex == nil || req.ButtonIndex == nil {
		writeError(w, http.StatusBadRequest, "rowIndex and buttonIndex are required")
		return
	}

	page, err := ac.pages.RemoveButton(r.PathValue("id"), cast.ToInt(req.RowIndex), cast.ToInt(req.ButtonIndex))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	ac.cache.Clear()
	writeSuccess(w, map[string]interface{}{"page": page})
}

// --- files ---

func (ac *ApiController) GetFiles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ac.files.GetAll())
}

func (ac *ApiController) Upload(w http.ResponseWriter, r *http.Request) {
	if !ac.transport.AdminChatConfigured() {
		writeError(w, http.StatusBadRequest, "no admin chat configured for uploads")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "cannot read upload")
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	handle, err := ac.transport.UploadMedia(header.Filename, mimeType, data)
	if err != nil {
		ac.logger.Errorf(providers.TypeHttp, "Upload relay failed: %s", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	rec, err := ac.files.Register(header.Filename, mimeType, header.Size, handle)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	ac.cache.Clear()
	writeSuccess(w, map[string]interface{}{"fileData": rec})
}

func (ac *ApiController) DeleteFile(w http.ResponseWriter, r *http.Request) {
	if err := ac.files.Delete(r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	ac.cache.Clear()
	writeSuccess(w, nil)
}

func (ac *ApiController) PreviewFile(w http.ResponseWriter, r *http.Request) {
	rec, err := ac.files.Get(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// --- backup ---

func (ac *ApiController) Export(w http.ResponseWriter, r *http.Request) {
	backup := ac.backup.Export()
	gson, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	filename := "pagebot-backup-" + time.Now().Format("20060102-150405") + ".json"
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (ac *ApiController) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, _, err := r.FormFile("backupFile")
	if err != nil {
		writeError(w, http.StatusBadRequest, "backupFile field is required")
		return
	}
	defer file.Close()

	var backup models.Backup
	if err := json.NewDecoder(file).Decode(&backup); err != nil {
		writeError(w, http.StatusBadRequest, "cannot parse backup: "+err.Error())
		return
	}

	if err := ac.backup.Import(&backup); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	ac.cache.Clear()
	writeSuccess(w, nil)
}

func (ac *ApiController) ClearAll(w http.ResponseWriter, r *http.Request) {
	ac.backup.ClearAll()
	ac.cache.Clear()
	writeSuccess(w, nil)
}

// Restart acknowledges first, then terminates after a short delay so the
// response can flush. Process supervision brings the bot back up.
func (ac *ApiController) Restart(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, map[string]interface{}{"message": "restarting"})
	go func() {
		time.Sleep(restartDelay)
		ac.logger.Infof(providers.TypeApp, "Restart requested via admin API")
		ac.exit(0)
	}()
}

// --- search & diagnostics ---

type searchPageResult struct {
	Key     string `json:"key"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

func (ac *ApiController) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	pages := make([]searchPageResult, 0)
	files := make([]*models.FileRecord, 0)
	if query != "" {
		for key, p := range ac.pages.Search(query) {
			pages = append(pages, searchPageResult{Key: key, Title: p.Title, Message: p.Message})
		}
		files = append(files, ac.files.Search(query)...)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"pages": pages, "files": files})
}

func (ac *ApiController) GetBotInfo(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "bot-info", func() (interface{}, error) {
		return ac.transport.Info()
	})
}

func (ac *ApiController) GetBotCommands(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"commands": ac.transport.Commands()})
}
