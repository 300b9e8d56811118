package services

// StoreInterface is the persistence hook every mutating service call
// goes through. Implemented by storage.FileManager.
type StoreInterface interface {
	Save() error
}

// RecorderInterface receives activity-log events. Implemented by
// storage.ActivityLog.
type RecorderInterface interface {
	Record(kind, detail string, chatID int64)
}
