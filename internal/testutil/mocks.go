package testutil

import (
	"sync"

	tele "gopkg.in/telebot.v3"

	"pagebot/internal/providers"
	"pagebot/internal/telegram"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Entries returns a copy of the recorded log entries.
func (m *MockLogger) Entries() []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]LogEntry, len(m.Logs))
	copy(out, m.Logs)
	return out
}

// MockStore implements services.StoreInterface with an injectable error.
type MockStore struct {
	mu        sync.Mutex
	SaveCalls int
	SaveErr   error
}

func (m *MockStore) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	return m.SaveErr
}

func (m *MockStore) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.SaveCalls
}

// MockRecorder implements services.RecorderInterface and records events.
type MockRecorder struct {
	mu     sync.Mutex
	Events []RecordedEvent
}

type RecordedEvent struct {
	Kind   string
	Detail string
	ChatID int64
}

func (m *MockRecorder) Record(kind, detail string, chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, RecordedEvent{Kind: kind, Detail: detail, ChatID: chatID})
}

func (m *MockRecorder) Recorded() []RecordedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RecordedEvent, len(m.Events))
	copy(out, m.Events)
	return out
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockCache) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data = make(map[string][]byte)
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {}

// SentMessage is one Send or Edit observed by MockSender.
type SentMessage struct {
	Edited    bool
	Recipient tele.Recipient
	Editable  tele.Editable
	What      interface{}
	Opts      []interface{}
}

// MockSender implements telegram.Sender and records every outbound message.
type MockSender struct {
	mu       sync.Mutex
	Messages []SentMessage
	SendErr  error
	EditErr  error
	nextID   int
}

func (m *MockSender) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SendErr != nil {
		return nil, m.SendErr
	}
	m.Messages = append(m.Messages, SentMessage{Recipient: to, What: what, Opts: opts})
	m.nextID++
	return &tele.Message{ID: m.nextID}, nil
}

func (m *MockSender) Edit(msg tele.Editable, what interface{}, opts ...interface{}) (*tele.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.EditErr != nil {
		return nil, m.EditErr
	}
	m.Messages = append(m.Messages, SentMessage{Edited: true, Editable: msg, What: what, Opts: opts})
	m.nextID++
	return &tele.Message{ID: m.nextID}, nil
}

func (m *MockSender) Sent() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentMessage, len(m.Messages))
	copy(out, m.Messages)
	return out
}

// MockTransport implements telegram.TransportInterface.
type MockTransport struct {
	mu          sync.Mutex
	Uploads     []UploadCall
	UploadID    string
	UploadErr   error
	BotInfo     *telegram.BotInfo
	InfoErr     error
	CommandList []tele.Command
	AdminSet    bool
}

type UploadCall struct {
	Name     string
	MimeType string
	Size     int
}

func (m *MockTransport) UploadMedia(name, mimeType string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Uploads = append(m.Uploads, UploadCall{Name: name, MimeType: mimeType, Size: len(data)})
	if m.UploadErr != nil {
		return "", m.UploadErr
	}
	if m.UploadID != "" {
		return m.UploadID, nil
	}
	return "file-id-1", nil
}

func (m *MockTransport) Info() (*telegram.BotInfo, error) {
	if m.InfoErr != nil {
		return nil, m.InfoErr
	}
	if m.BotInfo != nil {
		return m.BotInfo, nil
	}
	return &telegram.BotInfo{ID: 42, Username: "pagebot_test_bot", FirstName: "PageBot"}, nil
}

func (m *MockTransport) Commands() []tele.Command {
	if m.CommandList != nil {
		return m.CommandList
	}
	return []tele.Command{{Text: "start", Description: "Open the main page"}}
}

func (m *MockTransport) AdminChatConfigured() bool {
	return m.AdminSet
}
