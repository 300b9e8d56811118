package telegram

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"

	"pagebot/internal/models"
	"pagebot/internal/providers"
)

// local mocks to avoid import cycle with testutil

type navTestLogger struct{}

func (l *navTestLogger) Errorf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (l *navTestLogger) Warnf(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (l *navTestLogger) Debugf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (l *navTestLogger) Infof(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (l *navTestLogger) Fatalf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (l *navTestLogger) Close()                                                  {}

type navTestMetrics struct {
	interactions map[string]int
}

func (m *navTestMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *navTestMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *navTestMetrics) IncInteractions(kind string) {
	if m.interactions == nil {
		m.interactions = map[string]int{}
	}
	m.interactions[kind]++
}
func (m *navTestMetrics) IncCacheHits()                              {}
func (m *navTestMetrics) IncCacheMisses()                            {}
func (m *navTestMetrics) ObservePersistenceDuration(_ time.Duration) {}

type sentCall struct {
	edited bool
	to     tele.Recipient
	msg    tele.Editable
	what   interface{}
	opts   []interface{}
}

type navTestSender struct {
	calls        []sentCall
	sendErr      error
	sendFailures int
	editErr      error
}

func (s *navTestSender) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	s.calls = append(s.calls, sentCall{to: to, what: what, opts: opts})
	if s.sendErr != nil && s.sendFailures > 0 {
		s.sendFailures--
		return nil, s.sendErr
	}
	return &tele.Message{ID: len(s.calls)}, nil
}

func (s *navTestSender) Edit(msg tele.Editable, what interface{}, opts ...interface{}) (*tele.Message, error) {
	s.calls = append(s.calls, sentCall{edited: true, msg: msg, what: what, opts: opts})
	if s.editErr != nil {
		return nil, s.editErr
	}
	return &tele.Message{ID: len(s.calls)}, nil
}

func newTestNavigator(t *testing.T) (*Navigator, *models.State, *navTestSender, *navTestMetrics) {
	t.Helper()
	state := models.NewState(time.Now())
	sender := &navTestSender{}
	metrics := &navTestMetrics{}
	nav := NewNavigator(state, sender, &navTestLogger{}, metrics)
	return nav, state, sender, metrics
}

func TestNavigator_RenderSendsNewMessage(t *testing.T) {
	nav, state, sender, _ := newTestNavigator(t)
	require.NoError(t, state.Pages.Create("main_page", &models.Page{
		Title:   "Welcome",
		Message: "Pick a section",
		Buttons: [][]models.Button{
			{{Text: "FAQ", Kind: models.ButtonPage, Target: "faq"}},
		},
	}))

	require.NoError(t, nav.Render("main_page", 100, 0))

	require.Len(t, sender.calls, 1)
	call := sender.calls[0]
	assert.False(t, call.edited)
	assert.Equal(t, "<b>Welcome</b>\n\nPick a section", call.what)

	// HTML mode plus the inline keyboard.
	require.Len(t, call.opts, 2)
	assert.Equal(t, tele.ModeHTML, call.opts[0])
	markup, ok := call.opts[1].(*tele.ReplyMarkup)
	require.True(t, ok)
	require.Len(t, markup.InlineKeyboard, 1)
	assert.Equal(t, "page_faq", markup.InlineKeyboard[0][0].Data)
}

func TestNavigator_RenderUntitledPageOmitsHeading(t *testing.T) {
	nav, state, sender, _ := newTestNavigator(t)
	require.NoError(t, state.Pages.Create("plain", &models.Page{Message: "Just text"}))

	require.NoError(t, nav.Render("plain", 100, 0))

	require.Len(t, sender.calls, 1)
	assert.Equal(t, "Just text", sender.calls[0].what)
}

func TestNavigator_RenderEditsInPlace(t *testing.T) {
	nav, state, sender, _ := newTestNavigator(t)
	require.NoError(t, state.Pages.Create("faq", &models.Page{Title: "FAQ", Message: "Answers"}))

	require.NoError(t, nav.Render("faq", 100, 55))

	require.Len(t, sender.calls, 1)
	call := sender.calls[0]
	require.True(t, call.edited)
	stored, ok := call.msg.(*tele.StoredMessage)
	require.True(t, ok)
	assert.Equal(t, "55", stored.MessageID)
	assert.Equal(t, int64(100), stored.ChatID)
}

func TestNavigator_RenderEditFailureSwallowed(t *testing.T) {
	nav, state, sender, _ := newTestNavigator(t)
	require.NoError(t, state.Pages.Create("faq", &models.Page{Title: "FAQ", Message: "Answers"}))
	sender.editErr = errors.New("message is not modified")

	assert.NoError(t, nav.Render("faq", 100, 55))
}

func TestNavigator_RenderMissingPageNotice(t *testing.T) {
	nav, _, sender, _ := newTestNavigator(t)

	require.NoError(t, nav.Render("ghost", 100, 0))

	require.Len(t, sender.calls, 1)
	assert.Equal(t, noticePageNotFound, sender.calls[0].what)
}

func TestNavigator_URLButtonsCarryNoCallback(t *testing.T) {
	nav, state, sender, _ := newTestNavigator(t)
	require.NoError(t, state.Pages.Create("links", &models.Page{
		Title:   "Links",
		Message: "m",
		Buttons: [][]models.Button{
			{{Text: "Site", Kind: models.ButtonURL, Target: "https://example.com"}},
		},
	}))

	require.NoError(t, nav.Render("links", 100, 0))

	markup := sender.calls[0].opts[1].(*tele.ReplyMarkup)
	btn := markup.InlineKeyboard[0][0]
	assert.Equal(t, "https://example.com", btn.URL)
	assert.Empty(t, btn.Data)
}

func TestNavigator_HandleInteractionPage(t *testing.T) {
	nav, state, sender, metrics := newTestNavigator(t)
	require.NoError(t, state.Pages.Create("faq", &models.Page{Title: "FAQ", Message: "Answers"}))

	require.NoError(t, nav.HandleInteraction(100, 55, "page_faq"))

	require.Len(t, sender.calls, 1)
	assert.True(t, sender.calls[0].edited)
	assert.Equal(t, 1, metrics.interactions["page"])
}

func TestNavigator_HandleInteractionText(t *testing.T) {
	nav, _, sender, metrics := newTestNavigator(t)

	require.NoError(t, nav.HandleInteraction(100, 55, "text_Hello there"))

	// Literal replies go out as a fresh message, not an edit.
	require.Len(t, sender.calls, 1)
	assert.False(t, sender.calls[0].edited)
	assert.Equal(t, "Hello there", sender.calls[0].what)
	assert.Equal(t, 1, metrics.interactions["text"])
}

func TestNavigator_HandleInteractionUnknownControl(t *testing.T) {
	nav, _, sender, metrics := newTestNavigator(t)

	require.NoError(t, nav.HandleInteraction(100, 55, "bogus_1"))

	require.Len(t, sender.calls, 1)
	assert.True(t, sender.calls[0].edited)
	assert.Equal(t, noticeUnknownControl, sender.calls[0].what)
	assert.Equal(t, 1, metrics.interactions["unknown"])
}

func TestNavigator_HandleInteractionTrimsPayload(t *testing.T) {
	nav, state, sender, _ := newTestNavigator(t)
	require.NoError(t, state.Pages.Create("faq", &models.Page{Title: "FAQ", Message: "A"}))

	require.NoError(t, nav.HandleInteraction(100, 55, "\fpage_faq"))
	require.Len(t, sender.calls, 1)
	assert.True(t, sender.calls[0].edited)
}

func TestNavigator_DeliverFilePhoto(t *testing.T) {
	nav, state, sender, _ := newTestNavigator(t)
	require.NoError(t, state.Files.Put(&models.FileRecord{
		ID: "42", Name: "sunset.jpg", MimeType: "image/jpeg", TransportHandle: "tg-photo",
	}))

	require.NoError(t, nav.HandleInteraction(100, 55, "file_42"))

	require.Len(t, sender.calls, 1)
	photo, ok := sender.calls[0].what.(*tele.Photo)
	require.True(t, ok)
	assert.Equal(t, "tg-photo", photo.FileID)
}

func TestNavigator_DeliverFileDocumentKeepsName(t *testing.T) {
	nav, state, sender, _ := newTestNavigator(t)
	require.NoError(t, state.Files.Put(&models.FileRecord{
		ID: "7", Name: "guide.pdf", MimeType: "application/pdf", TransportHandle: "tg-doc",
	}))

	require.NoError(t, nav.HandleInteraction(100, 55, "file_7"))

	doc, ok := sender.calls[0].what.(*tele.Document)
	require.True(t, ok)
	assert.Equal(t, "guide.pdf", doc.FileName)
}

func TestNavigator_DeliverDanglingFileNotice(t *testing.T) {
	nav, _, sender, _ := newTestNavigator(t)

	require.NoError(t, nav.HandleInteraction(100, 55, "file_999"))

	require.Len(t, sender.calls, 1)
	assert.False(t, sender.calls[0].edited)
	assert.Equal(t, noticeFileUnavailable, sender.calls[0].what)
}

func TestNavigator_DeliverFileTransportFailureNotice(t *testing.T) {
	nav, state, sender, _ := newTestNavigator(t)
	require.NoError(t, state.Files.Put(&models.FileRecord{
		ID: "42", Name: "a.jpg", MimeType: "image/jpeg", TransportHandle: "h",
	}))
	sender.sendErr = errors.New("wrong file identifier")
	sender.sendFailures = 1

	require.NoError(t, nav.HandleInteraction(100, 55, "file_42"))

	// First the failed media send, then the degradation notice.
	require.Len(t, sender.calls, 2)
	assert.Equal(t, noticeFileUnavailable, sender.calls[1].what)
}
