package telegram

import (
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v3"

	"pagebot/internal/models"
	"pagebot/internal/providers"
)

const (
	noticePageNotFound    = "This page is not available."
	noticeFileUnavailable = "Sorry, this file is unavailable."
	noticeUnknownControl  = "This control is no longer recognized."
)

// Sender is the slice of the transport the navigation engine needs.
// *tele.Bot satisfies it; tests use a recording mock.
type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
	Edit(msg tele.Editable, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Navigator renders pages into chat messages and dispatches inline-button
// interactions. It holds no session state: the current page of a chat
// lives in the chat's message itself, and the caller always supplies the
// message id from the inbound event.
type Navigator struct {
	state   *models.State
	sender  Sender
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewNavigator(state *models.State, sender Sender, logger providers.Logger, metrics providers.MetricsProviderInterface) *Navigator {
	return &Navigator{state: state, sender: sender, logger: logger, metrics: metrics}
}

func storedMessage(chatID int64, messageID int) tele.Editable {
	return &tele.StoredMessage{MessageID: strconv.Itoa(messageID), ChatID: chatID}
}

// Render shows pageKey in the given chat. With messageID set the existing
// message is edited in place so navigation does not grow the chat
// history; edit failures (identical text, message too old) are swallowed
// and logged, never surfaced to the user.
func (n *Navigator) Render(pageKey string, chatID int64, messageID int) error {
	page, ok := n.state.Pages.Get(pageKey)
	if !ok {
		n.logger.Warnf(providers.TypeBot, "Page %q not found for chat %d", pageKey, chatID)
		return n.deliver(chatID, messageID, noticePageNotFound, nil)
	}

	text := page.Message
	if page.Title != "" {
		text = "<b>" + page.Title + "</b>\n\n" + page.Message
	}
	return n.deliver(chatID, messageID, text, buildMarkup(page))
}

func (n *Navigator) deliver(chatID int64, messageID int, text string, markup *tele.ReplyMarkup) error {
	opts := []interface{}{tele.ModeHTML}
	if markup != nil {
		opts = append(opts, markup)
	}
	if messageID != 0 {
		if _, err := n.sender.Edit(storedMessage(chatID, messageID), text, opts...); err != nil {
			n.logger.Warnf(providers.TypeBot, "Edit of message %d in chat %d failed: %s", messageID, chatID, err)
		}
		return nil
	}
	if _, err := n.sender.Send(tele.ChatID(chatID), text, opts...); err != nil {
		n.logger.Errorf(providers.TypeBot, "Send to chat %d failed: %s", chatID, err)
		return err
	}
	return nil
}

func buildMarkup(page *models.Page) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	rows := make([][]tele.InlineButton, 0, len(page.Buttons))
	for _, row := range page.Buttons {
		btns := make([]tele.InlineButton, 0, len(row))
		for _, b := range row {
			if b.Kind == models.ButtonURL {
				btns = append(btns, tele.InlineButton{Text: b.Text, URL: b.Target})
				continue
			}
			btns = append(btns, tele.InlineButton{Text: b.Text, Data: models.EncodeCallback(b.Kind, b.Target)})
		}
		if len(btns) > 0 {
			rows = append(rows, btns)
		}
	}
	markup.InlineKeyboard = rows
	return markup
}

// HandleInteraction decodes an inbound callback payload and performs the
// page transition, file delivery or literal reply it names. Unrecognized
// payloads edit the message into the unknown-control notice. The caller
// has already acknowledged the callback.
func (n *Navigator) HandleInteraction(chatID int64, messageID int, payload string) error {
	kind, target, ok := models.DecodeCallback(strings.TrimSpace(payload))
	if !ok {
		n.metrics.IncInteractions("unknown")
		n.logger.Warnf(providers.TypeBot, "Unknown callback payload %q from chat %d", payload, chatID)
		return n.deliver(chatID, messageID, noticeUnknownControl, nil)
	}

	switch kind {
	case models.ButtonPage:
		n.metrics.IncInteractions("page")
		return n.Render(target, chatID, messageID)
	case models.ButtonFile:
		n.metrics.IncInteractions("file")
		return n.deliverFile(target, chatID)
	case models.ButtonText:
		n.metrics.IncInteractions("text")
		return n.deliver(chatID, 0, target, nil)
	}
	return nil
}

// deliverFile sends the referenced media by transport handle, choosing
// the operation by MIME class. Dangling references and transport
// rejections degrade to a notice; the existing page message stays put.
func (n *Navigator) deliverFile(fileID string, chatID int64) error {
	rec, ok := n.state.Files.Get(fileID)
	if !ok {
		n.logger.Warnf(providers.TypeBot, "File %q not found for chat %d", fileID, chatID)
		return n.deliver(chatID, 0, noticeFileUnavailable, nil)
	}

	media := mediaFor(rec)
	if _, err := n.sender.Send(tele.ChatID(chatID), media); err != nil {
		n.logger.Errorf(providers.TypeBot, "Delivery of file %q to chat %d failed: %s", fileID, chatID, err)
		return n.deliver(chatID, 0, noticeFileUnavailable, nil)
	}
	return nil
}

func mediaFor(rec *models.FileRecord) interface{} {
	file := tele.File{FileID: rec.TransportHandle}
	switch mimeClass(rec.MimeType) {
	case classPhoto:
		return &tele.Photo{File: file}
	case classVideo:
		return &tele.Video{File: file}
	case classAudio:
		return &tele.Audio{File: file}
	}
	return &tele.Document{File: file, FileName: rec.Name}
}
