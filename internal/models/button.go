package models

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
)

// ButtonKind discriminates the four button variants. The kind is fixed at
// construction; the prefixed callback string exists only on the wire.
type ButtonKind string

const (
	ButtonPage ButtonKind = "page"
	ButtonFile ButtonKind = "file"
	ButtonText ButtonKind = "text"
	ButtonURL  ButtonKind = "url"
)

const (
	prefixPage = "page_"
	prefixFile = "file_"
	prefixText = "text_"
)

type Button struct {
	Text   string
	Kind   ButtonKind
	Target string
}

// NewButton validates the kind/target pair.
func NewButton(text string, kind ButtonKind, target string) (Button, error) {
	if text == "" {
		return Button{}, fmt.Errorf("%w: button text is required", ErrInvalid)
	}
	switch kind {
	case ButtonPage, ButtonFile, ButtonText, ButtonURL:
	default:
		return Button{}, fmt.Errorf("%w: unknown button kind %q", ErrInvalid, kind)
	}
	if target == "" {
		return Button{}, fmt.Errorf("%w: button target is required", ErrInvalid)
	}
	return Button{Text: text, Kind: kind, Target: target}, nil
}

// EncodeCallback produces the wire form of a non-URL button payload.
func EncodeCallback(kind ButtonKind, target string) string {
	switch kind {
	case ButtonPage:
		return prefixPage + target
	case ButtonFile:
		return prefixFile + target
	case ButtonText:
		return prefixText + target
	}
	return ""
}

// DecodeCallback parses an inbound callback payload. Returns ok=false for
// unrecognized prefixes; callers fall back to the unknown-control notice.
func DecodeCallback(payload string) (ButtonKind, string, bool) {
	switch {
	case strings.HasPrefix(payload, prefixPage):
		return ButtonPage, payload[len(prefixPage):], true
	case strings.HasPrefix(payload, prefixFile):
		return ButtonFile, payload[len(prefixFile):], true
	case strings.HasPrefix(payload, prefixText):
		return ButtonText, payload[len(prefixText):], true
	}
	return "", "", false
}

// buttonWire is the admin-API JSON shape: either callback_data (prefixed)
// or url is present, matching what the chat transport round-trips.
type buttonWire struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data,omitempty"`
	URL          string `json:"url,omitempty"`
}

func (b Button) MarshalJSON() ([]byte, error) {
	w := buttonWire{Text: b.Text}
	if b.Kind == ButtonURL {
		w.URL = b.Target
	} else {
		w.CallbackData = EncodeCallback(b.Kind, b.Target)
	}
	return json.Marshal(w)
}

func (b *Button) UnmarshalJSON(data []byte) error {
	var w buttonWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	parsed, err := ButtonFromWire(w.Text, w.CallbackData, w.URL)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// ButtonFromWire builds a Button from the admin-API field pair. Exactly one
// of callbackData/url must be set.
func ButtonFromWire(text, callbackData, url string) (Button, error) {
	if callbackData != "" && url != "" {
		return Button{}, fmt.Errorf("%w: button carries both callback_data and url", ErrInvalid)
	}
	if url != "" {
		return NewButton(text, ButtonURL, url)
	}
	kind, target, ok := DecodeCallback(callbackData)
	if !ok {
		return Button{}, fmt.Errorf("%w: unrecognized callback_data %q", ErrInvalid, callbackData)
	}
	return NewButton(text, kind, target)
}
