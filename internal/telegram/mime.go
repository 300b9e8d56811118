package telegram

import "strings"

const (
	classPhoto    = "photo"
	classVideo    = "video"
	classAudio    = "audio"
	classDocument = "document"
)

func mimeClass(mimeType string) string {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return classPhoto
	case strings.HasPrefix(mimeType, "video/"):
		return classVideo
	case strings.HasPrefix(mimeType, "audio/"):
		return classAudio
	}
	return classDocument
}
