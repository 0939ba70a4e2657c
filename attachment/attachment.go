// Package attachment converts user-supplied files into the self-contained
// encoded form the backend accepts, and back into bytes for display. An
// attachment is always fully materialized: there is no streaming or chunked
// upload at this layer.
package attachment

import (
	"encoding/base64"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// ErrFileRead marks a failed read of the underlying file. Callers surface it
// without touching their pending-attachment state.
var ErrFileRead = errors.New("reading attachment file")

// Kind classifies an attachment for the backend.
type Kind string

const (
	KindImage Kind = "image"
	KindFile  Kind = "file"
	KindAudio Kind = "audio"
)

// Attachment is a user-supplied artifact bound to a single user message.
type Attachment struct {
	Kind      Kind
	MediaType string
	// Data is the base64-encoded payload, ready to ship in one request body.
	Data string
	Name string
}

// FromFile reads a file and encodes it into an Attachment. Media type comes
// from the extension, falling back to content sniffing. Anything that is not
// an image is classified as a plain file; audio attachments are tagged by the
// voice-capture path, never here.
func FromFile(path string) (*Attachment, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(ErrFileRead, err.Error())
	}

	mediaType := mime.TypeByExtension(filepath.Ext(path))
	if mediaType == "" {
		mediaType = http.DetectContentType(raw)
	}
	// Strip any parameters ("; charset=utf-8") off the media type.
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = strings.TrimSpace(mediaType[:i])
	}

	return &Attachment{
		Kind:      classify(mediaType),
		MediaType: mediaType,
		Data:      base64.StdEncoding.EncodeToString(raw),
		Name:      filepath.Base(path),
	}, nil
}

// FromAudio wraps an already-captured voice clip.
func FromAudio(name, mediaType string, raw []byte) *Attachment {
	return &Attachment{
		Kind:      KindAudio,
		MediaType: mediaType,
		Data:      base64.StdEncoding.EncodeToString(raw),
		Name:      name,
	}
}

// Decode returns the original payload bytes.
func (a *Attachment) Decode() ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(a.Data)
	if err != nil {
		return nil, errors.Wrap(err, "decoding attachment payload")
	}
	return raw, nil
}

func classify(mediaType string) Kind {
	if strings.HasPrefix(mediaType, "image/") {
		return KindImage
	}
	return KindFile
}
