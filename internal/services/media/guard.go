package media

import (
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/killallgit/media-gateway/pkg/errors"
)

// Guard validates client media before it is relayed anywhere. It never
// mutates its input.
type Guard struct {
	limits Limits
}

// NewGuard creates a guard enforcing the given limits. Zero limits fall
// back to the defaults.
func NewGuard(limits Limits) *Guard {
	defaults := DefaultLimits()
	if limits.MaxImageEncoded <= 0 {
		limits.MaxImageEncoded = defaults.MaxImageEncoded
	}
	if limits.MaxVideoEncoded <= 0 {
		limits.MaxVideoEncoded = defaults.MaxVideoEncoded
	}
	if limits.MaxAudioEncoded <= 0 {
		limits.MaxAudioEncoded = defaults.MaxAudioEncoded
	}
	if limits.MaxAudioUpload <= 0 {
		limits.MaxAudioUpload = defaults.MaxAudioUpload
	}
	return &Guard{limits: limits}
}

// Limits returns the limits in effect
func (g *Guard) Limits() Limits {
	return g.limits
}

// ValidateText checks that a required text field is present
func (g *Guard) ValidateText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.Validation(fmt.Sprintf("%s not provided", field))
	}
	return nil
}

// ValidateImage checks a base64 image. The upstream MIME type is the sniffed
// image type, or image/jpeg when the content is not recognised.
func (g *Guard) ValidateImage(b64 string) (*Payload, error) {
	if b64 == "" {
		return nil, errors.Validation("Image not provided")
	}
	if int64(len(b64)) > g.limits.MaxImageEncoded {
		return nil, errors.TooLarge("Image too large", int64(len(b64)), g.limits.MaxImageEncoded)
	}

	p, err := decodePayload(KindImage, b64)
	if err != nil {
		return nil, err
	}

	dataURLType := mediaType(p.DeclaredMIME)
	switch {
	case strings.HasPrefix(p.SniffedMIME, "image/"):
		p.mime = p.SniffedMIME
	case strings.HasPrefix(dataURLType, "image/"):
		p.mime = dataURLType
	default:
		p.mime = DefaultImageMIME
	}
	return p, nil
}

// ValidateVideo checks a base64 video with an optional declared MIME type
func (g *Guard) ValidateVideo(b64, declaredMIME string) (*Payload, error) {
	if b64 == "" {
		return nil, errors.Validation("Video not provided")
	}
	if int64(len(b64)) > g.limits.MaxVideoEncoded {
		return nil, errors.TooLarge("Video too large", int64(len(b64)), g.limits.MaxVideoEncoded)
	}

	mime := mediaType(declaredMIME)
	if mime != "" && !strings.HasPrefix(mime, "video/") {
		return nil, errors.UnsupportedFormat(fmt.Sprintf("Unsupported video mime type: %s", declaredMIME))
	}

	p, err := decodePayload(KindVideo, b64)
	if err != nil {
		return nil, err
	}

	// An explicit mime_type wins over the data URL type
	if mime == "" && p.DeclaredMIME != "" {
		mime = mediaType(p.DeclaredMIME)
		if !strings.HasPrefix(mime, "video/") {
			return nil, errors.UnsupportedFormat(fmt.Sprintf("Unsupported video mime type: %s", p.DeclaredMIME))
		}
	} else if declaredMIME != "" {
		p.DeclaredMIME = declaredMIME
	}
	if mime == "" {
		mime = DefaultVideoMIME
	}
	p.mime = mime
	return p, nil
}

// ValidateAudioData checks base64 audio sent in a JSON body
func (g *Guard) ValidateAudioData(b64, declaredMIME string) (*Payload, error) {
	if b64 == "" {
		return nil, errors.Validation("Audio data not provided")
	}
	if int64(len(b64)) > g.limits.MaxAudioEncoded {
		return nil, errors.TooLarge("Audio too large", int64(len(b64)), g.limits.MaxAudioEncoded)
	}

	mime := mediaType(declaredMIME)
	if mime != "" && !strings.HasPrefix(mime, "audio/") {
		return nil, errors.UnsupportedFormat(fmt.Sprintf("Unsupported audio mime type: %s", declaredMIME))
	}

	p, err := decodePayload(KindAudio, b64)
	if err != nil {
		return nil, err
	}

	if mime == "" && p.DeclaredMIME != "" {
		mime = mediaType(p.DeclaredMIME)
		if !strings.HasPrefix(mime, "audio/") {
			return nil, errors.UnsupportedFormat(fmt.Sprintf("Unsupported audio mime type: %s", p.DeclaredMIME))
		}
	} else if declaredMIME != "" {
		p.DeclaredMIME = declaredMIME
	}

	switch {
	case mime != "":
		p.mime = mime
	case strings.HasPrefix(p.SniffedMIME, "audio/"):
		p.mime = p.SniffedMIME
	default:
		p.mime = DefaultAudioMIME
	}
	return p, nil
}

// ValidateAudioUpload checks a multipart audio upload and reads its content.
// Extension is checked before size so a wrong format is reported as such.
func (g *Guard) ValidateAudioUpload(fh *multipart.FileHeader) (*Payload, error) {
	if fh == nil {
		return nil, errors.Validation("Audio file missing (field name must be 'file')")
	}

	filename := SanitizeFilename(fh.Filename)
	if filename == "" {
		filename = DefaultAudioFilename
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !isAllowedAudioExtension(ext) {
		return nil, errors.UnsupportedFormat(fmt.Sprintf("Unsupported file format: %s. Use .mp3, .wav, or .m4a", ext))
	}

	if fh.Size > g.limits.MaxAudioUpload {
		return nil, errors.TooLarge(fmt.Sprintf("Audio file too large (>%d MB)", g.limits.MaxAudioUpload/(1024*1024)),
			fh.Size, g.limits.MaxAudioUpload)
	}

	file, err := fh.Open()
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("open upload: %w", err))
	}
	defer file.Close()

	// Read one byte past the limit in case the header under-reports the size
	data, err := io.ReadAll(io.LimitReader(file, g.limits.MaxAudioUpload+1))
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("read upload: %w", err))
	}
	if int64(len(data)) > g.limits.MaxAudioUpload {
		return nil, errors.TooLarge(fmt.Sprintf("Audio file too large (>%d MB)", g.limits.MaxAudioUpload/(1024*1024)),
			int64(len(data)), g.limits.MaxAudioUpload)
	}
	if len(data) == 0 {
		return nil, errors.Validation("Audio file is empty")
	}

	declared := fh.Header.Get("Content-Type")
	p := &Payload{
		Kind:         KindAudio,
		Data:         data,
		DeclaredMIME: declared,
		SniffedMIME:  mimetype.Detect(data).String(),
		Filename:     filename,
	}

	switch ext {
	case ".mp3":
		p.mime = "audio/mpeg"
	case ".wav":
		p.mime = "audio/wav"
	default:
		if declared != "" && declared != "application/octet-stream" {
			p.mime = declared
		} else {
			p.mime = DefaultAudioMIME
		}
	}
	return p, nil
}

// decodePayload decodes base64 text, accepting an optional data URL prefix
func decodePayload(kind Kind, b64 string) (*Payload, error) {
	p := &Payload{Kind: kind, EncodedSize: len(b64)}

	text := b64
	if strings.HasPrefix(text, "data:") {
		header, body, ok := strings.Cut(text, ",")
		if !ok || !strings.HasSuffix(header, ";base64") {
			return nil, errors.Validation(fmt.Sprintf("%s data URL must be base64 encoded", capitalize(string(kind))))
		}
		p.DeclaredMIME = strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
		text = body
	}
	text = strings.TrimSpace(text)
	// Line-wrapped base64 decodes fine but must not be forwarded wrapped
	if strings.ContainsAny(text, " \t\r\n") {
		text = strings.Join(strings.Fields(text), "")
	}

	data, err := base64.StdEncoding.DecodeString(text)
	if err == nil {
		p.encoded = text
	} else {
		// Unpadded input is tolerated and re-encoded on demand
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(text, "="))
		if err != nil {
			return nil, errors.Validation(fmt.Sprintf("%s is not valid base64", capitalize(string(kind)))).WithCause(err)
		}
	}
	if len(data) == 0 {
		return nil, errors.Validation(fmt.Sprintf("%s is empty", capitalize(string(kind))))
	}

	p.Data = data
	p.SniffedMIME = mimetype.Detect(data).String()
	return p, nil
}

// mediaType lowercases a MIME type and drops its parameters
func mediaType(mime string) string {
	mime, _, _ = strings.Cut(mime, ";")
	return strings.ToLower(strings.TrimSpace(mime))
}

func isAllowedAudioExtension(ext string) bool {
	for _, allowed := range AllowedAudioExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// SanitizeFilename reduces a client filename to a safe base name made of
// ASCII letters, digits, dots, dashes and underscores
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	if name == "." || name == "/" {
		return ""
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	return strings.TrimLeft(b.String(), "._")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
