package media

import "encoding/base64"

// Kind identifies the media category of a payload
type Kind string

const (
	KindImage Kind = "image"
	KindAudio Kind = "audio"
	KindVideo Kind = "video"
)

// Default MIME types used when neither the client nor sniffing provides one
const (
	DefaultImageMIME = "image/jpeg"
	DefaultVideoMIME = "video/mp4"
	DefaultAudioMIME = "audio/mp4"

	DefaultAudioFilename = "audio.m4a"
)

// AllowedAudioExtensions lists the accepted extensions for direct audio uploads
var AllowedAudioExtensions = []string{".mp3", ".wav", ".m4a"}

// Limits holds the payload ceilings enforced before any outbound call.
// Encoded limits count base64 characters, upload limits count raw bytes.
type Limits struct {
	MaxImageEncoded int64
	MaxVideoEncoded int64
	MaxAudioEncoded int64
	MaxAudioUpload  int64
}

// DefaultLimits returns the ceilings used when nothing is configured
func DefaultLimits() Limits {
	return Limits{
		MaxImageEncoded: 4_000_000,
		MaxVideoEncoded: 4_500_000,
		MaxAudioEncoded: 10_000_000,
		MaxAudioUpload:  10 * 1024 * 1024,
	}
}

// Payload is a validated media blob. It is built per request and discarded
// after the response is written.
type Payload struct {
	Kind         Kind
	Data         []byte // Decoded bytes
	EncodedSize  int    // Length of the base64 text as received, 0 for uploads
	DeclaredMIME string // MIME type supplied by the client, if any
	SniffedMIME  string // MIME type detected from the content
	Filename     string // Sanitized filename for uploads

	mime    string
	encoded string
}

// MIME returns the MIME type to send upstream
func (p *Payload) MIME() string {
	return p.mime
}

// Size returns the decoded size in bytes
func (p *Payload) Size() int {
	return len(p.Data)
}

// Base64 returns the payload in standard base64 encoding, reusing the
// client's text when it was already standard encoded
func (p *Payload) Base64() string {
	if p.encoded == "" && len(p.Data) > 0 {
		p.encoded = base64.StdEncoding.EncodeToString(p.Data)
	}
	return p.encoded
}
