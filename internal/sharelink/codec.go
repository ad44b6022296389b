// Package sharelink encodes character records into URL-safe share payloads.
//
// A payload is the record's JSON, compressed with zstd and encoded as unpadded
// base64url, so it can travel in a query parameter without escaping.
package sharelink

import (
	"encoding/base64"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/KirkDiggler/agency-api/internal/entities/agency"
	"github.com/KirkDiggler/agency-api/internal/errors"
)

const (
	// QueryParam is the query parameter that carries a payload in a share URL
	QueryParam = "share"

	// DefaultMaxDecodedSize bounds the decompressed size of a payload
	DefaultMaxDecodedSize = 4 << 20
)

var encoding = base64.RawURLEncoding

// Config configures a Codec
type Config struct {
	// BaseURL is the page a share URL points at, e.g. https://sheet.example.com/
	BaseURL string
	// MaxDecodedSize caps decompression; zero means DefaultMaxDecodedSize
	MaxDecodedSize uint64
}

// Validate ensures the configuration is valid
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}
	vb := errors.NewValidationBuilder()
	if c.BaseURL != "" {
		if _, err := url.Parse(c.BaseURL); err != nil {
			vb.InvalidField("base_url", err.Error())
		}
	}
	return vb.Build()
}

// Codec compresses and decompresses share payloads. It is safe for concurrent use.
type Codec struct {
	baseURL string
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// New creates a Codec
func New(cfg *Config) (*Codec, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid share codec config")
	}

	maxSize := cfg.MaxDecodedSize
	if maxSize == 0 {
		maxSize = DefaultMaxDecodedSize
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to create zstd encoder")
	}
	decoder, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxSize))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to create zstd decoder")
	}

	return &Codec{
		baseURL: cfg.BaseURL,
		encoder: encoder,
		decoder: decoder,
	}, nil
}

// Close releases the decoder's resources
func (c *Codec) Close() {
	c.decoder.Close()
}

// EncodeBytes compresses arbitrary JSON into a payload
func (c *Codec) EncodeBytes(data []byte) string {
	return encoding.EncodeToString(c.encoder.EncodeAll(data, nil))
}

// DecodeBytes reverses EncodeBytes. Turning the JSON back into a record is left to the
// conversion service, which also understands payloads from older releases.
func (c *Codec) DecodeBytes(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, errors.InvalidArgument("share payload is required")
	}

	compressed, err := encoding.DecodeString(payload)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "invalid share link")
	}

	data, err := c.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "invalid share link")
	}
	return data, nil
}

// Encode serialises a character into a payload
func (c *Codec) Encode(character *agency.Character) (string, error) {
	if character == nil {
		return "", errors.InvalidArgument("character is required")
	}

	data, err := json.Marshal(character)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.CodeInternal, "failed to marshal character")
	}
	return c.EncodeBytes(data), nil
}

// URL builds a share URL for a payload. Without a base URL only the query string is returned.
func (c *Codec) URL(payload string) string {
	query := url.Values{QueryParam: []string{payload}}.Encode()
	if c.baseURL == "" {
		return "?" + query
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return c.baseURL + "?" + query
	}
	q := u.Query()
	q.Set(QueryParam, payload)
	u.RawQuery = q.Encode()
	return u.String()
}

// PayloadFromURL extracts the payload from a share URL or a bare query string
func PayloadFromURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", errors.WrapWithCode(err, errors.CodeInvalidArgument, "invalid share URL")
	}
	payload := u.Query().Get(QueryParam)
	if payload == "" {
		return "", errors.InvalidArgument("share URL has no payload")
	}
	return payload, nil
}
