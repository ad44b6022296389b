// Package exporter renders character records as downloadable files.
package exporter

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/KirkDiggler/agency-api/internal/entities/agency"
	"github.com/KirkDiggler/agency-api/internal/errors"
)

// Format selects an export encoding
type Format string

// Supported export formats
const (
	FormatJSON Format = "json"
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
)

// DataScriptID is the id of the script element carrying the record in HTML exports
const DataScriptID = "character-data"

// ContentType returns the MIME type for the format
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

var unsafeFilenameChars = strings.NewReplacer(
	"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
	"\"", "_", "<", "_", ">", "_", "|", "_",
)

// Filename builds "<name>_<YYYY-MM-DD>.<ext>", falling back to the default name when
// the character is unnamed
func Filename(name string, date time.Time, format Format) string {
	name = strings.TrimSpace(norm.NFC.String(name))
	if name == "" {
		name = agency.DefaultExportName
	}
	name = unsafeFilenameChars.Replace(name)
	return name + "_" + date.UTC().Format(time.DateOnly) + "." + string(format)
}

// JSON returns the record indented with two spaces
func JSON(character *agency.Character) ([]byte, error) {
	if character == nil {
		return nil, errors.InvalidArgument("character is required")
	}
	data, err := json.MarshalIndent(character, "", "  ")
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to marshal character")
	}
	return data, nil
}

// HTML renders a self-contained page with a static view of the record and the record
// itself inlined as JSON
func HTML(ctx context.Context, character *agency.Character) ([]byte, error) {
	if character == nil {
		return nil, errors.InvalidArgument("character is required")
	}

	var buf bytes.Buffer
	if err := Page(character).Render(ctx, &buf); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to render character page")
	}
	return buf.Bytes(), nil
}

// Render writes the export in the given format
func Render(ctx context.Context, w io.Writer, character *agency.Character, format Format) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatJSON:
		data, err = JSON(character)
	case FormatHTML:
		data, err = HTML(ctx, character)
	case FormatPDF:
		return errors.Unimplemented("PDF export is not supported")
	default:
		return errors.InvalidArgumentf("unknown export format %q", format)
	}
	if err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, "failed to write export")
	}
	return nil
}

var embeddedData = regexp.MustCompile(`(?s)<script[^>]*\bid="` + DataScriptID + `"[^>]*>(.*?)</script>`)

// ExtractEmbedded returns the JSON record inlined in an HTML export
func ExtractEmbedded(page []byte) ([]byte, error) {
	match := embeddedData.FindSubmatch(page)
	if match == nil {
		return nil, errors.InvalidArgument("no character data found in page")
	}

	data := bytes.TrimSpace(match[1])
	if !json.Valid(data) {
		return nil, errors.InvalidArgument("invalid JSON file")
	}
	return data, nil
}
