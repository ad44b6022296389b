// Package web serves the character service over plain HTTP for browsers: share links,
// file import and file export.
package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/KirkDiggler/agency-api/internal/errors"
	"github.com/KirkDiggler/agency-api/internal/exporter"
	"github.com/KirkDiggler/agency-api/internal/handlers/agency/v1alpha1"
	"github.com/KirkDiggler/agency-api/internal/orchestrators/character"
	"github.com/KirkDiggler/agency-api/internal/sharelink"
)

// DefaultMaxUploadSize caps import bodies
const DefaultMaxUploadSize = 10 << 20

// Config holds dependencies for the HTTP router
type Config struct {
	CharacterService character.Service
	// AllowedOrigins defaults to any origin
	AllowedOrigins []string
	// MaxUploadSize defaults to DefaultMaxUploadSize
	MaxUploadSize int64
}

// Validate ensures all required dependencies are present
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}
	vb := errors.NewValidationBuilder()
	if c.CharacterService == nil {
		vb.RequiredField("CharacterService")
	}
	if c.MaxUploadSize < 0 {
		vb.InvalidField("MaxUploadSize", "must not be negative")
	}
	return vb.Build()
}

type handler struct {
	characterService character.Service
	maxUploadSize    int64
}

// NewRouter builds the HTTP routes
func NewRouter(cfg *Config) (http.Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"https://*", "http://*"}
	}
	maxUpload := cfg.MaxUploadSize
	if maxUpload == 0 {
		maxUpload = DefaultMaxUploadSize
	}

	h := &handler{
		characterService: cfg.CharacterService,
		maxUploadSize:    maxUpload,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", h.handleHealth)
	r.Get("/catalog", h.handleCatalog)

	r.Get("/share", h.handleSharePreview)
	r.Post("/share/import", h.handleShareImport)

	r.Route("/characters", func(cr chi.Router) {
		cr.Get("/", h.handleList)
		cr.Post("/", h.handleCreate)
		cr.Delete("/", h.handleClear)
		cr.Get("/current", h.handleGetCurrent)
		cr.Post("/import", h.handleImport)

		cr.Route("/{id}", func(ir chi.Router) {
			ir.Get("/", h.handleGet)
			ir.Patch("/", h.handleUpdate)
			ir.Delete("/", h.handleDelete)
			ir.Post("/current", h.handleSetCurrent)
			ir.Post("/save", h.handleSave)
			ir.Get("/export", h.handleExport)
			ir.Get("/share", h.handleShare)
		})
	})

	return r, nil
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) handleCatalog(w http.ResponseWriter, r *http.Request) {
	out, err := h.characterService.ListCatalog(r.Context(), &character.ListCatalogInput{})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, &v1alpha1.CatalogResponse{Catalog: out.Catalog, BonusOptions: out.BonusOptions})
}

func (h *handler) handleList(w http.ResponseWriter, r *http.Request) {
	out, err := h.characterService.ListCharacters(r.Context(), &character.ListCharactersInput{})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, &v1alpha1.ListCharactersResponse{Characters: out.Characters, CurrentID: out.CurrentID})
}

func (h *handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req v1alpha1.CreateCharacterRequest
	if r.ContentLength != 0 {
		if err := h.decodeBody(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
	}

	out, err := h.characterService.CreateCharacter(r.Context(), &character.CreateCharacterInput{
		Name:        req.Name,
		MakeCurrent: req.MakeCurrent,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, &v1alpha1.CharacterResponse{Character: out.Character})
}

func (h *handler) handleClear(w http.ResponseWriter, r *http.Request) {
	out, err := h.characterService.ClearCharacters(r.Context(), &character.ClearCharactersInput{})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, &v1alpha1.ClearCharactersResponse{Deleted: out.Deleted})
}

func (h *handler) handleGetCurrent(w http.ResponseWriter, r *http.Request) {
	out, err := h.characterService.GetCurrentCharacter(r.Context(), &character.GetCurrentCharacterInput{})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, &v1alpha1.CharacterResponse{Character: out.Character, Created: out.Created})
}

func (h *handler) handleGet(w http.ResponseWriter, r *http.Request) {
	out, err := h.characterService.GetCharacter(r.Context(), &character.GetCharacterInput{ID: chi.URLParam(r, "id")})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, &v1alpha1.CharacterResponse{Character: out.Character})
}

func (h *handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req v1alpha1.UpdateCharacterRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	out, err := h.characterService.UpdateCharacter(r.Context(), &character.UpdateCharacterInput{
		ID:        chi.URLParam(r, "id"),
		Mutations: req.Mutations,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, &v1alpha1.UpdateCharacterResponse{
		Character:  out.Character,
		Changed:    out.Changed,
		CreatedIDs: out.CreatedIDs,
	})
}

func (h *handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	_, err := h.characterService.DeleteCharacter(r.Context(), &character.DeleteCharacterInput{ID: chi.URLParam(r, "id")})
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) handleSetCurrent(w http.ResponseWriter, r *http.Request) {
	out, err := h.characterService.SetCurrentCharacter(r.Context(), &character.SetCurrentCharacterInput{ID: chi.URLParam(r, "id")})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, &v1alpha1.CharacterResponse{Character: out.Character})
}

func (h *handler) handleSave(w http.ResponseWriter, r *http.Request) {
	out, err := h.characterService.SaveCharacter(r.Context(), &character.SaveCharacterInput{ID: chi.URLParam(r, "id")})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, &v1alpha1.CharacterResponse{Character: out.Character})
}

// handleImport accepts a character file as the raw body or as the "file" field of a
// multipart form.
func (h *handler) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := h.readUpload(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out, err := h.characterService.ImportCharacter(r.Context(), &character.ImportCharacterInput{
		Data:        data,
		MakeCurrent: queryBool(r, "current"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, &v1alpha1.CharacterResponse{Character: out.Character})
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	format := exporter.Format(r.URL.Query().Get("format"))
	if format == "" {
		format = exporter.FormatJSON
	}

	out, err := h.characterService.ExportCharacter(r.Context(), &character.ExportCharacterInput{
		ID:     chi.URLParam(r, "id"),
		Format: format,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", out.ContentType)
	w.Header().Set("Content-Disposition", contentDisposition(out.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out.Data)
}

func (h *handler) handleShare(w http.ResponseWriter, r *http.Request) {
	out, err := h.characterService.EncodeShareLink(r.Context(), &character.EncodeShareLinkInput{ID: chi.URLParam(r, "id")})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, &v1alpha1.ShareLinkResponse{Payload: out.Payload, URL: out.URL})
}

// handleSharePreview renders a shared character as a read-only page
func (h *handler) handleSharePreview(w http.ResponseWriter, r *http.Request) {
	payload := r.URL.Query().Get(sharelink.QueryParam)
	if payload == "" {
		writeError(w, r, errors.InvalidArgument("share parameter is required"))
		return
	}

	out, err := h.characterService.DecodeShareLink(r.Context(), &character.DecodeShareLinkInput{Payload: payload})
	if err != nil {
		writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := exporter.Render(r.Context(), &buf, out.Character, exporter.FormatHTML); err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", exporter.FormatHTML.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *handler) handleShareImport(w http.ResponseWriter, r *http.Request) {
	payload := r.URL.Query().Get(sharelink.QueryParam)
	if payload == "" {
		writeError(w, r, errors.InvalidArgument("share parameter is required"))
		return
	}

	out, err := h.characterService.DecodeShareLink(r.Context(), &character.DecodeShareLinkInput{
		Payload:     payload,
		Import:      true,
		MakeCurrent: queryBool(r, "current"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, &v1alpha1.DecodeShareLinkResponse{Character: out.Character, Imported: out.Imported})
}

func (h *handler) decodeBody(r *http.Request, msg any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, h.maxUploadSize))
	if err := dec.Decode(msg); err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "malformed request body")
	}
	return nil
}

func (h *handler) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	var src io.Reader = r.Body
	if mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mediaType == "multipart/form-data" {
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "file field is required")
		}
		defer file.Close()
		src = file
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to read upload")
	}
	if len(data) == 0 {
		return nil, errors.InvalidArgument("empty upload")
	}
	return data, nil
}

func queryBool(r *http.Request, key string) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(key))
	return v
}

// contentDisposition names the download, with an RFC 5987 form for non-ASCII names
func contentDisposition(filename string) string {
	return fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s", asciiFallback(filename), encodeExtValue(filename))
}

// encodeExtValue percent-encodes every byte outside the RFC 5987 attr-char set
func encodeExtValue(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isAttrChar(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isAttrChar(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("!#$&+-.^_`|~", c) >= 0
}

func asciiFallback(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			r = '_'
		}
		out = append(out, r)
	}
	return string(out)
}

type errorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Meta    map[string]any `json:"meta,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == errors.CodeInternal {
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err.Error())
	}
	writeJSON(w, code.HTTPStatus(), &errorResponse{
		Code:    code.String(),
		Message: errors.GetMessage(err),
		Meta:    errors.GetMeta(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
