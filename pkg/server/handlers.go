package server

import (
	"encoding/json"
	"maps"
	"mime/multipart"
	"net/http"
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/spritepack/pkg/buildinfo"
	"github.com/matzehuels/spritepack/pkg/cache"
	"github.com/matzehuels/spritepack/pkg/errors"
	"github.com/matzehuels/spritepack/pkg/layout"
	"github.com/matzehuels/spritepack/pkg/pipeline"
	"github.com/matzehuels/spritepack/pkg/sprite"
)

// multipartMemory is how much of an upload is kept in memory before
// spilling to temp files.
const multipartMemory = 8 << 20

var contentTypes = map[string]string{
	cache.ArtifactPNG:    "image/png",
	cache.ArtifactCSS:    "text/css; charset=utf-8",
	cache.ArtifactLayout: "application/json",
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

// SpriteResponse is returned by POST /v1/sprites.
type SpriteResponse struct {
	ID        string          `json:"id"`
	PNG       string          `json:"png"`
	CSS       string          `json:"css"`
	Layout    json.RawMessage `json:"layout"`
	LayoutHit bool            `json:"layout_cached"`
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if statusFor(err) >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	writeError(w, err)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

// handlePack packs sizes only; no pixels are involved.
func (s *Server) handlePack(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	req, err := layout.ReadRequest(body)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	opts := s.options()
	opts.Padding = req.Padding
	p, err := s.runner.Layout(r.Context(), req.PackModules(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := layout.WriteJSON(p, w); err != nil {
		s.logger.Warn("write response", "error", err)
	}
}

// handleCreateSprite builds a sheet from uploaded images and stores its
// artifacts under a fresh id.
func (s *Server) handleCreateSprite(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		s.fail(w, r, classifyFormError(err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	opts, err := s.formOptions(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sources, err := decodeUploads(r.MultipartForm, s.cfg.MaxPixels)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	id := uuid.NewString()
	if opts.URL == "" {
		opts.URL = "/v1/sprites/" + id + ".png"
	}
	res, err := s.runner.Build(r.Context(), sources, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	artifacts := map[string][]byte{
		cache.ArtifactPNG:    res.PNG,
		cache.ArtifactCSS:    []byte(res.CSS),
		cache.ArtifactLayout: res.LayoutJSON,
	}
	for kind, data := range artifacts {
		key := s.runner.Keyer.SpriteKey(id, kind)
		if err := s.runner.Cache.Set(r.Context(), key, data, cache.TTLUpload); err != nil {
			s.fail(w, r, errors.Wrap(errors.ErrCodeInternal, err, "store sprite %s", kind))
			return
		}
	}

	s.logger.Info("stored sprite",
		"id", id,
		"modules", res.Stats.Modules,
		"width", res.Stats.Width,
		"height", res.Stats.Height)

	w.Header().Set("Location", "/v1/sprites/"+id+".png")
	writeJSON(w, http.StatusCreated, SpriteResponse{
		ID:        id,
		PNG:       "/v1/sprites/" + id + ".png",
		CSS:       "/v1/sprites/" + id + ".css",
		Layout:    res.LayoutJSON,
		LayoutHit: res.CacheInfo.LayoutHit,
	})
}

func (s *Server) handleGetSprite(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	id, kind, ok := strings.Cut(file, ".")
	contentType, known := contentTypes[kind]
	if !ok || !known {
		s.fail(w, r, errNotFound(file))
		return
	}
	if _, err := uuid.Parse(id); err != nil {
		s.fail(w, r, errNotFound(file))
		return
	}

	data, hit, err := s.runner.Cache.Get(r.Context(), s.runner.Keyer.SpriteKey(id, kind))
	if err != nil {
		s.fail(w, r, errors.Wrap(errors.ErrCodeInternal, err, "load sprite"))
		return
	}
	if !hit {
		s.fail(w, r, errNotFound("sprite "+id))
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

// formOptions reads sheet options from form fields.
func (s *Server) formOptions(r *http.Request) (pipeline.Options, error) {
	opts := s.options()
	opts.Name = r.FormValue("name")
	opts.ClassPrefix = r.FormValue("class_prefix")
	opts.URL = r.FormValue("url")
	if v := r.FormValue("padding"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "padding must be an integer")
		}
		opts.Padding = n
	}
	return opts, nil
}

// decodeUploads decodes every uploaded file, in field then upload order.
// Each image is named after its file name without extension. Decoding stops
// once the images hold more than maxPixels pixels in total.
func decodeUploads(form *multipart.Form, maxPixels int) ([]sprite.Source, error) {
	var sources []sprite.Source
	total := 0
	for _, field := range slices.Sorted(maps.Keys(form.File)) {
		for _, fh := range form.File[field] {
			src, err := decodeUpload(fh)
			if err != nil {
				return nil, err
			}
			w, h := src.Size()
			if total += w * h; total > maxPixels {
				return nil, errors.New(errors.ErrCodeInvalidInput,
					"uploaded images exceed %d pixels in total", maxPixels)
			}
			sources = append(sources, src)
		}
	}
	if len(sources) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no images uploaded")
	}
	seen := make(map[string]bool, len(sources))
	for _, src := range sources {
		if seen[src.ID] {
			return nil, errors.New(errors.ErrCodeInvalidInput, "duplicate image name %q", src.ID)
		}
		seen[src.ID] = true
	}
	return sources, nil
}

func decodeUpload(fh *multipart.FileHeader) (sprite.Source, error) {
	f, err := fh.Open()
	if err != nil {
		return sprite.Source{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "open upload %q", fh.Filename)
	}
	defer f.Close()
	return sprite.Decode(sprite.IDFromPath(path.Base(fh.Filename)), f)
}

// classifyFormError keeps *http.MaxBytesError reachable so oversized
// uploads map to 413.
func classifyFormError(err error) error {
	return errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse multipart form")
}
