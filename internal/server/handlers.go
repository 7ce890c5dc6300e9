package server

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/matzehuels/feyndraw/pkg/buildinfo"
	"github.com/matzehuels/feyndraw/pkg/errors"
	pkgio "github.com/matzehuels/feyndraw/pkg/io"
	"github.com/matzehuels/feyndraw/pkg/pipeline"
	"github.com/matzehuels/feyndraw/pkg/tikz"
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
}

const textPlain = "text/plain; charset=utf-8"

type errorResponse struct {
	Error     errors.Code `json:"error"`
	Message   string      `json:"message"`
	Line      int         `json:"line,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	text, ok := s.readBody(w, r)
	if !ok {
		return
	}
	d, err := s.runner.Parse(r.Context(), text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := pkgio.WriteJSON(d, &buf); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "encode diagram"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleSerialize(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	d, err := pkgio.ReadJSON(bytes.NewReader([]byte(body)))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeText(w, tikz.Serialize(d))
}

func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	text, ok := s.readBody(w, r)
	if !ok {
		return
	}
	out, err := s.runner.Format(r.Context(), text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeText(w, out)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := s.renderOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	text, ok := s.readBody(w, r)
	if !ok {
		return
	}
	opts.Source = text

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format := opts.Formats[0]
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Diagram-Hash", res.DiagramHash)
	w.Header().Set("X-Cache", cacheHeader(res.CacheInfo.RenderHit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

// renderOptions overlays query parameters on the server defaults.
func (s *Server) renderOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := s.defaults
	opts.Formats = []string{pipeline.FormatSVG}
	if f := q.Get("format"); f != "" {
		opts.Formats = []string{f}
	}
	if v := q.Get("view"); v != "" {
		opts.View = v
	}
	if v := q.Get("background"); v != "" {
		opts.Background = v
	}
	if v := q.Get("padding"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "padding")
		}
		opts.Padding = &p
	}
	if v := q.Get("scale"); v != "" {
		k, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "scale")
		}
		opts.Scale = k
	}
	opts.Refresh = q.Get("refresh") == "1"
	if err := opts.ValidateForRender(); err != nil {
		return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "render options")
	}
	return opts, nil
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) (string, bool) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			s.writeStatus(w, r, http.StatusRequestEntityTooLarge, errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit))
			return "", false
		}
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return "", false
	}
	return string(data), true
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	s.writeStatus(w, r, statusFor(err), err)
}

func (s *Server) writeStatus(w http.ResponseWriter, r *http.Request, status int, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= 500 {
		s.logger.Error("request failed", "id", RequestIDFrom(r.Context()), "err", err)
	}
	writeJSON(w, status, errorResponse{
		Error:     code,
		Message:   errors.UserMessage(err),
		Line:      errors.LineOf(err),
		RequestID: RequestIDFrom(r.Context()),
	})
}

func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeParse, errors.ErrCodeValidation:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func cacheHeader(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, s string) {
	w.Header().Set("Content-Type", textPlain)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, s)
}
