package server

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/stipple/pkg/dxf"
	"github.com/matzehuels/stipple/pkg/errors"
	"github.com/matzehuels/stipple/pkg/pipeline"
	"github.com/matzehuels/stipple/pkg/render"
	"github.com/matzehuels/stipple/pkg/session"
)

// maxBodyBytes bounds regenerate request bodies.
const maxBodyBytes = 64 << 10

// pointsResponse is the JSON view of a session's point set.
type pointsResponse struct {
	Count       int              `json:"count"`
	Requested   int              `json:"requested"`
	TotalPoints int              `json:"total_points"`
	Skipped     int              `json:"skipped"`
	Options     pipeline.Options `json:"options"`
	Points      []render.XY      `json:"points"`
}

func newPointsResponse(sess *session.Session) pointsResponse {
	doc := render.NewDocument(sess.Options.Canvas(), sess.PointSet())
	return pointsResponse{
		Count:       doc.Count,
		Requested:   sess.Requested,
		TotalPoints: sess.Options.TotalPoints(),
		Skipped:     sess.Skipped,
		Options:     sess.Options,
		Points:      doc.Points,
	}
}

// lookup returns the visitor's session, or nil if there is none.
func (s *Server) lookup(r *http.Request) (*session.Session, error) {
	c, err := r.Cookie(CookieName)
	if err != nil || !session.ValidID(c.Value) {
		return nil, nil
	}
	return s.store.Get(r.Context(), c.Value)
}

// current returns the visitor's session, generating a first point set with
// the server defaults when there is none.
func (s *Server) current(w http.ResponseWriter, r *http.Request) (*session.Session, error) {
	sess, err := s.lookup(r)
	if err != nil || sess != nil {
		return sess, err
	}
	return s.regenerate(w, r, nil, s.defaults)
}

// regenerate runs the generator for opts and stores the result as the
// visitor's current set. The store sees one Set with the complete new set.
func (s *Server) regenerate(w http.ResponseWriter, r *http.Request, sess *session.Session, opts pipeline.Options) (*session.Session, error) {
	res, err := s.runner.Generate(r.Context(), opts)
	if err != nil {
		return nil, err
	}

	if sess == nil {
		sess = session.New(opts, res, s.ttl)
	} else {
		sess.Replace(opts, res, s.ttl)
	}
	if err := s.store.Set(r.Context(), sess); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "store session")
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    sess.ID,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	s.logger.Info("generated points",
		"session", sess.ID,
		"drawn", len(sess.Points),
		"requested", sess.Requested)
	return sess, nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess, err := s.current(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.renderPage(w, http.StatusOK, newPageData(sess))
}

func (s *Server) handleRegenerateForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse form"))
		return
	}

	sess, err := s.lookup(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts, parseErr := pipeline.ParseForm(r.PostForm)
	if parseErr != nil {
		// Keep the current set and echo the rejected inputs back.
		if sess == nil {
			if sess, err = s.current(w, r); err != nil {
				s.writeError(w, r, err)
				return
			}
		}
		data := newPageData(sess)
		for k := range data.Values {
			data.Values[k] = r.PostForm.Get(k)
		}
		data.Values[pipeline.FieldSeed] = r.PostForm.Get(pipeline.FieldSeed)
		data.Error = errors.UserMessage(parseErr)
		s.renderPage(w, http.StatusBadRequest, data)
		return
	}

	if _, err := s.regenerate(w, r, sess, opts); err != nil {
		s.writeError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleRegenerateAPI(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var (
		opts pipeline.Options
		err  error
	)
	if mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mt == "application/json" {
		opts, err = parseJSONOptions(r)
	} else if err = r.ParseForm(); err != nil {
		err = errors.Wrap(errors.ErrCodeInvalidInput, err, "parse form")
	} else {
		opts, err = pipeline.ParseForm(r.PostForm)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sess, err := s.lookup(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if sess, err = s.regenerate(w, r, sess, opts); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPointsResponse(sess))
}

// parseJSONOptions accepts a flat JSON object whose values are numbers or
// numeric strings and validates it exactly like form input.
func parseJSONOptions(r *http.Request) (pipeline.Options, error) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode JSON body")
	}

	values := make(map[string]string, len(body))
	for k, v := range body {
		switch v := v.(type) {
		case float64:
			values[k] = strconv.FormatFloat(v, 'f', -1, 64)
		case string:
			values[k] = v
		case nil:
			// absent
		default:
			return pipeline.Options{}, errors.New(errors.ErrCodeInvalidInput, "%s: %v is not a number", k, v)
		}
	}
	return pipeline.ParseValues(values)
}

func (s *Server) handlePoints(w http.ResponseWriter, r *http.Request) {
	sess, err := s.current(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPointsResponse(sess))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, err := s.current(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data := dxf.Export(sess.Options.Canvas(), sess.PointSet())
	w.Header().Set("Content-Type", dxf.MediaType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", dxf.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := render.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	sess, err := s.current(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := render.Render(format, sess.Options.Canvas(), sess.PointSet())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", render.MediaType(format))
	_, _ = w.Write(data)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
