package server

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/matzehuels/stipple/pkg/dxf"
	"github.com/matzehuels/stipple/pkg/render"
	"github.com/matzehuels/stipple/pkg/session"
)

//go:embed templates/*
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type pageData struct {
	Values      map[string]string
	TotalPoints int
	Drawn       int
	SVG         template.HTML
	Filename    string
	Error       string
}

func newPageData(sess *session.Session) pageData {
	svg := render.SVG(sess.Options.Canvas(), sess.PointSet())
	// drop the XML prolog for inline use
	if i := bytes.Index(svg, []byte("<svg")); i > 0 {
		svg = svg[i:]
	}
	return pageData{
		Values:      sess.Options.Values(),
		TotalPoints: sess.Options.TotalPoints(),
		Drawn:       len(sess.Points),
		SVG:         template.HTML(svg),
		Filename:    dxf.Filename,
	}
}

func (s *Server) renderPage(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, data); err != nil {
		s.logger.Error("render page", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
