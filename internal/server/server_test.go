package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stipple/pkg/dxf"
	"github.com/matzehuels/stipple/pkg/errors"
	"github.com/matzehuels/stipple/pkg/pipeline"
	"github.com/matzehuels/stipple/pkg/scatter"
	"github.com/matzehuels/stipple/pkg/session"
)

func newTestServer(t *testing.T) (*httptest.Server, *http.Client, *session.MemoryStore) {
	t.Helper()
	store := session.NewMemoryStore()
	srv := New(Config{Store: store, Logger: log.New(io.Discard)})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return ts, &http.Client{Jar: jar}, store
}

func smallForm() url.Values {
	return url.Values{
		"width":      {"100"},
		"height":     {"100"},
		"columns":    {"2"},
		"rows":       {"2"},
		"density":    {"1"},
		"padding":    {"0"},
		"interspace": {"0"},
		"seed":       {"11"},
	}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func getPoints(t *testing.T, c *http.Client, base string) pointsResponse {
	t.Helper()
	resp, err := c.Get(base + "/api/points")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var pr pointsResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		t.Fatalf("decode points: %v", err)
	}
	return pr
}

func TestIndexGeneratesOnFirstVisit(t *testing.T) {
	ts, c, store := newTestServer(t)

	resp, err := c.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	body := readBody(t, resp)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Points Drawn: ") {
		t.Error("page is missing the drawn count")
	}
	if !strings.Contains(body, `value="1200"`) {
		t.Error("page is missing the derived total")
	}
	if !strings.Contains(body, "<svg") {
		t.Error("page is missing the preview")
	}
	if store.Len() != 1 {
		t.Errorf("sessions = %d, want 1", store.Len())
	}

	// The second visit reuses the session.
	first := getPoints(t, c, ts.URL)
	second := getPoints(t, c, ts.URL)
	if first.Count != second.Count || store.Len() != 1 {
		t.Error("session was not reused")
	}
}

func TestRegenerateForm(t *testing.T) {
	ts, c, _ := newTestServer(t)

	resp, err := c.PostForm(ts.URL+"/regenerate", smallForm())
	if err != nil {
		t.Fatal(err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status after redirect = %d", resp.StatusCode)
	}

	// With zero interspace and padding every slot succeeds first try.
	if !strings.Contains(body, "Points Drawn: 4") {
		t.Errorf("unexpected page:\n%s", body)
	}

	pr := getPoints(t, c, ts.URL)
	if pr.Count != 4 || pr.TotalPoints != 4 || pr.Options.Seed != 11 {
		t.Errorf("points = %+v", pr)
	}
}

func TestRegenerateFormInvalidKeepsSet(t *testing.T) {
	ts, c, _ := newTestServer(t)

	if _, err := c.PostForm(ts.URL+"/regenerate", smallForm()); err != nil {
		t.Fatal(err)
	}
	before := getPoints(t, c, ts.URL)

	form := smallForm()
	form.Set("rows", "2.5")
	resp, err := c.PostForm(ts.URL+"/regenerate", form)
	if err != nil {
		t.Fatal(err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if !strings.Contains(body, "rows") || !strings.Contains(body, `value="2.5"`) {
		t.Error("error page should name the field and echo the input")
	}

	after := getPoints(t, c, ts.URL)
	if after.Count != before.Count || after.Options.Rows != before.Options.Rows {
		t.Error("invalid input replaced the current set")
	}
}

func TestRegenerateAPI(t *testing.T) {
	ts, c, _ := newTestServer(t)

	body := `{"width": 200, "height": 100, "columns": 4, "rows": 2, "density": 3,
		"padding": 5, "interspace": "2.5", "seed": 9}`
	resp, err := c.Post(ts.URL+"/api/regenerate", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var pr pointsResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		t.Fatal(err)
	}
	if pr.TotalPoints != 24 || pr.Requested != 24 {
		t.Errorf("totals = %+v", pr)
	}
	if pr.Count+pr.Skipped != pr.Requested {
		t.Errorf("count %d + skipped %d != requested %d", pr.Count, pr.Skipped, pr.Requested)
	}

	pts := make([]scatter.Point, len(pr.Points))
	for i, p := range pr.Points {
		pts[i] = scatter.Point{p.X, p.Y}
	}
	if !scatter.Valid(scatter.NewPointSet(pts), pr.Options.Canvas(), pr.Options.Constraints()) {
		t.Error("served points violate constraints")
	}
}

func TestRegenerateAPIErrors(t *testing.T) {
	ts, c, _ := newTestServer(t)

	tests := []struct {
		name        string
		contentType string
		body        string
	}{
		{"fractional rows", "application/json", `{"width":1,"height":1,"columns":1,"rows":1.5,"density":1,"padding":0,"interspace":0}`},
		{"missing field", "application/json", `{"width":1}`},
		{"bad json", "application/json", `{`},
		{"boolean", "application/json", `{"width":true}`},
		{"form nan", "application/x-www-form-urlencoded", "width=1&height=1&columns=1&rows=1&density=1&padding=NaN&interspace=0"},
		{"overflowing grid", "application/json", `{"width":800,"height":600,"columns":2147483648,"rows":2147483648,"density":3,"padding":10,"interspace":5}`},
		{"form huge density", "application/x-www-form-urlencoded", "width=800&height=600&columns=1&rows=1&density=10000000000&padding=10&interspace=5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := c.Post(ts.URL+"/api/regenerate", tt.contentType, strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
			var e errorBody
			if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
				t.Fatal(err)
			}
			if e.Code != errors.ErrCodeInvalidInput {
				t.Errorf("code = %s, want INVALID_INPUT", e.Code)
			}
		})
	}
}

func TestExport(t *testing.T) {
	ts, c, _ := newTestServer(t)
	if _, err := c.PostForm(ts.URL+"/regenerate", smallForm()); err != nil {
		t.Fatal(err)
	}
	pr := getPoints(t, c, ts.URL)

	for _, path := range []string{"/api/export", "/canvasData.dxf"} {
		t.Run(path, func(t *testing.T) {
			resp, err := c.Get(ts.URL + path)
			if err != nil {
				t.Fatal(err)
			}
			body := readBody(t, resp)

			if ct := resp.Header.Get("Content-Type"); ct != "application/dxf" {
				t.Errorf("Content-Type = %q", ct)
			}
			if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, `filename="canvasData.dxf"`) {
				t.Errorf("Content-Disposition = %q", cd)
			}

			doc, err := dxf.Parse(strings.NewReader(body))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if len(doc.Lines) != 4 || len(doc.Points) != pr.Count {
				t.Errorf("lines = %d, points = %d, want 4, %d", len(doc.Lines), len(doc.Points), pr.Count)
			}
		})
	}
}

func TestPreview(t *testing.T) {
	ts, c, _ := newTestServer(t)

	resp, err := c.Get(ts.URL + "/api/preview.svg")
	if err != nil {
		t.Fatal(err)
	}
	body := readBody(t, resp)
	if resp.Header.Get("Content-Type") != "image/svg+xml" || !strings.Contains(body, "<svg") {
		t.Errorf("unexpected svg preview: %q", resp.Header.Get("Content-Type"))
	}

	resp, err = c.Get(ts.URL + "/api/preview.png")
	if err != nil {
		t.Fatal(err)
	}
	png := readBody(t, resp)
	if !bytes.HasPrefix([]byte(png), []byte("\x89PNG")) {
		t.Error("png preview is not a PNG")
	}

	resp, err = c.Get(ts.URL + "/api/preview.html")
	if err != nil {
		t.Fatal(err)
	}
	if body := readBody(t, resp); !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") || !strings.Contains(body, "echarts") {
		t.Errorf("unexpected html preview: %q", resp.Header.Get("Content-Type"))
	}

	resp, err = c.Get(ts.URL + "/api/preview.gif")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("gif status = %d, want 400", resp.StatusCode)
	}
}

func TestBogusCookieStartsFreshSession(t *testing.T) {
	store := session.NewMemoryStore()
	srv := New(Config{Store: store, Logger: log.New(io.Discard)})

	req := httptest.NewRequest(http.MethodGet, "/api/points", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "../../etc/passwd"})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var issued string
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			issued = c.Value
		}
	}
	if !session.ValidID(issued) {
		t.Errorf("issued cookie %q is not a session ID", issued)
	}
}

func TestCustomDefaults(t *testing.T) {
	defaults := pipeline.DefaultOptions()
	defaults.Density = 0
	srv := New(Config{Logger: log.New(io.Discard), Defaults: &defaults})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/points", nil))

	var pr pointsResponse
	if err := json.NewDecoder(rec.Body).Decode(&pr); err != nil {
		t.Fatal(err)
	}
	if pr.Count != 0 || pr.TotalPoints != 0 {
		t.Errorf("points = %+v, want empty set", pr)
	}
}

func TestHealth(t *testing.T) {
	srv := New(Config{Logger: log.New(io.Discard)})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}
