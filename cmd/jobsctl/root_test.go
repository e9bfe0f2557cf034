package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/samvad-hq/samvad-jobs-client/pkg/httpclient"
)

type seenRequest struct {
	method string
	path   string
	query  url.Values
	body   map[string]any
}

func newBackend(t *testing.T) (*httptest.Server, func() []seenRequest) {
	t.Helper()
	var (
		mu   sync.Mutex
		seen []seenRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := seenRequest{method: r.Method, path: r.URL.Path, query: r.URL.Query()}
		if r.Method == http.MethodPost {
			_ = json.NewDecoder(r.Body).Decode(&req.body)
		}
		mu.Lock()
		seen = append(seen, req)
		mu.Unlock()

		switch r.URL.Path {
		case "/api/job_postings/":
			_, _ = w.Write([]byte(`{"count":2,"next":null,"previous":null,"results":[{"id":1},{"id":2}]}`))
		case "/api/job_postings/all_data/":
			_, _ = w.Write([]byte(`[{"id":1},{"id":2},{"id":3}]`))
		case "/api/job_postings/7/":
			_, _ = w.Write([]byte(`{"id":7,"job_title":"Engineer","location":"上海","education":"本科","salary":"20k"}`))
		case "/api/job_postings/predict_salary/":
			_, _ = w.Write([]byte(`{"predicted_salary":18000}`))
		default:
			http.Error(w, "missing", http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, func() []seenRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]seenRequest(nil), seen...)
	}
}

func execute(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--base-url", srv.URL + "/api/", "--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestListSendsFiltersAndExtraParams(t *testing.T) {
	srv, seen := newBackend(t)

	out, err := execute(t, srv, "list", "--location", "北京", "--page", "2", "--param", "ordering=-id", "--results-only")
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	reqs := seen()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 request, got %d", len(reqs))
	}
	q := reqs[0].query
	if q.Get("location") != "北京" || q.Get("page") != "2" || q.Get("ordering") != "-id" {
		t.Fatalf("unexpected query %v", q)
	}
	var results []map[string]any
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
}

func TestAllCount(t *testing.T) {
	srv, _ := newBackend(t)

	out, err := execute(t, srv, "all", "--count")
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if strings.TrimSpace(out) != "3" {
		t.Fatalf("expected count 3, got %q", out)
	}
}

func TestDetailPrintsPosting(t *testing.T) {
	srv, _ := newBackend(t)

	out, err := execute(t, srv, "detail", "7")
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if !strings.Contains(out, `"job_title": "Engineer"`) {
		t.Fatalf("unexpected output %s", out)
	}
}

func TestDetailPropagatesStatusError(t *testing.T) {
	srv, _ := newBackend(t)

	_, err := execute(t, srv, "detail", "999")
	var statusErr *httpclient.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 status error, got %v", err)
	}
}

func TestPredictLayersSources(t *testing.T) {
	srv, seen := newBackend(t)
	file := filepath.Join(t.TempDir(), "job.yaml")
	if err := os.WriteFile(file, []byte("industry: 互联网\nlocation: 深圳\n"), 0o644); err != nil {
		t.Fatalf("write job file: %v", err)
	}

	out, err := execute(t, srv, "predict", "--from-job", "7", "--file", file, "--set", "experience=3-5年")
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if !strings.Contains(out, `"predicted_salary": 18000`) {
		t.Fatalf("unexpected output %s", out)
	}

	reqs := seen()
	last := reqs[len(reqs)-1]
	if last.method != http.MethodPost {
		t.Fatalf("expected POST, got %s", last.method)
	}
	want := map[string]any{
		"job_title":  "Engineer",
		"education":  "本科",
		"location":   "深圳",
		"industry":   "互联网",
		"experience": "3-5年",
	}
	if len(last.body) != len(want) {
		t.Fatalf("unexpected body %#v", last.body)
	}
	for k, v := range want {
		if last.body[k] != v {
			t.Fatalf("body[%s] = %#v, want %#v", k, last.body[k], v)
		}
	}
}

func TestPredictRequiresInput(t *testing.T) {
	srv, seen := newBackend(t)

	if _, err := execute(t, srv, "predict"); err == nil {
		t.Fatalf("expected error without input")
	}
	if len(seen()) != 0 {
		t.Fatalf("no request should be sent")
	}
}

func TestParsePairs(t *testing.T) {
	got, err := parsePairs("param", []string{"skills=go", "skills=sql", "q=a=b"})
	if err != nil {
		t.Fatalf("parsePairs: %v", err)
	}
	if s, ok := got["skills"].([]string); !ok || len(s) != 2 || s[1] != "sql" {
		t.Fatalf("expected repeated key, got %#v", got["skills"])
	}
	if got["q"] != "a=b" {
		t.Fatalf("expected value split on first '=', got %#v", got["q"])
	}

	if _, err := parsePairs("set", []string{"novalue"}); err == nil || !strings.Contains(err.Error(), "--set") {
		t.Fatalf("expected invalid pair error, got %v", err)
	}
}
