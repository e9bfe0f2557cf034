package jobservice

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestQueryParamsValues(t *testing.T) {
	v := QueryParams{
		"page":       2,
		"min_salary": 15000.5,
		"remote":     true,
		"skills":     []string{"Go", "SQL"},
		"ignored":    nil,
	}.Values()

	want := map[string][]string{
		"page":       {"2"},
		"min_salary": {"15000.5"},
		"remote":     {"true"},
		"skills":     {"Go", "SQL"},
	}
	if !reflect.DeepEqual(map[string][]string(v), want) {
		t.Fatalf("Values = %#v", v)
	}
	if QueryParams(nil).Values() != nil {
		t.Fatalf("expected nil values for nil params")
	}
}

func TestFilterParamsOmitsZeroValues(t *testing.T) {
	p := Filter{JobTitle: " Engineer ", Location: "上海", MinSalary: 20000, Page: 3}.Params()
	want := QueryParams{"job_title": "Engineer", "location": "上海", "min_salary": 20000.0, "page": 3}
	if !reflect.DeepEqual(p, want) {
		t.Fatalf("Params = %#v", p)
	}

	merged := p.Merge(QueryParams{"page": 4, "ordering": "id"})
	if merged["page"] != 4 || merged["ordering"] != "id" || p["page"] != 3 {
		t.Fatalf("Merge mutated or lost values: %#v / %#v", merged, p)
	}
}

func TestJobPostingID(t *testing.T) {
	cases := []struct {
		job  JobPosting
		want string
	}{
		{JobPosting{"id": float64(12)}, "12"},
		{JobPosting{"id": "abc"}, "abc"},
		{JobPosting{"id": 1.5}, "1.5"},
		{JobPosting{}, ""},
		{JobPosting{"id": nil}, ""},
	}
	for _, tc := range cases {
		if got := tc.job.ID(); got != tc.want {
			t.Fatalf("ID(%v) = %q, want %q", tc.job, got, tc.want)
		}
	}
}

func TestJobPostingFingerprint(t *testing.T) {
	a := JobPosting{"id": 1.0, "job_title": "Engineer", "salary": "20k"}
	b := JobPosting{"salary": "20k", "job_title": "Engineer", "id": 1.0}
	if a.Fingerprint() == "" || a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("equal postings should share a fingerprint: %q vs %q", a.Fingerprint(), b.Fingerprint())
	}
	b["salary"] = "25k"
	if a.Fingerprint() == b.Fingerprint() {
		t.Fatalf("changed posting should change fingerprint")
	}
	if got := (JobPosting{}).Fingerprint(); got != "" {
		t.Fatalf("empty posting fingerprint = %q", got)
	}
}

func TestPredictionResultSalary(t *testing.T) {
	cases := []struct {
		result PredictionResult
		want   float64
		ok     bool
	}{
		{PredictionResult{"predicted_salary": 18000.0}, 18000, true},
		{PredictionResult{"predicted_salary": " 9000.5 "}, 9000.5, true},
		{PredictionResult{"predicted_salary": "n/a"}, 0, false},
		{PredictionResult{}, 0, false},
		{nil, 0, false},
	}
	for _, tc := range cases {
		got, ok := tc.result.Salary()
		if ok != tc.ok || (ok && got != tc.want) {
			t.Fatalf("Salary(%v) = %v,%v want %v,%v", tc.result, got, ok, tc.want, tc.ok)
		}
	}
}

func TestDecodePageEnvelope(t *testing.T) {
	body := map[string]any{
		"count":    float64(25),
		"next":     "http://localhost:8000/api/job_postings/?page=2",
		"previous": nil,
		"results":  []any{map[string]any{"id": float64(1)}},
	}
	page, ok := DecodePage(body)
	if !ok {
		t.Fatalf("expected envelope to decode")
	}
	if page.Count != 25 || page.Next == "" || page.Previous != "" || len(page.Results) != 1 {
		t.Fatalf("page = %#v", page)
	}

	page, ok = DecodePage([]any{map[string]any{"id": float64(1)}, map[string]any{"id": float64(2)}})
	if !ok || page.Count != 2 {
		t.Fatalf("array page = %#v ok=%v", page, ok)
	}

	if _, ok := DecodePage(map[string]any{"detail": "x"}); ok {
		t.Fatalf("expected non-envelope to be rejected")
	}
	if _, ok := DecodePage([]any{"x"}); ok {
		t.Fatalf("expected non-object results to be rejected")
	}
}

func TestPredictionRequestFromPosting(t *testing.T) {
	job := JobPosting{
		"id":           float64(1),
		"job_title":    "高级前端开发工程师",
		"experience":   "3-5年",
		"education":    "本科及以上",
		"location":     "北京",
		"industry":     "互联网",
		"company_type": "民营企业",
		"salary":       "25k-35k",
	}
	got := PredictionRequestFromPosting(job)
	want := map[string]any{
		"job_title":    "高级前端开发工程师",
		"experience":   "3-5年",
		"education":    "本科及以上",
		"location":     "北京",
		"industry":     "互联网",
		"company_type": "民营企业",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("PredictionRequestFromPosting = %#v", got)
	}
}

func TestLoadPredictionRequestYAMLAndJSON(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "job.yaml")
	if err := os.WriteFile(yamlPath, []byte("title: Engineer\nyears: 3\n"), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	jsonPath := filepath.Join(dir, "job.json")
	if err := os.WriteFile(jsonPath, []byte(`{"title":"Engineer","years":3}`), 0o644); err != nil {
		t.Fatalf("write json: %v", err)
	}

	fromYAML, err := LoadPredictionRequest(yamlPath)
	if err != nil {
		t.Fatalf("LoadPredictionRequest yaml: %v", err)
	}
	if fromYAML["title"] != "Engineer" || fromYAML["years"] != 3 {
		t.Fatalf("yaml request = %#v", fromYAML)
	}

	fromJSON, err := LoadPredictionRequest(jsonPath)
	if err != nil {
		t.Fatalf("LoadPredictionRequest json: %v", err)
	}
	if fromJSON["title"] != "Engineer" || fromJSON["years"] != float64(3) {
		t.Fatalf("json request = %#v", fromJSON)
	}

	if _, err := ParsePredictionRequest([]byte("- a\n- b\n"), ".yaml"); err == nil {
		t.Fatalf("expected error for non-object yaml")
	}
}
