package jobservice

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// QueryParams are sent verbatim as URL query parameters.
// Values are expected to be strings, numbers or booleans; slices repeat the key.
type QueryParams map[string]any

// JobPosting is an opaque JSON object returned by the backend.
type JobPosting map[string]any

// PredictionResult is the backend's salary prediction payload, passed through untouched.
type PredictionResult map[string]any

// SalaryPredictionRequest is any JSON-serializable description of a job.
type SalaryPredictionRequest any

// JobID identifies a posting in the detail path. It is never validated.
type JobID string

// IntID formats an integer posting id.
func IntID(id int64) JobID { return JobID(strconv.FormatInt(id, 10)) }

func (id JobID) String() string { return string(id) }

// Values converts params into url.Values. nil values are skipped.
func (p QueryParams) Values() url.Values {
	if len(p) == 0 {
		return nil
	}
	out := make(url.Values, len(p))
	for k, v := range p {
		switch val := v.(type) {
		case nil:
			continue
		case []string:
			for _, s := range val {
				out.Add(k, s)
			}
		case []any:
			for _, item := range val {
				if item == nil {
					continue
				}
				out.Add(k, formatValue(item))
			}
		default:
			out.Add(k, formatValue(val))
		}
	}
	return out
}

// Keys returns the parameter names in sorted order.
func (p QueryParams) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case json.Number:
		return val.String()
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// ID returns the posting's `id` in string form. Whole numbers are rendered without decimals.
func (j JobPosting) ID() string {
	raw, ok := j["id"]
	if !ok || raw == nil {
		return ""
	}
	if f, ok := raw.(float64); ok && f == math.Trunc(f) && !math.IsInf(f, 0) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strings.TrimSpace(formatValue(raw))
}

// Title returns `job_title`.
func (j JobPosting) Title() string { return j.str("job_title") }

// Company returns `company_name`.
func (j JobPosting) Company() string { return j.str("company_name") }

// Fingerprint hashes the posting's content. encoding/json sorts map keys, so equal
// postings hash equally regardless of field order. Unencodable postings yield "".
func (j JobPosting) Fingerprint() string {
	if len(j) == 0 {
		return ""
	}
	raw, err := json.Marshal(j)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:16])
}

// Location returns `location`.
func (j JobPosting) Location() string { return j.str("location") }

// Industry returns `industry`.
func (j JobPosting) Industry() string { return j.str("industry") }

func (j JobPosting) str(key string) string {
	if v, ok := j[key].(string); ok {
		return v
	}
	return ""
}

// Salary returns `predicted_salary` when the model produced a number.
func (p PredictionResult) Salary() (float64, bool) {
	switch v := p["predicted_salary"].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
