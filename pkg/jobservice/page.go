package jobservice

// Page is the paginated listing envelope: {count, next, previous, results}.
type Page struct {
	Count    int
	Next     string
	Previous string
	Results  []JobPosting
}

// DecodePage interprets a ListJobs result. A bare array is treated as a single
// unpaginated page. ok is false when the shape is neither.
func DecodePage(v any) (Page, bool) {
	switch body := v.(type) {
	case []any:
		results, ok := postings(body)
		if !ok {
			return Page{}, false
		}
		return Page{Count: len(results), Results: results}, true
	case map[string]any:
		raw, ok := body["results"].([]any)
		if !ok {
			return Page{}, false
		}
		results, ok := postings(raw)
		if !ok {
			return Page{}, false
		}
		page := Page{Results: results, Count: len(results)}
		if n, ok := body["count"].(float64); ok {
			page.Count = int(n)
		}
		page.Next, _ = body["next"].(string)
		page.Previous, _ = body["previous"].(string)
		return page, true
	default:
		return Page{}, false
	}
}

func postings(items []any) ([]JobPosting, bool) {
	out := make([]JobPosting, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, false
		}
		out = append(out, JobPosting(obj))
	}
	return out, true
}
