package publishers

import (
	"context"
	"strings"
)

// RouteFilter limits which job events a publisher receives. Keyword lists match
// case-insensitive substrings and an empty list matches everything.
// MinPredictedSalary only passes events whose prediction meets it.
type RouteFilter struct {
	TitleKeywords      []string `json:"title_keywords" yaml:"title_keywords"`
	Locations          []string `json:"locations" yaml:"locations"`
	Industries         []string `json:"industries" yaml:"industries"`
	MinPredictedSalary float64  `json:"min_predicted_salary" yaml:"min_predicted_salary"`
}

// Match reports whether evt should be delivered.
func (f *RouteFilter) Match(evt Event) bool {
	if f == nil {
		return true
	}
	if !containsAny(evt.Job.Title(), f.TitleKeywords) {
		return false
	}
	if !containsAny(evt.Job.Location(), f.Locations) {
		return false
	}
	if !containsAny(evt.Job.Industry(), f.Industries) {
		return false
	}
	if f.MinPredictedSalary > 0 {
		salary, ok := evt.Prediction.Salary()
		if !ok || salary < f.MinPredictedSalary {
			return false
		}
	}
	return true
}

func (f RouteFilter) normalized() RouteFilter {
	f.TitleKeywords = lowerAll(f.TitleKeywords)
	f.Locations = lowerAll(f.Locations)
	f.Industries = lowerAll(f.Industries)
	return f
}

func (f RouteFilter) empty() bool {
	return len(f.TitleKeywords) == 0 && len(f.Locations) == 0 && len(f.Industries) == 0 && f.MinPredictedSalary <= 0
}

// containsAny expects lowercase keywords.
func containsAny(value string, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	value = strings.ToLower(value)
	for _, kw := range keywords {
		if strings.Contains(value, kw) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// routedPublisher applies a RouteFilter in front of a Publisher.
type routedPublisher struct {
	Publisher
	filter *RouteFilter
}

func withRoute(p Publisher, f *RouteFilter) Publisher {
	if f == nil {
		return p
	}
	return &routedPublisher{Publisher: p, filter: f}
}

func (r *routedPublisher) Accepts(evt Event) bool { return r.filter.Match(evt) }

func (r *routedPublisher) Publish(ctx context.Context, evt Event) error {
	return r.Publisher.Publish(ctx, evt)
}

// Close releases the wrapped publisher when it holds a connection.
func (r *routedPublisher) Close() error {
	if c, ok := r.Publisher.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
