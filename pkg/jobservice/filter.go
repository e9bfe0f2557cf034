package jobservice

import (
	"strings"
)

// Filter holds the list filters the backend understands. Zero values are omitted.
// Text filters are matched case-insensitively as substrings by the backend.
type Filter struct {
	JobTitle    string
	CompanyName string
	Location    string
	Skills      string
	Education   string
	Industry    string
	MinSalary   float64
	Page        int
	PageSize    int
}

// Params converts the filter into QueryParams.
func (f Filter) Params() QueryParams {
	p := QueryParams{}
	setString(p, "job_title", f.JobTitle)
	setString(p, "company_name", f.CompanyName)
	setString(p, "location", f.Location)
	setString(p, "skills", f.Skills)
	setString(p, "education", f.Education)
	setString(p, "industry", f.Industry)
	if f.MinSalary > 0 {
		p["min_salary"] = f.MinSalary
	}
	if f.Page > 0 {
		p["page"] = f.Page
	}
	if f.PageSize > 0 {
		p["page_size"] = f.PageSize
	}
	return p
}

func setString(p QueryParams, key, val string) {
	if val = strings.TrimSpace(val); val != "" {
		p[key] = val
	}
}

// Merge returns a new QueryParams with extra layered over p.
func (p QueryParams) Merge(extra QueryParams) QueryParams {
	out := make(QueryParams, len(p)+len(extra))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
