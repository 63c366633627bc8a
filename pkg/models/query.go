package models

// ParsedQuery is the structured interpretation of a free-text furniture query.
// A zero-value field means the query did not specify that attribute; fields are
// never empty strings in a populated record.
type ParsedQuery struct {
	ItemType string `json:"item_type,omitempty" yaml:"item_type,omitempty"`
	Material string `json:"material,omitempty" yaml:"material,omitempty"`
	Color    string `json:"color,omitempty" yaml:"color,omitempty"`
}

// IsZero reports whether no attribute was extracted.
func (p ParsedQuery) IsZero() bool {
	return p.ItemType == "" && p.Material == "" && p.Color == ""
}

// QueryResponse is the result of one pipeline invocation.
type QueryResponse struct {
	Query           string      `json:"query"`
	ParsedQuery     ParsedQuery `json:"parsed_query"`
	Cached          bool        `json:"cached"`
	GenerationTime  float64     `json:"generation_time,omitempty"`
	CacheLookupTime float64     `json:"cache_lookup_time,omitempty"`
	TotalTime       float64     `json:"total_time"`
}

// InspectResult is the raw model exchange for a query, with no extraction,
// correction, or caching applied.
type InspectResult struct {
	Query          string  `json:"query"`
	Prompt         string  `json:"prompt"`
	RawOutput      string  `json:"raw_output"`
	GenerationTime float64 `json:"generation_time"`
}
