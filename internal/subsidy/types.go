// Package subsidy defines the result shapes returned by the jGrants tool
// server and formats them into Japanese chat replies.
//
// The tool server owns these schemas; this package validates payloads at the
// invocation boundary and treats them as read-only afterwards.
package subsidy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Tool names exposed by the tool server.
const (
	ToolSearch     = "search_subsidies"
	ToolDetail     = "get_subsidy_detail"
	ToolStatistics = "get_subsidy_statistics"
	ToolPing       = "ping"
)

// Summary is one subsidy entry in a search result.
type Summary struct {
	ID                    string `json:"id"`
	Title                 string `json:"title"`
	SubsidyMaxLimit       int64  `json:"subsidy_max_limit,omitempty"`
	AcceptanceEndDatetime string `json:"acceptance_end_datetime,omitempty"`
	DeadlineStatus        string `json:"deadline_status,omitempty"`
	TargetAreaSearch      string `json:"target_area_search,omitempty"`
	TargetIndustry        string `json:"target_industry,omitempty"`
	Detail                string `json:"detail,omitempty"`
}

// SearchResult is the payload of the search_subsidies tool.
type SearchResult struct {
	Results    []Summary `json:"results"`
	TotalCount int       `json:"total_count"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
}

// Files groups attachment URLs by category in a detail payload.
type Files struct {
	ApplicationGuidelines []string `json:"application_guidelines,omitempty"`
	OutlineOfGrant        []string `json:"outline_of_grant,omitempty"`
	ApplicationForm       []string `json:"application_form,omitempty"`
}

// Detail is the payload of the get_subsidy_detail tool.
type Detail struct {
	ID                      string `json:"id"`
	Title                   string `json:"title"`
	Detail                  string `json:"detail"`
	SubsidyMaxLimit         int64  `json:"subsidy_max_limit,omitempty"`
	SubsidyRate             string `json:"subsidy_rate,omitempty"`
	AcceptanceStartDatetime string `json:"acceptance_start_datetime,omitempty"`
	AcceptanceEndDatetime   string `json:"acceptance_end_datetime,omitempty"`
	DeadlineStatus          string `json:"deadline_status,omitempty"`
	TargetAreaSearch        string `json:"target_area_search,omitempty"`
	TargetIndustry          string `json:"target_industry,omitempty"`
	TargetNumberOfEmployees string `json:"target_number_of_employees,omitempty"`
	InquiryURL              string `json:"inquiry_url,omitempty"`
	UpdateDatetime          string `json:"update_datetime,omitempty"`
	Files                   *Files `json:"files,omitempty"`
	SaveDirectory           string `json:"save_directory,omitempty"`
}

// Statistics is the payload of the get_subsidy_statistics tool.
type Statistics struct {
	TotalCount           int          `json:"total_count"`
	SampledCount         int          `json:"sampled_count"`
	DeadlineDistribution Distribution `json:"deadline_distribution,omitempty"`
	AmountDistribution   Distribution `json:"amount_distribution,omitempty"`
	AreaDistribution     Distribution `json:"area_distribution,omitempty"`
	IndustryDistribution Distribution `json:"industry_distribution,omitempty"`
}

// Bucket is a single labeled count within a distribution.
type Bucket struct {
	Key   string
	Count int
}

// Distribution is an ordered set of labeled counts. The tool server emits
// distributions as JSON objects whose key order is meaningful (deadline
// months arrive chronologically, amount brackets in bracket order), so a
// plain map would lose information the formatter depends on.
type Distribution []Bucket

// UnmarshalJSON decodes a JSON object into buckets preserving key order.
func (d *Distribution) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*d = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("distribution: expected object, got %v", tok)
	}

	buckets := Distribution{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("distribution: expected string key, got %v", keyTok)
		}

		var count int
		if err := dec.Decode(&count); err != nil {
			return fmt.Errorf("distribution: count for %q: %w", key, err)
		}
		buckets = append(buckets, Bucket{Key: key, Count: count})
	}

	// Consume closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}

	*d = buckets
	return nil
}

// MarshalJSON re-encodes the buckets as a JSON object in bucket order.
func (d Distribution) MarshalJSON() ([]byte, error) {
	if d == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, b := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(b.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(b.Count))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
