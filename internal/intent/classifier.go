// Package intent maps free-text Japanese queries to subsidy tool intents.
// Classification is a pure keyword scan: it never fails and performs no I/O.
package intent

import (
	"regexp"
	"strings"
)

// Intent identifies what action a user message requests.
type Intent string

// The closed set of intents the rule-based classifier produces.
const (
	IntentSearch        Intent = "search"
	IntentSearchLatest  Intent = "search_latest"
	IntentGetDetail     Intent = "get_detail"
	IntentGetStatistics Intent = "get_statistics"
)

// DefaultKeyword is the generic fallback search keyword. The jGrants API
// requires at least two characters, and "事業" matches nearly everything.
const DefaultKeyword = "事業"

// Result pairs an intent with the tool parameters it implies.
type Result struct {
	Intent Intent
	Params map[string]any
}

// Marker terms, checked against the lowercased message.
var (
	latestMarkers     = []string{"最新", "新しい"}
	detailMarkers     = []string{"詳細", "教えて"}
	statisticsMarkers = []string{"統計", "全体"}
)

// industryKeywords are scanned in order; the first hit becomes the search
// keyword. Matching is done on the lowercased message, so "IT" also hits
// lowercase "it" inside English text.
var industryKeywords = []string{"製造業", "IT", "DX", "デジタル", "スタートアップ", "小売", "サービス"}

// regionKeywords mirror the jGrants target-area vocabulary.
var regionKeywords = []string{"東京", "大阪", "神奈川", "愛知", "福岡", "北海道", "全国"}

// subsidyIDPattern matches a jGrants subsidy identifier: a contiguous run
// of 18 alphanumeric characters. Scanned on the original message so that
// letter case is preserved in the extracted identifier.
var subsidyIDPattern = regexp.MustCompile(`[a-zA-Z0-9]{18}`)

// Classify maps a raw user message to an intent and tool parameters.
// Rules are evaluated in precedence order; the default search branch is
// total, so classification never fails.
func Classify(message string) Result {
	lower := strings.ToLower(message)

	if containsAny(lower, latestMarkers) {
		return Result{
			Intent: IntentSearchLatest,
			Params: map[string]any{
				"keyword":    DefaultKeyword,
				"sort":       "created",
				"order":      "desc",
				"acceptance": 1,
				"limit":      10,
			},
		}
	}

	if containsAny(lower, detailMarkers) {
		// A detail request needs an identifier; without one the message
		// falls through to the remaining rules.
		if id := subsidyIDPattern.FindString(message); id != "" {
			return Result{
				Intent: IntentGetDetail,
				Params: map[string]any{"subsidy_id": id},
			}
		}
	}

	if containsAny(lower, statisticsMarkers) {
		return Result{
			Intent: IntentGetStatistics,
			Params: map[string]any{
				"keyword":       DefaultKeyword,
				"acceptance":    1,
				"output_format": "summary",
			},
		}
	}

	keyword := DefaultKeyword
	for _, industry := range industryKeywords {
		if strings.Contains(lower, strings.ToLower(industry)) {
			keyword = industry
			break
		}
	}

	// A region mention is detected but deliberately not wired into the
	// parameters: the search tool has no area filter argument today.
	_ = containsAny(lower, regionKeywords)

	return Result{
		Intent: IntentSearch,
		Params: map[string]any{
			"keyword":    keyword,
			"sort":       "acceptance_end",
			"order":      "asc",
			"acceptance": 1,
			"limit":      15,
		},
	}
}

// SearchParams builds default search parameters for the given keyword.
// Used by the LLM classification path, which resolves its own keyword.
func SearchParams(keyword string) map[string]any {
	if keyword == "" {
		keyword = DefaultKeyword
	}
	return map[string]any{
		"keyword":    keyword,
		"sort":       "acceptance_end",
		"order":      "asc",
		"acceptance": 1,
		"limit":      15,
	}
}

// StatisticsParams builds default statistics parameters for the given keyword.
func StatisticsParams(keyword string) map[string]any {
	if keyword == "" {
		keyword = DefaultKeyword
	}
	return map[string]any{
		"keyword":       keyword,
		"acceptance":    1,
		"output_format": "summary",
	}
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, strings.ToLower(n)) {
			return true
		}
	}
	return false
}
