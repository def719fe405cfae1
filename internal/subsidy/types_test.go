package subsidy

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistribution_UnmarshalPreservesOrder(t *testing.T) {
	raw := `{"2024-06": 3, "2024-05": 7, "2024-07": 1}`

	var d Distribution
	require.NoError(t, json.Unmarshal([]byte(raw), &d))

	require.Len(t, d, 3)
	assert.Equal(t, Bucket{"2024-06", 3}, d[0])
	assert.Equal(t, Bucket{"2024-05", 7}, d[1])
	assert.Equal(t, Bucket{"2024-07", 1}, d[2])
}

func TestDistribution_UnmarshalNull(t *testing.T) {
	var d Distribution
	require.NoError(t, json.Unmarshal([]byte("null"), &d))
	assert.Nil(t, d)
}

func TestDistribution_UnmarshalRejectsNonObject(t *testing.T) {
	var d Distribution
	assert.Error(t, json.Unmarshal([]byte(`[1,2,3]`), &d))
}

func TestDistribution_MarshalRoundTrip(t *testing.T) {
	d := Distribution{{"不明", 4}, {"100万円未満", 30}}

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{"不明":4,"100万円未満":30}`, string(out))

	var back Distribution
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, d, back)
}

func TestStatistics_UnmarshalFull(t *testing.T) {
	raw := `{
		"total_count": 42,
		"sampled_count": 40,
		"deadline_distribution": {"2024-05": 10, "2024-06": 20},
		"amount_distribution": {"不明": 2, "1000万円以上": 5},
		"area_distribution": {"東京": 9, "大阪": 9, "福岡": 5}
	}`

	var s Statistics
	require.NoError(t, json.Unmarshal([]byte(raw), &s))

	assert.Equal(t, 42, s.TotalCount)
	assert.Equal(t, 40, s.SampledCount)
	assert.Equal(t, "2024-05", s.DeadlineDistribution[0].Key)
	assert.Equal(t, "不明", s.AmountDistribution[0].Key)
	assert.Len(t, s.AreaDistribution, 3)
	assert.Nil(t, s.IndustryDistribution)
}

func TestSearchResult_Unmarshal(t *testing.T) {
	raw := `{
		"results": [{"id": "abcdefgh12345678XY", "title": "テスト補助金", "subsidy_max_limit": 5000000}],
		"total_count": 1,
		"page": 1,
		"limit": 15
	}`

	var r SearchResult
	require.NoError(t, json.Unmarshal([]byte(raw), &r))

	require.Len(t, r.Results, 1)
	assert.Equal(t, "abcdefgh12345678XY", r.Results[0].ID)
	assert.Equal(t, int64(5000000), r.Results[0].SubsidyMaxLimit)
	assert.Equal(t, 15, r.Limit)
}

func TestDetail_UnmarshalWithFiles(t *testing.T) {
	raw := `{
		"id": "abcdefgh12345678XY",
		"title": "テスト補助金",
		"detail": "概要です",
		"files": {"application_guidelines": ["file://a.pdf"], "outline_of_grant": []}
	}`

	var d Detail
	require.NoError(t, json.Unmarshal([]byte(raw), &d))

	require.NotNil(t, d.Files)
	assert.Len(t, d.Files.ApplicationGuidelines, 1)
	assert.Empty(t, d.Files.OutlineOfGrant)
}
