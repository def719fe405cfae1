package subsidy

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// maxListedResults caps how many entries a single reply renders. Search
// replies list at most five subsidies and statistics replies at most five
// deadline months / regions, matching the chat UI's readable length.
const maxListedResults = 5

// deadlineImminent is the status string the tool server emits when a
// subsidy's acceptance window closes within a week. It switches the status
// line's marker from the calendar to the warning pictograph.
const deadlineImminent = "期限間近"

// notFoundMessage is returned for searches with no matching subsidies.
const notFoundMessage = "申し訳ございません。該当する補助金が見つかりませんでした。別のキーワードでお試しください。"

var jaPrinter = message.NewPrinter(language.Japanese)

// formatManYen converts an amount in yen to the 万円 denomination with
// ja-JP digit grouping, e.g. 10000000 -> "1,000".
func formatManYen(yen int64) string {
	return jaPrinter.Sprint(number.Decimal(float64(yen)/10000, number.MaxFractionDigits(3)))
}

// formatDate renders an RFC 3339 timestamp as a ja-JP date ("2024/6/30").
// Returns empty string when the timestamp does not parse.
func formatDate(value string) string {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%d/%d/%d", t.Year(), int(t.Month()), t.Day())
}

func statusMarker(status string) string {
	if status == deadlineImminent {
		return "⚠️"
	}
	return "📅"
}

// FormatSearch renders a search result as a chat reply. At most five
// subsidies are listed; a trailer reports how many more matched.
func FormatSearch(data *SearchResult) string {
	if data == nil || len(data.Results) == 0 {
		return notFoundMessage
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d件の補助金が見つかりました。主な補助金をご紹介します：\n\n", data.TotalCount)

	shown := data.Results
	if len(shown) > maxListedResults {
		shown = shown[:maxListedResults]
	}

	for i, s := range shown {
		fmt.Fprintf(&b, "【%d】%s\n", i+1, s.Title)

		if s.SubsidyMaxLimit > 0 {
			fmt.Fprintf(&b, "💰 補助上限額: %s万円\n", formatManYen(s.SubsidyMaxLimit))
		}
		if s.DeadlineStatus != "" {
			fmt.Fprintf(&b, "%s 受付状況: %s\n", statusMarker(s.DeadlineStatus), s.DeadlineStatus)
		}
		if s.AcceptanceEndDatetime != "" {
			if d := formatDate(s.AcceptanceEndDatetime); d != "" {
				fmt.Fprintf(&b, "📆 締切: %s\n", d)
			}
		}
		if s.TargetAreaSearch != "" {
			fmt.Fprintf(&b, "🌍 対象地域: %s\n", s.TargetAreaSearch)
		}
		if s.TargetIndustry != "" {
			fmt.Fprintf(&b, "🏢 対象業種: %s\n", s.TargetIndustry)
		}
		if s.Detail != "" {
			fmt.Fprintf(&b, "📝 概要: %s\n", s.Detail)
		}
		fmt.Fprintf(&b, "🔗 ID: %s\n\n", s.ID)
	}

	if data.TotalCount > maxListedResults {
		fmt.Fprintf(&b, "他にも%d件の補助金があります。\n", data.TotalCount-maxListedResults)
		b.WriteString("詳細を知りたい場合は、補助金のIDを教えてください。")
	}

	return b.String()
}

// FormatDetail renders a single subsidy's full record as a chat reply.
func FormatDetail(data *Detail) string {
	var b strings.Builder
	fmt.Fprintf(&b, "【%s】の詳細情報\n\n", data.Title)
	fmt.Fprintf(&b, "📝 概要:\n%s\n\n", data.Detail)

	if data.SubsidyMaxLimit > 0 {
		fmt.Fprintf(&b, "💰 補助上限額: %s万円\n", formatManYen(data.SubsidyMaxLimit))
	}
	if data.SubsidyRate != "" {
		fmt.Fprintf(&b, "📊 補助率: %s\n", data.SubsidyRate)
	}

	// The acceptance period renders only when both ends are present.
	if data.AcceptanceStartDatetime != "" && data.AcceptanceEndDatetime != "" {
		start := formatDate(data.AcceptanceStartDatetime)
		end := formatDate(data.AcceptanceEndDatetime)
		if start != "" && end != "" {
			fmt.Fprintf(&b, "📅 受付期間: %s 〜 %s\n", start, end)
		}
	}

	if data.DeadlineStatus != "" {
		fmt.Fprintf(&b, "⏰ 受付状況: %s\n", data.DeadlineStatus)
	}
	if data.TargetAreaSearch != "" {
		fmt.Fprintf(&b, "🌍 対象地域: %s\n", data.TargetAreaSearch)
	}
	if data.TargetIndustry != "" {
		fmt.Fprintf(&b, "🏢 対象業種: %s\n", data.TargetIndustry)
	}
	if data.TargetNumberOfEmployees != "" {
		fmt.Fprintf(&b, "👥 対象企業規模: %s\n", data.TargetNumberOfEmployees)
	}
	if data.InquiryURL != "" {
		fmt.Fprintf(&b, "\n🔗 詳細URL: %s\n", data.InquiryURL)
	}

	if data.Files != nil {
		b.WriteString("\n📎 添付ファイル:\n")
		if len(data.Files.ApplicationGuidelines) > 0 {
			fmt.Fprintf(&b, "  - 公募要領: %d件\n", len(data.Files.ApplicationGuidelines))
		}
		if len(data.Files.OutlineOfGrant) > 0 {
			fmt.Fprintf(&b, "  - 概要資料: %d件\n", len(data.Files.OutlineOfGrant))
		}
		if len(data.Files.ApplicationForm) > 0 {
			fmt.Fprintf(&b, "  - 申請様式: %d件\n", len(data.Files.ApplicationForm))
		}
	}

	b.WriteString("\n※ 最新情報は公式サイトでご確認ください。")
	return b.String()
}

// FormatStatistics renders aggregate statistics as a chat reply.
// Deadline and amount distributions keep the server's bucket order; the
// region distribution is re-sorted by descending count (stable, so equal
// counts keep their original order) and capped at five entries.
func FormatStatistics(data *Statistics) string {
	var b strings.Builder
	b.WriteString("📊 補助金統計情報\n\n")
	fmt.Fprintf(&b, "📈 総件数: %d件（サンプル: %d件）\n\n", data.TotalCount, data.SampledCount)

	if len(data.DeadlineDistribution) > 0 {
		b.WriteString("📅 締切月別分布:\n")
		months := data.DeadlineDistribution
		if len(months) > maxListedResults {
			months = months[:maxListedResults]
		}
		for _, bucket := range months {
			fmt.Fprintf(&b, "  %s: %d件\n", bucket.Key, bucket.Count)
		}
		b.WriteString("\n")
	}

	if len(data.AmountDistribution) > 0 {
		b.WriteString("💰 補助金額分布:\n")
		for _, bucket := range data.AmountDistribution {
			fmt.Fprintf(&b, "  %s: %d件\n", bucket.Key, bucket.Count)
		}
		b.WriteString("\n")
	}

	if len(data.AreaDistribution) > 0 {
		b.WriteString("🌍 地域別分布（上位5件）:\n")
		areas := make(Distribution, len(data.AreaDistribution))
		copy(areas, data.AreaDistribution)
		sort.SliceStable(areas, func(i, j int) bool {
			return areas[i].Count > areas[j].Count
		})
		if len(areas) > maxListedResults {
			areas = areas[:maxListedResults]
		}
		for _, bucket := range areas {
			fmt.Fprintf(&b, "  %s: %d件\n", bucket.Key, bucket.Count)
		}
	}

	return b.String()
}
