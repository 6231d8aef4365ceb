package earnings

import (
	"fmt"
	"strings"

	"earnings-sentiment/internal/types"
)

// SystemPrompt is sent with every scoring request.
const SystemPrompt = `You are a financial news sentiment analyst. You receive the recent news coverage of one company ahead of its earnings announcement and rate the overall sentiment toward that company.

Read the headlines and sources as a whole. Consider reported results against expectations, growth or decline, guidance and management commentary, analyst actions and price targets, risks, and the tone of the language. Give more weight to established financial outlets.

Scale, from -10 to +10:
+8 to +10  very positive: exceptional results, expectations beaten by a wide margin, strongly bullish outlook
+4 to +7   positive: solid performance, expectations met or slightly beaten, favorable coverage
+1 to +3   slightly positive: minor good news, stable outlook
0          neutral: factual reporting, or mixed signals that cancel out
-1 to -3   slightly negative: minor concerns, cautious outlook
-4 to -7   negative: missed expectations, declining performance, downgrades
-8 to -10  very negative: major problems, heavy losses, serious concerns

Examples:
"Apple beats earnings expectations, revenue up 20%" -> 8
"Microsoft misses quarterly revenue targets, shares fall" -> -7
"Tesla announces stock split; market reacts positively" -> 5
"Amazon CFO resigns unexpectedly, concerns over leadership" -> -6
"Meta to present at annual tech conference" -> 0

Reply with a single integer from -10 to 10 and nothing else.`

// BuildPrompt renders the user message for one ticker. articles must already
// be limited to the ones that should appear.
func BuildPrompt(ticker string, when types.Announcement, articles []types.Article) string {
	var b strings.Builder
	fmt.Fprintf(&b, "COMPANY: %s\n", ticker)
	fmt.Fprintf(&b, "EARNINGS DATE: %s\n", when.DateString())
	fmt.Fprintf(&b, "EARNINGS DAY: %s\n\n", when.DayString())
	fmt.Fprintf(&b, "Rate the sentiment toward %s expressed by these %d recent news articles:\n\n", ticker, len(articles))
	for i, a := range articles {
		fmt.Fprintf(&b, "%d. HEADLINE: %s\n", i+1, a.Headline)
		fmt.Fprintf(&b, "   SOURCE: %s\n", a.Source)
		fmt.Fprintf(&b, "   URL: %s\n", a.URL)
	}
	fmt.Fprintf(&b, "\nReturn only the sentiment score for %s as a single integer from -10 to 10.", ticker)
	return b.String()
}
