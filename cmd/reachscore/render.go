package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/elonfeng/reachscore/internal/store"
	"github.com/elonfeng/reachscore/pkg/batch"
	"github.com/elonfeng/reachscore/pkg/score"
)

const (
	boxWidth    = 40
	ruleWidth   = 60
	barSegments = 20
)

func printHeader(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("═", ruleWidth))
	fmt.Fprintln(w, "  REACH SCORE")
	fmt.Fprintln(w, "  Score Calculator & Strategy Tool")
	fmt.Fprintln(w, strings.Repeat("═", ruleWidth))
	fmt.Fprintln(w)
}

func printScoreResult(w io.Writer, r score.Result) {
	video := "No"
	if r.VideoBonusApplied {
		video = "Yes"
	}

	line := strings.Repeat("─", boxWidth)
	fmt.Fprintf(w, "┌%s┐\n", line)
	fmt.Fprintf(w, "│ FINAL SCORE: %24.4f │\n", r.FinalScore)
	fmt.Fprintf(w, "├%s┤\n", line)
	fmt.Fprintf(w, "│ Positive Score:     %17.4f │\n", r.PositiveScore)
	fmt.Fprintf(w, "│ Negative Score:     %17.4f │\n", r.NegativeScore)
	fmt.Fprintf(w, "│ Diversity Mult:     %17.4f │\n", r.DiversityMultiplier)
	fmt.Fprintf(w, "│ OON Multiplier:     %17.4f │\n", r.OONMultiplier)
	fmt.Fprintf(w, "│ Age Multiplier:     %17.4f │\n", r.AgeMultiplier)
	fmt.Fprintf(w, "│ Video Bonus:        %17s │\n", video)
	fmt.Fprintf(w, "└%s┘\n", line)

	fmt.Fprintf(w, "\n%s\n\n", r.Interpretation)

	if len(r.Recommendations) > 0 {
		fmt.Fprintln(w, "Recommendations:")
		for _, rec := range r.Recommendations {
			fmt.Fprintf(w, "   • %s\n", rec)
		}
	}
}

func printAnalysis(w io.Writer, text string, p score.Probabilities) {
	fmt.Fprintf(w, "Analyzing: %q\n\n", batch.Preview(text, 80))

	fmt.Fprintln(w, "Estimated Engagement Probabilities:")
	fmt.Fprintf(w, "  Likes: %s  |  Replies: %s  |  Reposts: %s\n", pct(p.Favorite), pct(p.Reply), pct(p.Repost))
	fmt.Fprintf(w, "  Shares: %s  |  Profile Clicks: %s\n", pct(p.Share), pct(p.ProfileClick))
	fmt.Fprintf(w, "  Video Views: %s  |  Dwell: %s\n", pct(p.VideoView), pct(p.DwellTime))

	if p.HasNegative() {
		fmt.Fprintln(w, "\nNegative Signals Detected:")
		fmt.Fprintf(w, "  Block: %s  |  Mute: %s  |  Report: %s\n", pct(p.Block), pct(p.Mute), pct(p.Report))
	}
	fmt.Fprintln(w)
}

func printDiversity(w io.Writer, rows []score.DiversityRow) {
	fmt.Fprintln(w, "Author Diversity Penalty Analysis")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Post Position  |  Multiplier  |  Effective Score")
	fmt.Fprintln(w, strings.Repeat("─", 50))

	for _, row := range rows {
		fmt.Fprintf(w, "    Post %2d     |    %s    |  %s %.1f%%\n",
			row.Position, pct(row.Multiplier), bar(row.EffectivePercent), row.EffectivePercent)
	}

	fmt.Fprintln(w, "\nKey insight: Space your posts. Quality > quantity.")
	fmt.Fprintf(w, "   Posts after #%d receive diminishing returns.\n", score.DiminishingReturnsAfter())
}

func printBatch(w io.Writer, r batch.Result) {
	fmt.Fprintf(w, "Batch Analysis (%d posts)\n\n", r.PostCount)
	fmt.Fprintf(w, "Average Score: %.4f\n", r.AverageScore)
	fmt.Fprintf(w, "Best Score: %.4f\n", r.BestScore)
	fmt.Fprintf(w, "Worst Score: %.4f\n", r.WorstScore)

	fmt.Fprintln(w, "\n"+strings.Repeat("─", ruleWidth))
	for _, p := range r.Results {
		fmt.Fprintf(w, "Post %d: %.4f (×%.2f) - %s\n", p.PostNumber, p.Score, p.DiversityPenalty, p.TextPreview)
	}
	fmt.Fprintln(w, strings.Repeat("─", ruleWidth))

	fmt.Fprintf(w, "\n%s\n", r.Recommendation)
}

func printRun(w io.Writer, r *store.Run) {
	fmt.Fprintf(w, "Run #%d (%s) saved %s\n\n", r.ID, r.Kind, r.CreatedAt.Format(time.RFC3339))
	if r.Input != "" {
		fmt.Fprintf(w, "Input:\n%s\n\n", r.Input)
	}
	fmt.Fprintf(w, "Score:          %.4f\n", r.FinalScore)
	fmt.Fprintf(w, "Positive:       %.4f\n", r.PositiveScore)
	fmt.Fprintf(w, "Negative:       %.4f\n", r.NegativeScore)
	fmt.Fprintf(w, "Multipliers:    diversity %.4f, oon %.4f, age %.4f\n",
		r.DiversityMultiplier, r.OONMultiplier, r.AgeMultiplier)
	fmt.Fprintf(w, "Weights:        %s\n", r.WeightsVersion)
	fmt.Fprintf(w, "\n%s\n", r.Interpretation)

	if len(r.Recommendations) > 0 {
		fmt.Fprintln(w, "\nRecommendations:")
		for _, rec := range r.Recommendations {
			fmt.Fprintf(w, "   • %s\n", rec)
		}
	}
}

// printCounts writes saved run totals per kind in name order.
func printCounts(w io.Writer, counts map[store.Kind]int) {
	parts := make([]string, 0, len(counts))
	for _, k := range slices.Sorted(maps.Keys(counts)) {
		parts = append(parts, fmt.Sprintf("%s %d", k, counts[k]))
	}
	fmt.Fprintf(w, "\nsaved runs: %s\n", strings.Join(parts, ", "))
}

func pct(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}

// bar draws a 20 segment gauge, one filled segment per 5 percent.
func bar(percent float64) string {
	filled := min(max(int(percent/5), 0), barSegments)
	return strings.Repeat("█", filled) + strings.Repeat("░", barSegments-filled)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
