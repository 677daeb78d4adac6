package batch

import (
	"fmt"

	"github.com/elonfeng/reachscore/pkg/content"
	"github.com/elonfeng/reachscore/pkg/score"
)

const previewRunes = 50

// Batch recommendation texts.
const (
	RecEmpty    = "No posts to analyze."
	RecLow      = "Overall low engagement predicted. Review content strategy."
	RecModerate = "Moderate engagement expected. Focus on increasing likeability."
	RecGood     = "Good engagement potential across posts."
)

// PostResult is the per-post summary of a batch run.
type PostResult struct {
	PostNumber       int     `json:"post_number"`
	TextPreview      string  `json:"text_preview"`
	Score            float64 `json:"score"`
	DiversityPenalty float64 `json:"diversity_penalty"`
	Interpretation   string  `json:"interpretation"`
}

// Result summarizes a batch of posts.
type Result struct {
	PostCount      int          `json:"post_count"`
	AverageScore   float64      `json:"average_score"`
	BestScore      float64      `json:"best_score"`
	WorstScore     float64      `json:"worst_score"`
	Results        []PostResult `json:"results"`
	Recommendation string       `json:"recommendation"`
}

// Aggregator scores an ordered sequence of posts.
type Aggregator struct {
	analyzer   *content.Analyzer
	calculator *score.Calculator
}

// New creates an aggregator. Nil arguments use the defaults.
func New(analyzer *content.Analyzer, calculator *score.Calculator) *Aggregator {
	if analyzer == nil {
		analyzer = content.NewAnalyzer()
	}
	if calculator == nil {
		calculator = score.NewDefaultCalculator()
	}
	return &Aggregator{analyzer: analyzer, calculator: calculator}
}

// Analyze scores each post in order. When sameAuthor is set, post i is
// treated as the author's (i+1)th post of the day.
func (a *Aggregator) Analyze(posts []string, sameAuthor bool) Result {
	results := make([]PostResult, 0, len(posts))

	for i, post := range posts {
		probs, mods := a.analyzer.Analyze(post)
		if sameAuthor {
			mods.PostPosition = i + 1
		}

		r := a.calculator.Calculate(probs, mods)
		results = append(results, PostResult{
			PostNumber:       i + 1,
			TextPreview:      Preview(post, previewRunes),
			Score:            r.FinalScore,
			DiversityPenalty: r.DiversityMultiplier,
			Interpretation:   r.Interpretation,
		})
	}

	out := Result{
		PostCount:      len(posts),
		Results:        results,
		Recommendation: recommend(results, sameAuthor),
	}
	if len(results) > 0 {
		sum := 0.0
		best, worst := results[0].Score, results[0].Score
		for _, r := range results {
			sum += r.Score
			best = max(best, r.Score)
			worst = min(worst, r.Score)
		}
		out.AverageScore = score.Round(sum / float64(len(results)))
		out.BestScore = score.Round(best)
		out.WorstScore = score.Round(worst)
	}
	return out
}

func recommend(results []PostResult, sameAuthor bool) string {
	if len(results) == 0 {
		return RecEmpty
	}

	if sameAuthor && len(results) > 3 {
		return fmt.Sprintf("Warning: %d posts from same author. "+
			"Posts 4+ receive <20%% of normal score. "+
			"Consider spacing posts throughout the day.", len(results))
	}

	sum := 0.0
	for _, r := range results {
		sum += r.Score
	}
	avg := sum / float64(len(results))

	switch {
	case avg < 0.5:
		return RecLow
	case avg < 1.0:
		return RecModerate
	default:
		return RecGood
	}
}

// Preview returns the first n runes of s, with "..." appended when s is longer.
func Preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
