package content

import (
	"strings"

	"github.com/elonfeng/reachscore/pkg/score"
)

// Base probabilities for a post with no notable features.
var BaseProbabilities = score.Probabilities{
	Favorite:     0.3,
	Reply:        0.15,
	Repost:       0.08,
	Quote:        0.04,
	ProfileClick: 0.12,
	Share:        0.05,
	DMShare:      0.02,
	DwellTime:    0.25,
}

// Word count bounds for the dwell time adjustment.
const (
	longPostWords  = 50
	shortPostWords = 10
)

// Analyzer estimates engagement probabilities from post text.
type Analyzer struct {
	rules []rule
	media []mediaRule
}

// NewAnalyzer creates an analyzer with the default heuristic rules.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		rules: defaultRules(),
		media: defaultMediaRules(),
	}
}

// Analyze returns estimated probabilities and detected modifiers for text.
// Every returned probability is within [0, 1].
func (a *Analyzer) Analyze(text string) (score.Probabilities, score.Modifiers) {
	lower := strings.ToLower(text)
	words := len(strings.Fields(text))

	probs := BaseProbabilities
	mods := score.DefaultModifiers()

	for _, r := range a.rules {
		if hits := r.hits(lower); hits > 0 {
			r.apply(&probs, hits)
		}
	}

	for _, r := range a.media {
		if r.matches(lower) {
			r.apply(&probs, &mods)
		}
	}

	switch {
	case words > longPostWords:
		probs.DwellTime += 0.15
	case words < shortPostWords:
		probs.DwellTime -= 0.1
	}

	if strings.HasPrefix(lower, "@") {
		mods.IsReply = true
	}

	return probs.Clamp(), mods
}

// Matched returns the names of the rules that fire for text, in evaluation
// order. Used for explaining an analysis.
func (a *Analyzer) Matched(text string) []string {
	lower := strings.ToLower(text)
	var names []string
	for _, r := range a.rules {
		if r.hits(lower) > 0 {
			names = append(names, r.name)
		}
	}
	for _, r := range a.media {
		if r.matches(lower) {
			names = append(names, r.name)
		}
	}
	return names
}
