package content

import (
	"math"
	"regexp"
	"strings"

	"github.com/elonfeng/reachscore/pkg/score"
)

// Pattern lists. Matching happens on lower-cased text.
var (
	QuestionPatterns   = []string{`\?`, `what do you think`, `thoughts\?`, `agree\?`}
	CallToAction       = []string{`retweet`, `rt if`, `share`, `like if`, `follow`}
	ControversyMarkers = []string{`hot take`, `unpopular opinion`, `controversial`}
	PositiveSentiment  = []string{`amazing`, `incredible`, `love`, `best`, `great`}
	NegativeTriggers   = []string{`hate`, `worst`, `terrible`, `fight me`, `argue`}
	LinkMarkers        = []string{"http", "pic.", "video", "📹", "🎥"}
	ImageMarkers       = []string{"📷", "🖼️", "photo", "image"}
	VideoMarkers       = []string{"video", "📹", "🎥", "watch"}
)

// matchMode controls how a rule turns pattern hits into a count.
type matchMode int

const (
	firstMatch matchMode = iota // stop at the first matching pattern
	countAll                    // count every pattern that matches
)

// rule applies an effect when its patterns match the text.
type rule struct {
	name     string
	patterns []*regexp.Regexp
	mode     matchMode
	apply    func(p *score.Probabilities, hits int)
}

// hits returns 1 on the first match for firstMatch rules, or the number of
// matching patterns for countAll rules.
func (r rule) hits(lower string) int {
	n := 0
	for _, re := range r.patterns {
		if re.MatchString(lower) {
			if r.mode == firstMatch {
				return 1
			}
			n++
		}
	}
	return n
}

// mediaRule sets flags when any marker substring is present.
type mediaRule struct {
	name    string
	markers []string
	apply   func(p *score.Probabilities, m *score.Modifiers)
}

func (r mediaRule) matches(lower string) bool {
	for _, marker := range r.markers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func compile(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

func defaultRules() []rule {
	return []rule{
		{
			name:     "question",
			patterns: compile(QuestionPatterns),
			mode:     firstMatch,
			apply: func(p *score.Probabilities, _ int) {
				p.Reply += 0.15
			},
		},
		{
			name:     "call_to_action",
			patterns: compile(CallToAction),
			mode:     firstMatch,
			apply: func(p *score.Probabilities, _ int) {
				p.Repost += 0.1
				p.Share += 0.05
			},
		},
		{
			name:     "positive_sentiment",
			patterns: compile(PositiveSentiment),
			mode:     countAll,
			apply: func(p *score.Probabilities, hits int) {
				p.Favorite += math.Min(0.2, float64(hits)*0.05)
			},
		},
		{
			name:     "controversy",
			patterns: compile(ControversyMarkers),
			mode:     firstMatch,
			apply: func(p *score.Probabilities, _ int) {
				p.Reply += 0.1
				p.Quote += 0.08
				p.NotInterested += 0.05
				p.Mute += 0.02
			},
		},
		{
			name:     "negative_triggers",
			patterns: compile(NegativeTriggers),
			mode:     countAll,
			apply: func(p *score.Probabilities, hits int) {
				n := float64(hits)
				p.Block += math.Min(0.05, n*0.02)
				p.Mute += math.Min(0.08, n*0.03)
				p.NotInterested += math.Min(0.15, n*0.05)
			},
		},
	}
}

func defaultMediaRules() []mediaRule {
	return []mediaRule{
		{
			name:    "link",
			markers: LinkMarkers,
			apply: func(_ *score.Probabilities, m *score.Modifiers) {
				m.HasLink = true
			},
		},
		{
			name:    "image",
			markers: ImageMarkers,
			apply: func(p *score.Probabilities, m *score.Modifiers) {
				m.HasImage = true
				p.PhotoExpand = 0.15
			},
		},
		{
			name:    "video",
			markers: VideoMarkers,
			apply: func(p *score.Probabilities, m *score.Modifiers) {
				m.HasVideo = true
				p.VideoView = 0.35
			},
		},
	}
}
