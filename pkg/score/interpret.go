package score

import "fmt"

// Band maps scores below Upper to an interpretation.
type Band struct {
	Upper float64
	Label string
}

// Bands are checked in ascending order; the first band whose Upper exceeds
// the score wins. Scores at or above the last bound get ViralInterpretation.
var Bands = []Band{
	{Upper: 0.3, Label: "LOW REACH: Content likely to be suppressed significantly"},
	{Upper: 0.6, Label: "MODERATE-LOW REACH: Content will struggle to gain traction"},
	{Upper: 1.0, Label: "MODERATE REACH: Content should reach some users"},
	{Upper: 1.5, Label: "GOOD REACH: Content is well-positioned in the algorithm"},
	{Upper: 2.0, Label: "EXCELLENT REACH: Content optimized for strong distribution"},
}

// ViralInterpretation is returned for scores of 2.0 and above.
const ViralInterpretation = "VIRAL POTENTIAL: Content has maximum algorithmic support"

// Interpret returns the human-readable reach band for a final score.
func Interpret(score float64) string {
	for _, b := range Bands {
		if score < b.Upper {
			return b.Label
		}
	}
	return ViralInterpretation
}

// Recommendation texts.
const (
	RecNegativeSignals = "WARNING: High negative signal probability. Review content for controversial elements."
	RecNotInterested   = "Consider making content more engaging or relevant to your audience."
	RecOutOfNetwork    = "Out-of-network content receives ~30% penalty. Build your follower base."
	RecAging           = "Post is aging. Content has best reach within first 24 hours."
	RecAddVideo        = "Consider adding native video for additional algorithmic boost."
	RecLowLikes        = "Low predicted likes. Focus on creating more likeable content (primary metric)."
	RecLowShare        = "Low shareability. Create content worth sharing privately."
	RecOptimized       = "Content is well-optimized! Continue this approach."
)

// Recommendation thresholds.
const (
	blockThreshold         = 0.05
	muteThreshold          = 0.05
	reportThreshold        = 0.02
	notInterestedThreshold = 0.1
	spacingPosition        = 2
	agingHours             = 24.0
	lowLikesThreshold      = 0.3
	lowShareThreshold      = 0.05
	lowDMShareThreshold    = 0.02
	optimizedScore         = 1.5
)

// Recommend returns actionable advice in a fixed order. Every rule is
// evaluated; the optimized message only appears when nothing else fired.
func Recommend(p Probabilities, m Modifiers, final float64) []string {
	recs := []string{}

	if p.Block > blockThreshold || p.Mute > muteThreshold || p.Report > reportThreshold {
		recs = append(recs, RecNegativeSignals)
	}
	if p.NotInterested > notInterestedThreshold {
		recs = append(recs, RecNotInterested)
	}
	if m.PostPosition > spacingPosition {
		recs = append(recs, fmt.Sprintf("You're on post #%d today. Consider spacing posts for better reach.", m.PostPosition))
	}
	if m.IsOutOfNetwork {
		recs = append(recs, RecOutOfNetwork)
	}
	if m.PostAgeHours > agingHours {
		recs = append(recs, RecAging)
	}
	if !m.HasVideo && p.VideoView == 0 {
		recs = append(recs, RecAddVideo)
	}
	if p.Favorite < lowLikesThreshold {
		recs = append(recs, RecLowLikes)
	}
	if p.Share < lowShareThreshold && p.DMShare < lowDMShareThreshold {
		recs = append(recs, RecLowShare)
	}

	if final > optimizedScore && len(recs) == 0 {
		recs = append(recs, RecOptimized)
	}
	return recs
}
