package score

import (
	"math"
	"strconv"
)

// Calculator computes weighted reach scores from engagement probabilities.
type Calculator struct {
	weights Weights
}

// NewCalculator creates a calculator using the given weight table.
// A zero Weights value falls back to DefaultWeights.
func NewCalculator(w Weights) *Calculator {
	if w == (Weights{}) {
		w = DefaultWeights()
	}
	return &Calculator{weights: w}
}

// NewDefaultCalculator creates a calculator with the default weight table.
func NewDefaultCalculator() *Calculator {
	return NewCalculator(DefaultWeights())
}

// Weights returns the weight table in use.
func (c *Calculator) Weights() Weights {
	return c.weights
}

// Calculate returns the final weighted score for a post.
func (c *Calculator) Calculate(p Probabilities, m Modifiers) Result {
	w := c.weights

	positive := p.Favorite*w.Favorite +
		p.Reply*w.Reply +
		p.Repost*w.Repost +
		p.Quote*w.Quote +
		p.FollowAuthor*w.FollowAuthor +
		p.VideoView*w.VideoView +
		p.ProfileClick*w.ProfileClick +
		p.Share*w.Share +
		p.DMShare*w.DMShare +
		p.LinkCopy*w.LinkCopy +
		p.DwellTime*w.DwellTime +
		p.PhotoExpand*w.PhotoExpand +
		p.ContentClick*w.ContentClick

	negative := p.NotInterested*math.Abs(w.NotInterested) +
		p.Block*math.Abs(w.Block) +
		p.Mute*math.Abs(w.Mute) +
		p.Report*math.Abs(w.Report)

	videoBonus := false
	if m.HasVideo && p.VideoView > 0 {
		positive *= w.VideoBonus
		videoBonus = true
	}

	raw := positive - negative

	diversity := diversityMultiplier(m.PostPosition, w.DiversityBase, w.DiversityFloor)
	oon := 1.0
	if m.IsOutOfNetwork {
		oon = w.OONPenalty
	}
	age := AgeMultiplier(m.PostAgeHours)

	final := raw * diversity * oon * age

	return Result{
		FinalScore:          Round(final),
		PositiveScore:       Round(positive),
		NegativeScore:       Round(negative),
		DiversityMultiplier: Round(diversity),
		OONMultiplier:       Round(oon),
		AgeMultiplier:       Round(age),
		VideoBonusApplied:   videoBonus,
		Interpretation:      Interpret(final),
		Recommendations:     Recommend(p, m, final),
	}
}

// DiversityMultiplier returns the author diversity penalty for the given
// 1-indexed post position using the default base and floor.
func DiversityMultiplier(position int) float64 {
	return diversityMultiplier(position, DiversityBase, DiversityFloor)
}

func diversityMultiplier(position int, base, floor float64) float64 {
	if position <= 1 {
		return 1.0
	}
	return math.Max(floor, math.Pow(base, float64(position-1)))
}

// AgeMultiplier returns the linear age decay over the 48 hour window.
func AgeMultiplier(hours float64) float64 {
	if hours <= 0 {
		return 1.0
	}
	if hours >= AgeWindowHours {
		return AgeFloor // content is effectively dead
	}
	return math.Max(AgeFloor, 1-hours/AgeWindowHours)
}

// Round rounds v to 4 decimal places. Exact ties go to the even digit.
func Round(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 4, 64), 64)
	if err != nil {
		return v
	}
	return r
}
