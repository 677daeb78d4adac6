package score

// Probabilities holds the predicted probability of each engagement action.
type Probabilities struct {
	// Positive signals.
	Favorite     float64 `json:"favorite"`
	Reply        float64 `json:"reply"`
	Repost       float64 `json:"repost"`
	Quote        float64 `json:"quote"`
	FollowAuthor float64 `json:"follow_author"`
	VideoView    float64 `json:"video_view"`
	ProfileClick float64 `json:"profile_click"`
	Share        float64 `json:"share"`
	DMShare      float64 `json:"dm_share"`
	LinkCopy     float64 `json:"link_copy"`
	DwellTime    float64 `json:"dwell_time"`
	PhotoExpand  float64 `json:"photo_expand"`
	ContentClick float64 `json:"content_click"`

	// Negative signals.
	NotInterested float64 `json:"not_interested"`
	Block         float64 `json:"block"`
	Mute          float64 `json:"mute"`
	Report        float64 `json:"report"`
}

// Clamp returns a copy with every probability limited to [0, 1].
func (p Probabilities) Clamp() Probabilities {
	for _, f := range p.fields() {
		*f = clamp01(*f)
	}
	return p
}

// HasNegative reports whether any block, mute or report probability is set.
func (p Probabilities) HasNegative() bool {
	return p.Block > 0 || p.Mute > 0 || p.Report > 0
}

func (p *Probabilities) fields() []*float64 {
	return []*float64{
		&p.Favorite, &p.Reply, &p.Repost, &p.Quote, &p.FollowAuthor,
		&p.VideoView, &p.ProfileClick, &p.Share, &p.DMShare, &p.LinkCopy,
		&p.DwellTime, &p.PhotoExpand, &p.ContentClick,
		&p.NotInterested, &p.Block, &p.Mute, &p.Report,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Modifiers are post attributes that scale the weighted score.
type Modifiers struct {
	HasVideo       bool    `json:"has_video"`
	IsOutOfNetwork bool    `json:"is_out_of_network"`
	PostPosition   int     `json:"post_position"`  // position in author's posts today, 1-indexed
	PostAgeHours   float64 `json:"post_age_hours"` // hours since posting
	HasImage       bool    `json:"has_image"`
	HasLink        bool    `json:"has_link"`
	IsReply        bool    `json:"is_reply"`
	IsQuote        bool    `json:"is_quote"`
}

// DefaultModifiers returns modifiers for a fresh, in-network first post.
func DefaultModifiers() Modifiers {
	return Modifiers{PostPosition: 1}
}

// Result is the outcome of a score calculation.
type Result struct {
	FinalScore          float64  `json:"final_score"`
	PositiveScore       float64  `json:"positive_score"`
	NegativeScore       float64  `json:"negative_score"`
	DiversityMultiplier float64  `json:"diversity_multiplier"`
	OONMultiplier       float64  `json:"oon_multiplier"`
	AgeMultiplier       float64  `json:"age_multiplier"`
	VideoBonusApplied   bool     `json:"video_bonus_applied"`
	Interpretation      string   `json:"interpretation"`
	Recommendations     []string `json:"recommendations"`
}

// Multipliers is the multiplier block of a Report.
type Multipliers struct {
	Diversity float64 `json:"diversity"`
	OON       float64 `json:"oon"`
	Age       float64 `json:"age"`
}

// Report is the stable JSON shape emitted for a score result.
type Report struct {
	Score           float64     `json:"score"`
	Positive        float64     `json:"positive"`
	Negative        float64     `json:"negative"`
	Multipliers     Multipliers `json:"multipliers"`
	Interpretation  string      `json:"interpretation"`
	Recommendations []string    `json:"recommendations"`
}

// Report converts the result to its JSON report form.
func (r Result) Report() Report {
	recs := r.Recommendations
	if recs == nil {
		recs = []string{}
	}
	return Report{
		Score:    r.FinalScore,
		Positive: r.PositiveScore,
		Negative: r.NegativeScore,
		Multipliers: Multipliers{
			Diversity: r.DiversityMultiplier,
			OON:       r.OONMultiplier,
			Age:       r.AgeMultiplier,
		},
		Interpretation:  r.Interpretation,
		Recommendations: recs,
	}
}
