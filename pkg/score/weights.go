package score

// WeightsVersion labels the current weight table. Bump it whenever a value
// below changes so stored runs can be compared against the table they used.
const WeightsVersion = "2025.1"

// Positive signal weights.
const (
	WeightFavorite     = 1.0
	WeightReply        = 0.8
	WeightRepost       = 0.75
	WeightQuote        = 0.7
	WeightFollowAuthor = 1.2
	WeightVideoView    = 0.9
	WeightProfileClick = 0.5
	WeightShare        = 0.4
	WeightDMShare      = 0.5
	WeightLinkCopy     = 0.45
	WeightDwellTime    = 0.3
	WeightPhotoExpand  = 0.2
	WeightContentClick = 0.15
)

// Negative signal weights. Stored negative, applied as absolute values.
const (
	WeightNotInterested = -0.6
	WeightBlock         = -1.5
	WeightMute          = -1.2
	WeightReport        = -2.0
)

// Score modifiers.
const (
	VideoBonus     = 1.15
	OONPenalty     = 0.7
	DiversityBase  = 0.45
	DiversityFloor = 0.10

	AgeWindowHours = 48.0
	AgeFloor       = 0.1
)

// Weights is the full signal weight table used by a Calculator.
type Weights struct {
	Version string `json:"version"`

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

	NotInterested float64 `json:"not_interested"`
	Block         float64 `json:"block"`
	Mute          float64 `json:"mute"`
	Report        float64 `json:"report"`

	VideoBonus     float64 `json:"video_bonus"`
	OONPenalty     float64 `json:"oon_penalty"`
	DiversityBase  float64 `json:"diversity_base"`
	DiversityFloor float64 `json:"diversity_floor"`
}

// DefaultWeights returns the weight table built from the package constants.
func DefaultWeights() Weights {
	return Weights{
		Version: WeightsVersion,

		Favorite:     WeightFavorite,
		Reply:        WeightReply,
		Repost:       WeightRepost,
		Quote:        WeightQuote,
		FollowAuthor: WeightFollowAuthor,
		VideoView:    WeightVideoView,
		ProfileClick: WeightProfileClick,
		Share:        WeightShare,
		DMShare:      WeightDMShare,
		LinkCopy:     WeightLinkCopy,
		DwellTime:    WeightDwellTime,
		PhotoExpand:  WeightPhotoExpand,
		ContentClick: WeightContentClick,

		NotInterested: WeightNotInterested,
		Block:         WeightBlock,
		Mute:          WeightMute,
		Report:        WeightReport,

		VideoBonus:     VideoBonus,
		OONPenalty:     OONPenalty,
		DiversityBase:  DiversityBase,
		DiversityFloor: DiversityFloor,
	}
}
