package score

// DiversityRow is one line of the author diversity report.
type DiversityRow struct {
	Position         int     `json:"position"`
	Multiplier       float64 `json:"multiplier"`
	EffectivePercent float64 `json:"effective_percent"`
}

// DiversityTable returns the diversity multiplier for positions 1..posts.
func DiversityTable(posts int) []DiversityRow {
	rows := make([]DiversityRow, 0, max(posts, 0))
	for i := 1; i <= posts; i++ {
		mult := DiversityMultiplier(i)
		rows = append(rows, DiversityRow{
			Position:         i,
			Multiplier:       mult,
			EffectivePercent: mult * 100,
		})
	}
	return rows
}

// DiminishingReturnsAfter is the display hint for the post position after
// which returns diminish. It is not used in scoring.
func DiminishingReturnsAfter() int {
	base := float64(DiversityBase)
	return int(2 - 1 + (1 / base))
}
