package game

// Progress accumulates score and tracks level thresholds.
type Progress struct {
	Total    int `json:"total"`
	Relative int `json:"relative"`
	Level    int `json:"level"`
	Next     int `json:"next"`

	levelScore int
}

// NewProgress starts at level 1 with the first threshold at levelScore.
func NewProgress(levelScore int) *Progress {
	return &Progress{Level: 1, Next: levelScore, levelScore: levelScore}
}

// Add credits amount and reports whether it completed a level. On level up the
// relative score restarts at zero and the next threshold becomes level*levelScore.
func (p *Progress) Add(amount int) bool {
	p.Relative += amount
	p.Total += amount
	if p.Relative < p.Next {
		return false
	}
	p.Level++
	p.Relative = 0
	p.Next = p.Level * p.levelScore
	return true
}
