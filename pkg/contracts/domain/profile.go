package domain

// DifficultyCount is one bucket of LeetCode's submitStatsGlobal lists.
// Count is the number of distinct problems, Submissions the number of attempts.
type DifficultyCount struct {
	Difficulty  string `json:"difficulty"`
	Count       int    `json:"count"`
	Submissions int    `json:"submissions"`
}

// DifficultyStat is the acceptance summary for a single difficulty.
type DifficultyStat struct {
	Difficulty       string  `json:"difficulty"`
	SolvedCount      int     `json:"solved_count"`
	TotalSubmissions int     `json:"total_submissions"`
	AcceptanceRate   float64 `json:"acceptance_rate"`
}

// LanguageUsage counts accepted submissions per language.
type LanguageUsage struct {
	Language   string  `json:"language"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// TopicKey identifies a TopicStrength. Difficulty is empty for platforms
// that do not grade problems by difficulty name.
type TopicKey struct {
	Topic      string
	Difficulty string
}

// TopicStrength counts solved problems per topic tag (and difficulty).
type TopicStrength struct {
	Topic       string `json:"topic"`
	Difficulty  string `json:"difficulty,omitempty"`
	SolvedCount int    `json:"solved_count"`
}

// Key returns the grouping key of the strength.
func (t TopicStrength) Key() TopicKey {
	return TopicKey{Topic: t.Topic, Difficulty: t.Difficulty}
}

// ContestResult is one entry of a user's contest history.
//
// LeetCode fills Rating, Trend and ProblemsSolved; Codeforces fills
// RatingBefore and RatingAfter. Only attended contests are exported.
type ContestResult struct {
	ContestName    string  `json:"contest_name"`
	Rank           int     `json:"rank"`
	Rating         float64 `json:"rating,omitempty"`
	RatingBefore   int     `json:"rating_before,omitempty"`
	RatingAfter    int     `json:"rating_after,omitempty"`
	ProblemsSolved int     `json:"problems_solved,omitempty"`
	Trend          string  `json:"trend,omitempty"`
	Attended       bool    `json:"attended"`
}

// UserProfile is the Codeforces user.info summary. Rating, MaxRating and
// Rank are absent for users who never took part in a rated contest.
type UserProfile struct {
	Handle       string `json:"handle"`
	Rating       *int   `json:"rating,omitempty"`
	MaxRating    *int   `json:"max_rating,omitempty"`
	Rank         string `json:"rank,omitempty"`
	Contribution int    `json:"contribution"`
}
