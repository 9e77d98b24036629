// Package rank scores questions for the trending feed.
// Pure policy, no I/O
package rank

// Stats carries the ranking ingredients for one question.
// Answer figures count only non-removed answers
type Stats struct {
	Upvotes         int
	Downvotes       int
	ViewCount       int
	LiveAnswers     int
	AnswerNetVotes  int
	HasAcceptedLive bool
}

// Unresolved questions get a dominant boost so active unsolved
// discussion surfaces above solved questions in typical vote ranges
const (
	unresolvedBoost = 50.0
	perAnswerWeight = 5.0
	perViewWeight   = 0.5
)

// TrendingScore computes the trending score for one question
func TrendingScore(s Stats) float64 {
	score := 0.0
	if !s.HasAcceptedLive {
		score += unresolvedBoost
	}
	score += perAnswerWeight * float64(s.LiveAnswers)
	score += float64(s.Upvotes - s.Downvotes + s.AnswerNetVotes)
	score += perViewWeight * float64(s.ViewCount)
	return score
}
