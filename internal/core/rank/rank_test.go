package rank

import "testing"

func TestTrendingScoreComponents(t *testing.T) {
	// bare unsolved question
	if got := TrendingScore(Stats{}); got != 50 {
		t.Fatalf("empty unsolved = %v, want 50", got)
	}
	// solved question with nothing else scores zero
	if got := TrendingScore(Stats{HasAcceptedLive: true}); got != 0 {
		t.Fatalf("solved empty = %v, want 0", got)
	}
	// views weigh half
	if got := TrendingScore(Stats{HasAcceptedLive: true, ViewCount: 10}); got != 5 {
		t.Fatalf("10 views = %v, want 5", got)
	}
	// answers weigh five each
	if got := TrendingScore(Stats{HasAcceptedLive: true, LiveAnswers: 3}); got != 15 {
		t.Fatalf("3 answers = %v, want 15", got)
	}
	// net votes pass through
	if got := TrendingScore(Stats{HasAcceptedLive: true, Upvotes: 7, Downvotes: 2, AnswerNetVotes: 4}); got != 9 {
		t.Fatalf("net votes = %v, want 9", got)
	}
}

// Unsolved, actively discussed question outranks a solved one with
// more views and votes
func TestTrendingUnsolvedBeatsSolved(t *testing.T) {
	unsolved := Stats{
		LiveAnswers:    2,
		AnswerNetVotes: 9 + 8,
		ViewCount:      20,
		Upvotes:        2,
	}
	solved := Stats{
		HasAcceptedLive: true,
		LiveAnswers:     1,
		AnswerNetVotes:  14,
		ViewCount:       50,
		Upvotes:         1,
	}

	us := TrendingScore(unsolved)
	ss := TrendingScore(solved)

	// 50 + 10 + 19 + 10 = 89 vs 0 + 5 + 15 + 25 = 45
	if us != 89 {
		t.Fatalf("unsolved score = %v, want 89", us)
	}
	if ss != 45 {
		t.Fatalf("solved score = %v, want 45", ss)
	}
	if us <= ss {
		t.Fatalf("unsolved (%v) must outrank solved (%v)", us, ss)
	}
}
