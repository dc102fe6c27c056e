package manager

import (
	"sort"
	"time"
)

// Summary aggregates a set of finished sessions.
type Summary struct {
	GamesPlayed     int
	AverageScore    float64
	MedianScore     float64
	MaxScore        int
	MinScore        int
	AverageDuration time.Duration
	MaxDuration     time.Duration
}

// Summarize computes score and duration statistics over recs.
func Summarize(recs []SessionRecord) Summary {
	if len(recs) == 0 {
		return Summary{}
	}

	s := Summary{
		GamesPlayed: len(recs),
		MaxScore:    recs[0].Score,
		MinScore:    recs[0].Score,
	}

	var totalScore int
	var totalDuration time.Duration
	scores := make([]float64, 0, len(recs))
	for _, r := range recs {
		totalScore += r.Score
		scores = append(scores, float64(r.Score))
		if r.Score > s.MaxScore {
			s.MaxScore = r.Score
		}
		if r.Score < s.MinScore {
			s.MinScore = r.Score
		}

		d := r.Duration()
		totalDuration += d
		if d > s.MaxDuration {
			s.MaxDuration = d
		}
	}

	s.AverageScore = float64(totalScore) / float64(len(recs))
	s.AverageDuration = totalDuration / time.Duration(len(recs))

	sort.Float64s(scores)
	if len(scores)%2 == 0 {
		s.MedianScore = (scores[len(scores)/2-1] + scores[len(scores)/2]) / 2
	} else {
		s.MedianScore = scores[len(scores)/2]
	}

	return s
}
