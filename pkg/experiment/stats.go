package experiment

import (
	"math"

	"github.com/boristopalov/arena/pkg/log"
)

// Episode is the result of one repetition
type Episode struct {
	Rewards Rewards // summed over the episode
	Steps   int
	Done    bool // false when the step limit cut the episode short
}

// Summary aggregates the episodes of one run
type Summary struct {
	RunID       string
	Repetitions int
	Mean        Rewards
	StdDev      Rewards
	Min         Rewards
	Max         Rewards
	Episodes    []Episode
}

func summarize(names []string, episodes []Episode) *Summary {
	s := &Summary{
		Repetitions: len(episodes),
		Mean:        make(Rewards, len(names)),
		StdDev:      make(Rewards, len(names)),
		Min:         make(Rewards, len(names)),
		Max:         make(Rewards, len(names)),
		Episodes:    episodes,
	}
	n := float64(len(episodes))
	for _, name := range names {
		var total float64
		minReward := math.MaxFloat64
		maxReward := -math.MaxFloat64
		for _, e := range episodes {
			r := e.Rewards[name]
			total += r
			minReward = math.Min(minReward, r)
			maxReward = math.Max(maxReward, r)
		}
		mean := total / n

		var sumSquares float64
		for _, e := range episodes {
			diff := e.Rewards[name] - mean
			sumSquares += diff * diff
		}

		s.Mean[name] = mean
		s.StdDev[name] = math.Sqrt(sumSquares / n)
		s.Min[name] = minReward
		s.Max[name] = maxReward
	}
	return s
}

// TotalSteps returns the number of environment steps over all episodes
func (s *Summary) TotalSteps() int {
	total := 0
	for _, e := range s.Episodes {
		total += e.Steps
	}
	return total
}

// Truncated counts the episodes stopped by the step limit
func (s *Summary) Truncated() int {
	count := 0
	for _, e := range s.Episodes {
		if !e.Done {
			count++
		}
	}
	return count
}

func (s *Summary) log(logger log.Logger) {
	logger.Infof("=== Run %s: %d repetitions, %d steps, %d truncated ===", s.RunID, s.Repetitions, s.TotalSteps(), s.Truncated())
	for _, name := range s.Mean.Names() {
		logger.Infof("  %s: mean %.2f, std %.2f, min %.2f, max %.2f",
			name, s.Mean[name], s.StdDev[name], s.Min[name], s.Max[name])
	}
}
