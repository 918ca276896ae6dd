package sim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	erand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"
)

var (
	ErrEmptyVocabulary  = errors.New("vocabulary is empty")
	ErrDuplicateToken   = errors.New("vocabulary contains duplicate tokens")
	ErrNegativeEpisodes = errors.New("episode count is negative")
	ErrNonFiniteParam   = errors.New("parameter is not finite")
	ErrNoRewardFunc     = errors.New("no reward function configured")
)

// RewardFunc maps a sampled action index to a scalar reward.
type RewardFunc func(action int) float64

// FavorAction returns a reward function paying 1 when the sampled action
// matches target and 0 otherwise.
func FavorAction(target int) RewardFunc {
	return func(action int) float64 {
		if action == target {
			return 1
		}
		return 0
	}
}

// Config holds the parameters of a single simulation run.
type Config struct {
	RewardWeight float64
	LearningRate float64
	Episodes     int

	Reward RewardFunc

	// Source drives action sampling. A seeded source makes the run
	// reproducible. When nil a time-seeded source is used.
	Source erand.Source
}

// Episode records one sample-then-update cycle.
type Episode struct {
	Action int
	Reward float64
}

// TokenProbability pairs a vocabulary token with its probability under the
// final policy.
type TokenProbability struct {
	Token       string
	Probability float64
}

// Result holds the outcome of a simulation run. Episodes are in episode
// order and Distribution is in vocabulary order.
type Result struct {
	Episodes     []Episode
	Distribution []TokenProbability
}

// EpisodeRewards returns the reward of each episode in episode order.
func (r *Result) EpisodeRewards() []float64 {
	rewards := make([]float64, len(r.Episodes))
	for i, e := range r.Episodes {
		rewards[i] = e.Reward
	}
	return rewards
}

// Simulator runs categorical policy-gradient simulations over a fixed
// vocabulary. The vocabulary is immutable after construction, so a single
// Simulator is safe to share between concurrent Run calls: every run owns
// its parameter vector.
type Simulator struct {
	vocab []string
}

func NewSimulator(vocab []string) (*Simulator, error) {
	if len(vocab) == 0 {
		return nil, ErrEmptyVocabulary
	}
	seen := make(map[string]bool, len(vocab))
	for _, tok := range vocab {
		if seen[tok] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateToken, tok)
		}
		seen[tok] = true
	}
	s := &Simulator{vocab: make([]string, len(vocab))}
	copy(s.vocab, vocab)
	return s, nil
}

// Vocabulary returns a copy of the token vocabulary in order.
func (s *Simulator) Vocabulary() []string {
	out := make([]string, len(s.vocab))
	copy(out, s.vocab)
	return out
}

func (s *Simulator) validate(cfg Config) error {
	if cfg.Episodes < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeEpisodes, cfg.Episodes)
	}
	if math.IsNaN(cfg.RewardWeight) || math.IsInf(cfg.RewardWeight, 0) {
		return fmt.Errorf("reward weight: %w", ErrNonFiniteParam)
	}
	if math.IsNaN(cfg.LearningRate) || math.IsInf(cfg.LearningRate, 0) {
		return fmt.Errorf("learning rate: %w", ErrNonFiniteParam)
	}
	if cfg.Reward == nil {
		return ErrNoRewardFunc
	}
	return nil
}

// Run executes cfg.Episodes REINFORCE updates and returns the recorded
// episodes along with the final token distribution. The logits start at
// zero and live only for the duration of the call.
//
// The loop checks ctx between episodes; on cancellation the context error
// is returned and no partial result is produced.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validate(cfg); err != nil {
		return nil, err
	}

	src := cfg.Source
	if src == nil {
		src = erand.NewSource(uint64(time.Now().UnixNano()))
	}

	n := len(s.vocab)
	logits := make([]float64, n)
	episodes := make([]Episode, 0, cfg.Episodes)

	for episode := 0; episode < cfg.Episodes; episode++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		probs := Softmax(logits)
		action, ok := sampleuv.NewWeighted(probs, src).Take()
		if !ok {
			return nil, fmt.Errorf("episode %d: sampling from policy failed", episode)
		}

		reward := cfg.Reward(action)

		// REINFORCE on a categorical policy: grad = onehot(action) - probs.
		scale := cfg.LearningRate * cfg.RewardWeight * reward
		for i := range logits {
			grad := -probs[i]
			if i == action {
				grad = 1 - probs[i]
			}
			logits[i] += scale * grad
		}

		episodes = append(episodes, Episode{Action: action, Reward: reward})
	}

	final := Softmax(logits)
	dist := make([]TokenProbability, n)
	for i, tok := range s.vocab {
		dist[i] = TokenProbability{Token: tok, Probability: final[i]}
	}

	return &Result{Episodes: episodes, Distribution: dist}, nil
}
