package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dvorn/feynman-tools/sim"
)

type SimulateRequest struct {
	RewardWeight float64 `json:"reward_weight"`
	LearningRate float64 `json:"learning_rate"`
	Episodes     int     `json:"episodes"`
}

type TokenDistribution struct {
	Token       string  `json:"token"`
	Probability float64 `json:"probability"`
}

type SimulateResponse struct {
	EpisodeRewards     []float64           `json:"episode_rewards"`
	TokenDistributions []TokenDistribution `json:"token_distributions"`
}

func (s *Server) handleSimulate(c *gin.Context) {
	var req SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if req.Episodes > s.cfg.MaxEpisodes {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":        "Episode count exceeds server limit",
			"max_episodes": s.cfg.MaxEpisodes,
		})
		return
	}

	// Each request gets its own run: the parameter vector lives inside
	// Run, so concurrent requests cannot interleave updates.
	result, err := s.sim.Run(c.Request.Context(), sim.Config{
		RewardWeight: req.RewardWeight,
		LearningRate: req.LearningRate,
		Episodes:     req.Episodes,
		Reward:       sim.FavorAction(s.cfg.RewardToken),
	})
	if err != nil {
		switch {
		case errors.Is(err, sim.ErrNegativeEpisodes), errors.Is(err, sim.ErrNonFiniteParam):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid simulation parameters", "details": err.Error()})
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			slog.Warn("simulation cancelled", "episodes", req.Episodes, "error", err)
			c.Abort()
		default:
			slog.Error("simulation failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Simulation failed", "details": err.Error()})
		}
		return
	}

	resp := SimulateResponse{
		EpisodeRewards:     result.EpisodeRewards(),
		TokenDistributions: make([]TokenDistribution, len(result.Distribution)),
	}
	for i, tp := range result.Distribution {
		resp.TokenDistributions[i] = TokenDistribution{Token: tp.Token, Probability: tp.Probability}
	}

	slog.Info("simulation complete",
		"episodes", req.Episodes,
		"learning_rate", req.LearningRate,
		"reward_weight", req.RewardWeight,
	)
	c.JSON(http.StatusOK, resp)
}
