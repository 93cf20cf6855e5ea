package environment

import (
	"context"
	"fmt"

	"github.com/boristopalov/arena/pkg/core"
	"github.com/boristopalov/arena/pkg/log"
)

const (
	DefaultRounds  = 1
	DefaultPlayers = 2
	// TokenAction is the action that earns a point
	TokenAction = 0
)

// TokenGame is a small deterministic game: every round each player picks an action in
// Discrete(3) and whoever picks TokenAction scores 1. The episode ends for everyone
// after a fixed number of rounds.
type TokenGame struct {
	rounds     int
	players    []string
	numActions int

	round  int
	scores map[string]float64
}

type TokenGameParams struct {
	Rounds  int
	Players int
}

type TokenGameOption func(*TokenGameParams)

func WithRounds(rounds int) TokenGameOption {
	return func(p *TokenGameParams) {
		p.Rounds = rounds
	}
}

func WithPlayers(players int) TokenGameOption {
	return func(p *TokenGameParams) {
		p.Players = players
	}
}

// NewTokenGame creates a game with players named player_0, player_1, ...
func NewTokenGame(opts ...TokenGameOption) (*TokenGame, error) {
	params := &TokenGameParams{
		Rounds:  DefaultRounds,
		Players: DefaultPlayers,
	}
	for _, opt := range opts {
		opt(params)
	}
	if params.Rounds < 1 {
		return nil, fmt.Errorf("%w: rounds must be positive, got %d", core.ErrInvalidArguments, params.Rounds)
	}
	if params.Players < 1 {
		return nil, fmt.Errorf("%w: players must be positive, got %d", core.ErrInvalidArguments, params.Players)
	}

	players := make([]string, params.Players)
	for i := range players {
		players[i] = fmt.Sprintf("player_%d", i)
	}
	return &TokenGame{
		rounds:     params.Rounds,
		players:    players,
		numActions: 3,
		scores:     make(map[string]float64, len(players)),
	}, nil
}

func (g *TokenGame) AgentNames() []string {
	names := make([]string, len(g.players))
	copy(names, g.players)
	return names
}

func (g *TokenGame) ObservationSpace() core.Space {
	return core.NewDiscrete(g.rounds + 1)
}

func (g *TokenGame) ActionSpace() core.Space {
	return core.NewDiscrete(g.numActions)
}

// Scores returns the points accumulated in the current episode
func (g *TokenGame) Scores() map[string]float64 {
	scores := make(map[string]float64, len(g.scores))
	for name, s := range g.scores {
		scores[name] = s
	}
	return scores
}

func (g *TokenGame) isPlayer(name string) bool {
	for _, p := range g.players {
		if p == name {
			return true
		}
	}
	return false
}

func (g *TokenGame) observations() map[string]any {
	obs := make(map[string]any, len(g.players))
	for _, name := range g.players {
		obs[name] = g.rounds - g.round
	}
	return obs
}

func (g *TokenGame) Reset(ctx context.Context) (map[string]any, error) {
	g.round = 0
	g.scores = make(map[string]float64, len(g.players))
	return g.observations(), nil
}

func (g *TokenGame) Step(ctx context.Context, actions map[string]any) (core.StepResult, error) {
	if g.round >= g.rounds {
		return core.StepResult{}, fmt.Errorf("episode is over after %d rounds, reset first", g.rounds)
	}
	space := g.ActionSpace()
	for name := range actions {
		if !g.isPlayer(name) {
			return core.StepResult{}, fmt.Errorf("%w: %s", core.ErrUnknownAgents, name)
		}
	}
	for _, name := range g.players {
		action, ok := actions[name]
		if !ok {
			return core.StepResult{}, fmt.Errorf("missing action for %s", name)
		}
		if !space.Contains(action) {
			return core.StepResult{}, fmt.Errorf("action %v of %s is not in %s", action, name, space)
		}
	}

	rewards := make(map[string]float64, len(g.players))
	for _, name := range g.players {
		if v, _ := core.AsInt(actions[name]); v == TokenAction {
			rewards[name] = 1
		} else {
			rewards[name] = 0
		}
		g.scores[name] += rewards[name]
	}
	g.round++
	log.Debugf("token game round %d/%d: actions %v, rewards %v", g.round, g.rounds, actions, rewards)

	infos := make(map[string]map[string]any, len(g.players))
	for _, name := range g.players {
		infos[name] = map[string]any{"round": g.round}
	}
	return core.StepResult{
		Observations: g.observations(),
		Rewards:      rewards,
		Dones:        map[string]bool{},
		Infos:        infos,
		AllDone:      g.round >= g.rounds,
	}, nil
}

// Copy returns a game with the same configuration, positioned at the start of an episode
func (g *TokenGame) Copy() (core.MultiAgentEnv, error) {
	return NewTokenGame(WithRounds(g.rounds), WithPlayers(len(g.players)))
}
