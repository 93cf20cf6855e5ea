package experiment

import (
	"context"
	"fmt"

	"github.com/boristopalov/arena/pkg/core"
)

// AgentFactory builds the agents to evaluate from a parameter vector
type AgentFactory func(params []float64) ([]AgentArg, error)

// Objective maps parameters to the mean rewards they obtain, for use by an external
// optimizer.
type Objective func(ctx context.Context, params []float64) (Rewards, error)

// NewObjective binds a runner and an agent factory into an Objective
func NewObjective(runner *Runner, factory AgentFactory) Objective {
	return func(ctx context.Context, params []float64) (Rewards, error) {
		args, err := factory(params)
		if err != nil {
			return nil, fmt.Errorf("failed to build agents: %w", err)
		}
		return runner.Run(ctx, args...)
	}
}

// Scalar narrows the objective of a single-agent runner to its one reward
func (o Objective) Scalar() func(ctx context.Context, params []float64) (float64, error) {
	return func(ctx context.Context, params []float64) (float64, error) {
		rewards, err := o(ctx, params)
		if err != nil {
			return 0, err
		}
		value, ok := rewards.Scalar()
		if !ok {
			return 0, fmt.Errorf("%w: objective has %d participants", core.ErrAgentCount, len(rewards))
		}
		return value, nil
	}
}
