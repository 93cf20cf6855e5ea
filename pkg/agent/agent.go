package agent

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/boristopalov/arena/pkg/core"
)

func newAgentID() string {
	return "agent-" + uuid.New().String()
}

// RandomAgent samples uniformly from an action space
type RandomAgent struct {
	id    string
	space core.Space
	seed  int64
	rng   *rand.Rand
}

// NewRandomAgent creates an agent sampling from space. A zero seed picks a time based one.
func NewRandomAgent(space core.Space, seed int64) *RandomAgent {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomAgent{
		id:    newAgentID(),
		space: space,
		seed:  seed,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

func (a *RandomAgent) GetID() string {
	return a.id
}

func (a *RandomAgent) Act(ctx context.Context, outcome core.Outcome) (any, error) {
	return a.space.Sample(a.rng), nil
}

func (a *RandomAgent) Reset() {}

// Copy returns a new agent over the same space whose generator restarts from the seed
func (a *RandomAgent) Copy() core.Agent {
	return NewRandomAgent(a.space, a.seed)
}

// ConstantAgent always plays the same action
type ConstantAgent struct {
	id     string
	action any
}

func NewConstantAgent(action any) *ConstantAgent {
	return &ConstantAgent{
		id:     newAgentID(),
		action: action,
	}
}

func (a *ConstantAgent) GetID() string {
	return a.id
}

func (a *ConstantAgent) Act(ctx context.Context, outcome core.Outcome) (any, error) {
	return a.action, nil
}

func (a *ConstantAgent) Reset() {}

func (a *ConstantAgent) Copy() core.Agent {
	return NewConstantAgent(a.action)
}
