package core

import (
	"fmt"
)

// AllKey is the reserved done-flag key that external multi-agent environments use to
// signal that the episode is over for every participant.
const AllKey = "__all__"

// Outcome is the (observation, reward, done, info) bundle one participant receives on a
// reset or a step. A nil Reward is only legitimate right after a reset.
type Outcome struct {
	Observation any
	Reward      *float64
	Done        bool
	Info        map[string]any
}

// NewOutcome creates an outcome, defaulting info to an empty map
func NewOutcome(observation any, reward *float64, done bool, info map[string]any) Outcome {
	if info == nil {
		info = make(map[string]any)
	}
	return Outcome{
		Observation: observation,
		Reward:      reward,
		Done:        done,
		Info:        info,
	}
}

// Reward returns a pointer to r, for building outcomes inline.
func Reward(r float64) *float64 {
	return &r
}

// Unpack returns the outcome as the positional 4-tuple agents act on.
func (o Outcome) Unpack() (any, *float64, bool, map[string]any) {
	return o.Observation, o.Reward, o.Done, o.Info
}

func (o Outcome) HasReward() bool {
	return o.Reward != nil
}

// RewardValue returns the reward, or 0 when it is undefined
func (o Outcome) RewardValue() float64 {
	if o.Reward == nil {
		return 0
	}
	return *o.Reward
}

func (o Outcome) String() string {
	reward := "<nil>"
	if o.Reward != nil {
		reward = fmt.Sprintf("%v", *o.Reward)
	}
	return fmt.Sprintf("Outcome(observation=%v, reward=%s, done=%t, info=%v)", o.Observation, reward, o.Done, o.Info)
}

// StepResult is the multi-agent reset/step shape: four mappings keyed by participant
// name plus the overall done flag.
type StepResult struct {
	Observations map[string]any
	Rewards      map[string]float64 // a missing name means the reward is undefined
	Dones        map[string]bool
	Infos        map[string]map[string]any
	AllDone      bool
}

// StepResultFromDones builds a StepResult from a done mapping that may carry the
// reserved AllKey, as produced by environments speaking the dict-of-dicts protocol.
func StepResultFromDones(obs map[string]any, rewards map[string]float64, dones map[string]bool, infos map[string]map[string]any) StepResult {
	perAgent := make(map[string]bool, len(dones))
	for name, done := range dones {
		if name == AllKey {
			continue
		}
		perAgent[name] = done
	}
	return StepResult{
		Observations: obs,
		Rewards:      rewards,
		Dones:        perAgent,
		Infos:        infos,
		AllDone:      dones[AllKey],
	}
}

// DoneMap returns the done flags with the overall flag stored under AllKey.
func (r StepResult) DoneMap() map[string]bool {
	dones := make(map[string]bool, len(r.Dones)+1)
	for name, done := range r.Dones {
		dones[name] = done
	}
	dones[AllKey] = r.AllDone
	return dones
}

// Restrict returns a copy of the result holding only the names keep accepts.
func (r StepResult) Restrict(keep func(name string) bool) StepResult {
	outcomes, done := FromMultiAgentStep(r)
	kept := make(map[string]Outcome, len(outcomes))
	for name, outcome := range outcomes {
		if keep(name) {
			kept[name] = outcome
		}
	}
	return ToMultiAgentStep(kept, done)
}

// FromMultiAgentStep converts a StepResult into one Outcome per observed participant.
// Missing rewards stay undefined, missing done flags fall back to the overall flag and
// missing infos become empty maps.
func FromMultiAgentStep(r StepResult) (map[string]Outcome, bool) {
	outcomes := make(map[string]Outcome, len(r.Observations))
	for name, obs := range r.Observations {
		var reward *float64
		if value, ok := r.Rewards[name]; ok {
			reward = Reward(value)
		}
		done, ok := r.Dones[name]
		if !ok {
			done = r.AllDone
		}
		outcomes[name] = NewOutcome(obs, reward, done, r.Infos[name])
	}
	return outcomes, r.AllDone
}

// ToMultiAgentStep is the inverse of FromMultiAgentStep.
func ToMultiAgentStep(outcomes map[string]Outcome, done bool) StepResult {
	r := StepResult{
		Observations: make(map[string]any, len(outcomes)),
		Rewards:      make(map[string]float64, len(outcomes)),
		Dones:        make(map[string]bool, len(outcomes)),
		Infos:        make(map[string]map[string]any, len(outcomes)),
		AllDone:      done,
	}
	for name, outcome := range outcomes {
		r.Observations[name] = outcome.Observation
		if outcome.Reward != nil {
			r.Rewards[name] = *outcome.Reward
		}
		r.Dones[name] = outcome.Done
		info := outcome.Info
		if info == nil {
			info = make(map[string]any)
		}
		r.Infos[name] = info
	}
	return r
}

// OutcomesFromReset wraps reset observations: no reward yet, not done, empty info.
func OutcomesFromReset(obs map[string]any) map[string]Outcome {
	outcomes, _ := FromMultiAgentStep(StepResult{Observations: obs})
	return outcomes
}
