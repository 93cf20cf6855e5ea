package core

import "errors"

var (
	// ErrUnknownAgents is returned when a participant name is not part of the environment.
	ErrUnknownAgents = errors.New("unknown agents")
	// ErrInvalidArguments is returned for malformed agent arguments or options.
	ErrInvalidArguments = errors.New("invalid arguments")
	// ErrNotImplemented is returned by the Unimplemented contract bases.
	ErrNotImplemented = errors.New("not implemented")
	// ErrNilReward is returned when a stepped participant has no reward.
	ErrNilReward = errors.New("reward is undefined after a step")
	// ErrAgentCount is returned when narrowing to a single agent with 0 or 2+ remaining.
	ErrAgentCount = errors.New("exactly one remaining agent is required")
	// ErrAgentNotReady is returned when the single remaining agent is missing from a step.
	ErrAgentNotReady = errors.New("agent not ready")
)
