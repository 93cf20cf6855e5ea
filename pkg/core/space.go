package core

import (
	"fmt"
	"math/rand"
)

// Space describes the set of valid observations or actions
type Space interface {
	Sample(rng *rand.Rand) any
	Contains(x any) bool
	String() string
}

// Discrete is the space {0, 1, ..., N-1}
type Discrete struct {
	N int
}

func NewDiscrete(n int) Discrete {
	return Discrete{N: n}
}

func (d Discrete) Sample(rng *rand.Rand) any {
	return rng.Intn(d.N)
}

func (d Discrete) Contains(x any) bool {
	v, ok := AsInt(x)
	return ok && v >= 0 && v < d.N
}

// AsInt converts an integer-typed action to int.
func AsInt(x any) (int, bool) {
	switch t := x.(type) {
	case int:
		return t, true
	case int32:
		return int(t), true
	case int64:
		return int(t), true
	}
	return 0, false
}

func (d Discrete) String() string {
	return fmt.Sprintf("Discrete(%d)", d.N)
}
