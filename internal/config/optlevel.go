package config

import (
	"strconv"

	"git.home.luguber.info/inful/guppyc/internal/foundation/normalization"
)

// OptLevel is the LLVM optimisation level, totally ordered from O0 to O3.
type OptLevel int

const (
	O0 OptLevel = iota // no optimisation
	O1                 // less optimisation
	O2                 // default
	O3                 // aggressive
)

// Valid reports whether the level is within O0..O3.
func (l OptLevel) Valid() bool {
	return l >= O0 && l <= O3
}

// Optimises reports whether the optimiser runs at this level. Levels 1 to 3
// currently share one pass sequence.
func (l OptLevel) Optimises() bool {
	return l > O0
}

func (l OptLevel) String() string {
	return "O" + strconv.Itoa(int(l))
}

var optLevels = normalization.NewNormalizer("optimisation level", map[string]OptLevel{
	"0": O0, "1": O1, "2": O2, "3": O3,
	"O0": O0, "O1": O1, "O2": O2, "O3": O3,
})

// UnmarshalText accepts "0".."3" and "O0".."O3".
func (l *OptLevel) UnmarshalText(text []byte) error {
	v, err := optLevels.Parse(string(text))
	if err != nil {
		return err
	}
	*l = v
	return nil
}
