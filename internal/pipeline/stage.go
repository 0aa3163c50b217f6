package pipeline

import "git.home.luguber.info/inful/guppyc/internal/config"

// Stage is a level of program representation. Stages are totally ordered;
// a run only ever moves to the next higher stage.
type Stage int

const (
	StageSource Stage = iota // Guppy program on disk
	StageHugr                // HUGR package
	StageLLVM                // LLVM module
)

// Stages lists every stage in order.
var Stages = []Stage{StageSource, StageHugr, StageLLVM}

func (s Stage) String() string {
	switch s {
	case StageSource:
		return "source"
	case StageHugr:
		return "hugr"
	case StageLLVM:
		return "llvm"
	default:
		return "unknown"
	}
}

// Requested reports whether req asks for an output produced at stage s. The
// source stage always holds since it is where every run starts.
func (s Stage) Requested(req config.OutputRequest) bool {
	switch s {
	case StageLLVM:
		return req.WantsLLVM()
	case StageHugr:
		return req.WantsHugr()
	default:
		return true
	}
}

// RequiredStage returns the highest stage with a requested output.
func RequiredStage(req config.OutputRequest) Stage {
	for i := len(Stages) - 1; i >= 0; i-- {
		if Stages[i].Requested(req) {
			return Stages[i]
		}
	}
	return StageSource
}
