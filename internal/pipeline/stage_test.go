package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"git.home.luguber.info/inful/guppyc/internal/config"
)

func TestRequiredStage(t *testing.T) {
	tests := []struct {
		name string
		req  config.OutputRequest
		want Stage
	}{
		{"nothing", config.OutputRequest{}, StageSource},
		{"hugr json", config.OutputRequest{Hugr: "out.json"}, StageHugr},
		{"sexpr", config.OutputRequest{Sexpr: "out.sexpr"}, StageHugr},
		{"mermaid", config.OutputRequest{Mermaid: "out.mmd"}, StageHugr},
		{"llvm text", config.OutputRequest{LLVM: "out.ll"}, StageLLVM},
		{"bitcode", config.OutputRequest{Bitcode: "out.bc"}, StageLLVM},
		{"mixed", config.OutputRequest{Mermaid: "out.mmd", Bitcode: "out.bc"}, StageLLVM},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RequiredStage(tt.req))
		})
	}
}

func TestStageOrder(t *testing.T) {
	assert.Less(t, StageSource, StageHugr)
	assert.Less(t, StageHugr, StageLLVM)
	assert.Equal(t, []string{"source", "hugr", "llvm"}, []string{
		StageSource.String(), StageHugr.String(), StageLLVM.String(),
	})
	assert.True(t, StageSource.Requested(config.OutputRequest{}))
}

func TestArtifactStages(t *testing.T) {
	assert.Equal(t, StageSource, (&SourceArtifact{}).Stage())
	assert.Equal(t, StageHugr, (&HugrArtifact{}).Stage())
	assert.Equal(t, StageLLVM, (&LLVMArtifact{}).Stage())
}
