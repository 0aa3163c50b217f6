package config

const (
	DefaultUV       = "uv"
	DefaultPython   = "python"
	DefaultPackage  = "guppylang"
	DefaultOpt      = "opt"
	DefaultLLVMAs   = "llvm-as"
	DefaultOptLevel = O2
)

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config)
	Domain() string
}

// FrontendDefaultApplier handles frontend process defaults.
type FrontendDefaultApplier struct{}

func (FrontendDefaultApplier) Domain() string { return "frontend" }

func (FrontendDefaultApplier) ApplyDefaults(cfg *Config) {
	if cfg.Frontend.UV == "" {
		cfg.Frontend.UV = DefaultUV
	}
	if cfg.Frontend.Python == "" {
		cfg.Frontend.Python = DefaultPython
	}
	if cfg.Frontend.Package == "" {
		cfg.Frontend.Package = DefaultPackage
	}
}

// LLVMDefaultApplier handles LLVM tool defaults.
type LLVMDefaultApplier struct{}

func (LLVMDefaultApplier) Domain() string { return "llvm" }

func (LLVMDefaultApplier) ApplyDefaults(cfg *Config) {
	if cfg.LLVM.Opt == "" {
		cfg.LLVM.Opt = DefaultOpt
	}
	if cfg.LLVM.LLVMAs == "" {
		cfg.LLVM.LLVMAs = DefaultLLVMAs
	}
}

func defaultAppliers() []DefaultApplier {
	return []DefaultApplier{FrontendDefaultApplier{}, LLVMDefaultApplier{}}
}

func applyDefaults(cfg *Config) {
	for _, a := range defaultAppliers() {
		a.ApplyDefaults(cfg)
	}
}
