package hugr

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// Package is a collection of HUGR modules plus the extension declarations
// they rely on. Extensions are carried through unchanged.
type Package struct {
	Modules    []*Hugr           `json:"modules"`
	Extensions []json.RawMessage `json:"extensions,omitempty"`
}

// NewPackage wraps modules in a package.
func NewPackage(modules ...*Hugr) *Package {
	return &Package{Modules: modules}
}

// Module returns the first module of the package, the one compiled.
func (p *Package) Module() (*Hugr, error) {
	if len(p.Modules) == 0 || p.Modules[0] == nil {
		return nil, fmt.Errorf("%w: package contains no module", ErrInvalidHugr)
	}
	return p.Modules[0], nil
}

// ParsePackage decodes a package from JSON. A bare module (an object with
// "nodes" instead of "modules") is accepted and wrapped in a package.
func ParsePackage(data []byte) (*Package, error) {
	var probe struct {
		Modules json.RawMessage `json:"modules"`
		Nodes   json.RawMessage `json:"nodes"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHugr, err)
	}

	if probe.Modules == nil && probe.Nodes != nil {
		h := &Hugr{}
		if err := json.Unmarshal(data, h); err != nil {
			return nil, wrapInvalid(err)
		}
		return NewPackage(h), nil
	}

	var pkg Package
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, wrapInvalid(err)
	}
	if _, err := pkg.Module(); err != nil {
		return nil, err
	}
	return &pkg, nil
}

// ReadPackage decodes a package from r.
func ReadPackage(r io.Reader) (*Package, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParsePackage(data)
}

// ReadPackageFile decodes a package stored in a JSON file.
func ReadPackageFile(path string) (*Package, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ReadPackage(bufio.NewReader(f))
}

// WriteJSON serializes the package to w.
func (p *Package) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	return enc.Encode(p)
}

// JSON returns the serialized package.
func (p *Package) JSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.WriteJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func wrapInvalid(err error) error {
	if errors.Is(err, ErrInvalidHugr) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrInvalidHugr, err)
}
