package cxxtype

import "github.com/skdltmxn/cxxtype-go/internal/quirks"

// Quirks is a compiled set of platform quirk tables.
type Quirks = quirks.Table

// DefaultQuirks returns the built-in quirk tables.
func DefaultQuirks() *Quirks {
	return quirks.Default()
}

// LoadQuirks returns the built-in tables extended by the YAML, TOML or JSON
// file at path.
func LoadQuirks(path string) (*Quirks, error) {
	return quirks.Load(path)
}
