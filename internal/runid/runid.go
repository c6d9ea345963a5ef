// Package runid assigns a unique identifier to each compilation run, used
// to correlate a pipeline.Context's diagnostics across logs when many
// compilations happen concurrently. Cache entries are keyed by
// anacache.Fingerprint and do not carry the run ID. The teacher's analyzer
// recognizes a "Uuid" constant type (internal/analyzer/builtins.go) for
// scripts to generate identifiers at the language level; this package gives
// the host side of this module the same capability via google/uuid.
package runid

import "github.com/google/uuid"

// New returns a fresh run identifier.
func New() string {
	return uuid.NewString()
}
