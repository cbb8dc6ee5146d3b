package engine

import (
	"github.com/agilira/go-errors"
)

// Error codes for the generational cache engine (§7 of the spec). Only the
// three hard-error kinds the core can raise get a code; OversizedValue is
// deliberately silent (a no-op, never surfaced) and IOError is whatever the
// caller-supplied stream returns, wrapped with %w so errors.Is still sees it.
const (
	ErrCodeVersionMismatch errors.ErrorCode = "LOCALCACHE_VERSION_MISMATCH"
	ErrCodeCorruptedState  errors.ErrorCode = "LOCALCACHE_CORRUPTED_STATE"
	ErrCodeProgrammerFault errors.ErrorCode = "LOCALCACHE_PROGRAMMER_FAULT"
)

// ErrVersionMismatch is returned by the root package's
// (*Cache).ReadFromStream when the leading version frame does not match
// CodecVersion. The engine is left untouched.
func ErrVersionMismatch(got, want uint32) error {
	return errors.NewWithContext(ErrCodeVersionMismatch, "persistence version mismatch", map[string]any{
		"got_version":  got,
		"want_version": want,
	})
}

// ErrCorruptedState is raised by Export (§4.7) when the combined entry
// count of the rings disagrees with the index, so no partial dump is ever
// produced.
func ErrCorruptedState(ringName string, ringTotal, indexTotal int) error {
	return errors.NewWithContext(ErrCodeCorruptedState, "ring/index entry count disagreement detected during export", map[string]any{
		"ring":        ringName,
		"ring_total":  ringTotal,
		"index_total": indexTotal,
	})
}

// ErrProgrammerFault signals a broken insertion-path invariant: a key the
// caller believed absent from the index was actually present. This always
// indicates a bug in the engine itself, not caller misuse.
func ErrProgrammerFault(reason string) error {
	return errors.NewWithField(ErrCodeProgrammerFault, "internal invariant violated", "reason", reason)
}

// IsCorruptedState reports whether err is an ErrCorruptedState.
func IsCorruptedState(err error) bool { return errors.HasCode(err, ErrCodeCorruptedState) }

// IsVersionMismatch reports whether err is an ErrVersionMismatch.
func IsVersionMismatch(err error) bool { return errors.HasCode(err, ErrCodeVersionMismatch) }

// IsProgrammerFault reports whether err is an ErrProgrammerFault.
func IsProgrammerFault(err error) bool { return errors.HasCode(err, ErrCodeProgrammerFault) }
