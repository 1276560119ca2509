package repositories

import (
	"errors"
	"fmt"
)

// FaultKind classifies an error so the API layer can pick the right
// user-facing status without inspecting error strings.
type FaultKind string

const (
	// FaultNotFound signals a missing session or an unresolvable voice name.
	FaultNotFound FaultKind = "not_found"
	// FaultInvalidInput signals a malformed or empty client request.
	FaultInvalidInput FaultKind = "invalid_input"
	// FaultNoSpeech signals intelligible audio could not be recognized.
	FaultNoSpeech FaultKind = "no_speech"
	// FaultUpstream signals an ASR/LLM/TTS provider failure.
	FaultUpstream FaultKind = "upstream"
	// FaultStorage signals a storage I/O failure.
	FaultStorage FaultKind = "storage"
)

// Fault is the single error channel shared by the store and all three
// adapters. It carries a kind plus a human-readable detail.
type Fault struct {
	Kind   FaultKind
	Detail string
	Err    error
}

func (f *Fault) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Detail, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Detail)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// NewFault creates a fault of the given kind.
func NewFault(kind FaultKind, detail string, err error) *Fault {
	return &Fault{Kind: kind, Detail: detail, Err: err}
}

// KindOf extracts the fault kind from an error chain. Errors that are not
// faults are treated as storage-level failures.
func KindOf(err error) FaultKind {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind
	}
	return FaultStorage
}

// IsKind reports whether err carries the given fault kind.
func IsKind(err error, kind FaultKind) bool {
	var f *Fault
	return errors.As(err, &f) && f.Kind == kind
}
