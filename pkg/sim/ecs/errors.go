package ecs

import "github.com/rotisserie/eris"

var (
	// ErrKindNotRegistered is returned when a snapshot or search names a kind the store doesn't
	// know about.
	ErrKindNotRegistered = eris.New("kind not registered")

	// ErrDuplicateKindName is returned when two different Go types register the same kind name.
	ErrDuplicateKindName = eris.New("kind name already registered by another type")
)
