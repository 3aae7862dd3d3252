package component

import "github.com/rotisserie/eris"

var (
	// ErrNonPositiveMass is returned when a body is built with mass <= 0.
	ErrNonPositiveMass = eris.New("mass must be positive")

	// ErrNonPositiveInertia is returned when a body is built with angular inertia <= 0.
	ErrNonPositiveInertia = eris.New("angular inertia must be positive")

	// ErrNegativeDampening is returned when a body is built with dampening < 0.
	ErrNegativeDampening = eris.New("dampening cannot be negative")

	// ErrNonPositiveRadius is returned when a collider is built with radius <= 0.
	ErrNonPositiveRadius = eris.New("collider radius must be positive")
)
