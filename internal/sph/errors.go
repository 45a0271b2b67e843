package sph

import "errors"

var (
	// ErrInvalidParams indicates a parameter bundle that would make the
	// simulation meaningless or unstable.
	ErrInvalidParams = errors.New("sph: invalid parameters")

	// ErrIndexOutOfRange indicates a particle index outside the collection.
	ErrIndexOutOfRange = errors.New("sph: particle index out of range")

	// ErrNoParticles indicates an initializer produced an empty collection.
	ErrNoParticles = errors.New("sph: no particles generated")
)
