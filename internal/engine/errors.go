package engine

import (
	"errors"

	"github.com/san-kum/gridfx/internal/surface"
)

var (
	// ErrSurfaceUnavailable marks an engine that could not acquire its
	// drawing context; it stays a no-op for the rest of its life.
	ErrSurfaceUnavailable = surface.ErrUnavailable

	// ErrUnknownVariant indicates a variant name missing from the registry.
	ErrUnknownVariant = errors.New("gridfx: unknown variant")

	// ErrStopped indicates a call on an engine that was already unmounted.
	ErrStopped = errors.New("gridfx: engine stopped")

	// ErrMounted indicates a second Mount of the same engine.
	ErrMounted = errors.New("gridfx: engine already mounted")
)
