package types

import (
	"errors"
	"fmt"
)

// Match with errors.Is; the typed errors below unwrap to these.
var (
	ErrConfiguration      = errors.New("reservoir: invalid configuration")
	ErrOutOfRange         = errors.New("reservoir: coordinate out of range")
	ErrInsufficientMemory = errors.New("reservoir: insufficient memory for dense expansion")
	ErrConvergence        = errors.New("reservoir: iteration limit reached before convergence")
)

type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrConfiguration, e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

type OutOfRangeError struct {
	Row, Col int
	N        int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s: (%d,%d) not inside a %dx%d grid", ErrOutOfRange, e.Row, e.Col, e.N, e.N)
}

func (e *OutOfRangeError) Unwrap() error { return ErrOutOfRange }

// InsufficientMemoryError is returned instead of attempting an N x (N+1) allocation above the limit
type InsufficientMemoryError struct {
	Unknowns int
	Bytes    int64
	Limit    int
}

func (e *InsufficientMemoryError) Error() string {
	return fmt.Sprintf("%s: %d unknowns need %d MiB, limit is %d unknowns",
		ErrInsufficientMemory, e.Unknowns, e.Bytes/1024/1024, e.Limit)
}

func (e *InsufficientMemoryError) Unwrap() error { return ErrInsufficientMemory }

type ConvergenceError struct {
	Method     SolverType
	Iterations int
	Delta      float64
	Tolerance  float64
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("%s: %s stopped after %d iterations, max change %8.3e > tolerance %8.3e",
		ErrConvergence, e.Method, e.Iterations, e.Delta, e.Tolerance)
}

func (e *ConvergenceError) Unwrap() error { return ErrConvergence }
