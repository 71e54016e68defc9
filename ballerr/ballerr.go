// Package ballerr defines the structured error taxonomy shared by every
// layer of the ballistic engine, from drag-table construction through the
// search routines built on top of integration.
package ballerr

import "fmt"

// Kind identifies one of the error categories from the error handling
// design: low-level construction/interpolation failures are never
// swallowed, and search-layer failures carry enough context (iteration
// count, last angle, last residual) to explain non-convergence.
type Kind int

const (
	// KindInput covers malformed drag tables, non-positive BC, and other
	// degenerate shot properties. Never retried.
	KindInput Kind = iota
	// KindZeroDivision covers degenerate interpolation keys (three equal
	// abscissas in a PCHIP bracket).
	KindZeroDivision
	// KindIndex covers interpolation requested with fewer than three
	// samples, or an out-of-range bracket center.
	KindIndex
	// KindInterpKey covers an unknown BaseTrajData interpolation key.
	KindInterpKey
	// KindOutOfRange covers a requested target distance beyond the
	// computed max range.
	KindOutOfRange
	// KindZeroFinding covers Ridder's-method/secant failure to converge.
	KindZeroFinding
	// KindInterception covers integrate_at reaching termination without
	// the watched key crossing its target.
	KindInterception
	// KindSolverRuntime covers a solver step requested against a
	// trajectory shorter than the target distance.
	KindSolverRuntime
	// KindMemory covers dense-buffer growth failure.
	KindMemory
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "INPUT_ERROR"
	case KindZeroDivision:
		return "ZERO_DIVISION_ERROR"
	case KindIndex:
		return "INDEX_ERROR"
	case KindInterpKey:
		return "BASE_TRAJ_INTERP_KEY_ERROR"
	case KindOutOfRange:
		return "OUT_OF_RANGE_ERROR"
	case KindZeroFinding:
		return "ZERO_FINDING_ERROR"
	case KindInterception:
		return "INTERCEPTION_ERROR"
	case KindSolverRuntime:
		return "SOLVER_RUNTIME_ERROR"
	case KindMemory:
		return "MEMORY_ERROR"
	default:
		return "UNKNOWN_ERROR"
	}
}

// BallisticError is the concrete error type returned by every package in
// this module. Callers distinguish kinds with errors.Is against the
// sentinel Err* values, or errors.As to reach the typed fields below.
type BallisticError struct {
	Kind Kind
	Msg  string
	Err  error // wrapped cause, if any

	// Context populated for KindOutOfRange.
	RequestedDistanceFt float64
	MaxRangeFt          float64
	LookAngleRad        float64

	// Context populated for KindZeroFinding.
	LastError    float64
	Iterations   int
	LastAngleRad float64
}

func (e *BallisticError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *BallisticError) Unwrap() error { return e.Err }

// Is reports whether target is a *BallisticError with the same Kind,
// enabling errors.Is(err, ballerr.ErrInput) style checks without caring
// about message text.
func (e *BallisticError) Is(target error) bool {
	other, ok := target.(*BallisticError)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

// Sentinel kind markers for errors.Is comparisons.
var (
	ErrInput         = &BallisticError{Kind: KindInput}
	ErrZeroDivision  = &BallisticError{Kind: KindZeroDivision}
	ErrIndex         = &BallisticError{Kind: KindIndex}
	ErrInterpKey     = &BallisticError{Kind: KindInterpKey}
	ErrOutOfRange    = &BallisticError{Kind: KindOutOfRange}
	ErrZeroFinding   = &BallisticError{Kind: KindZeroFinding}
	ErrInterception  = &BallisticError{Kind: KindInterception}
	ErrSolverRuntime = &BallisticError{Kind: KindSolverRuntime}
	ErrMemory        = &BallisticError{Kind: KindMemory}
)

// Input builds a KindInput error.
func Input(msg string) error {
	return &BallisticError{Kind: KindInput, Msg: msg}
}

// Wrapf builds an error of the given kind, wrapping cause and formatting
// msg like fmt.Sprintf.
func Wrapf(kind Kind, cause error, format string, args ...any) error {
	return &BallisticError{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: cause}
}

// ZeroDivision builds a KindZeroDivision error for a degenerate key.
func ZeroDivision(msg string) error {
	return &BallisticError{Kind: KindZeroDivision, Msg: msg}
}

// Index builds a KindIndex error.
func Index(msg string) error {
	return &BallisticError{Kind: KindIndex, Msg: msg}
}

// InterpKey builds a KindInterpKey error for an unrecognized key.
func InterpKey(msg string) error {
	return &BallisticError{Kind: KindInterpKey, Msg: msg}
}

// OutOfRange builds a KindOutOfRange error carrying its context.
func OutOfRange(requestedDistanceFt, maxRangeFt, lookAngleRad float64) error {
	return &BallisticError{
		Kind:                KindOutOfRange,
		Msg:                 "requested distance exceeds computed max range",
		RequestedDistanceFt: requestedDistanceFt,
		MaxRangeFt:          maxRangeFt,
		LookAngleRad:        lookAngleRad,
	}
}

// ZeroFinding builds a KindZeroFinding error carrying its context.
func ZeroFinding(lastError float64, iterations int, lastAngleRad float64) error {
	return &BallisticError{
		Kind:         KindZeroFinding,
		Msg:          "root finder did not converge",
		LastError:    lastError,
		Iterations:   iterations,
		LastAngleRad: lastAngleRad,
	}
}

// Interception builds a KindInterception error.
func Interception(msg string) error {
	return &BallisticError{Kind: KindInterception, Msg: msg}
}

// SolverRuntime builds a KindSolverRuntime error.
func SolverRuntime(msg string) error {
	return &BallisticError{Kind: KindSolverRuntime, Msg: msg}
}

// Memory builds a KindMemory error.
func Memory(msg string) error {
	return &BallisticError{Kind: KindMemory, Msg: msg}
}
