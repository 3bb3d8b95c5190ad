package hybrid

import "fmt"

// dualOutcome classifies the joined result of issuing one logical operation
// against both stores. Making the three-way outcome space explicit keeps the
// partial-failure policy testable instead of buried in fallback branches.
type dualOutcome int

const (
	bothOK dualOutcome = iota
	localOnly
	remoteOnly
	bothFailed
)

func classify(localErr, remoteErr error) dualOutcome {
	switch {
	case localErr == nil && remoteErr == nil:
		return bothOK
	case localErr == nil:
		return localOnly
	case remoteErr == nil:
		return remoteOnly
	default:
		return bothFailed
	}
}

// DualWriteError is the only failure the facade surfaces to its caller: both
// stores rejected the same operation. Single-store failures are absorbed.
type DualWriteError struct {
	Op     string
	Local  error
	Remote error
}

func (e *DualWriteError) Error() string {
	return fmt.Sprintf("%s failed on both stores: local: %v; remote: %v", e.Op, e.Local, e.Remote)
}

// Unwrap exposes both causes to errors.Is/As.
func (e *DualWriteError) Unwrap() []error {
	return []error{e.Local, e.Remote}
}
