package sim

import (
	"fmt"
)

// DivergenceError is returned when two replicas
// ended a scenario with different graphs.
type DivergenceError struct {
	Scenario string
	A        string
	B        string
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf("scenario %s: replicas '%s' and '%s' did not converge", e.Scenario, e.A, e.B)
}

// CheckError is returned when converged replicas
// answer a query differently than expected.
type CheckError struct {
	Scenario string
	Replica  string
	Check    string
}

func (e *CheckError) Error() string {
	return fmt.Sprintf("scenario %s: replica '%s' failed check: %s", e.Scenario, e.Replica, e.Check)
}
