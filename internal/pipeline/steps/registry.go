// Package steps defines the stages of the generate and score operations,
// their dependencies, and a per-request tracker that enforces the order.
package steps

import (
	"fmt"
	"sync"
)

// Operation names a top-level pipeline operation.
type Operation string

// Supported operations
const (
	OperationGenerate Operation = "generate"
	OperationScore    Operation = "score"
)

// Step names
const (
	StepValidateResume  = "validate_resume"
	StepBuildClient     = "build_client"
	StepPolish          = "polish"
	StepRender          = "render"
	StepCompose         = "compose"
	StepValidateRequest = "validate_request"
	StepScore           = "score"
)

// StepDefinition defines metadata for a pipeline step
type StepDefinition struct {
	Name         string
	Operation    Operation
	Dependencies []string
	// Optional steps may be skipped without failing dependents' checks.
	Optional bool
}

// StepRegistry holds all step definitions in execution order per operation.
var StepRegistry = map[Operation][]StepDefinition{
	OperationGenerate: {
		{Name: StepValidateResume, Operation: OperationGenerate},
		{Name: StepBuildClient, Operation: OperationGenerate, Dependencies: []string{StepValidateResume}},
		{Name: StepPolish, Operation: OperationGenerate, Dependencies: []string{StepBuildClient}},
		{Name: StepRender, Operation: OperationGenerate, Dependencies: []string{StepPolish}},
		{Name: StepCompose, Operation: OperationGenerate, Dependencies: []string{StepRender}, Optional: true},
	},
	OperationScore: {
		{Name: StepValidateRequest, Operation: OperationScore},
		{Name: StepBuildClient, Operation: OperationScore, Dependencies: []string{StepValidateRequest}},
		{Name: StepScore, Operation: OperationScore, Dependencies: []string{StepBuildClient}},
	},
}

// DependencyError represents a dependency validation error
type DependencyError struct {
	Step                string
	MissingDependencies []string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("step %s: missing dependencies: %v", e.Step, e.MissingDependencies)
}

// Lookup returns the definition of step within op.
func Lookup(op Operation, step string) (StepDefinition, int, bool) {
	for i, def := range StepRegistry[op] {
		if def.Name == step {
			return def, i, true
		}
	}
	return StepDefinition{}, -1, false
}

// Tracker records completed steps of one request.
type Tracker struct {
	op        Operation
	mu        sync.Mutex
	completed map[string]bool
}

// NewTracker starts tracking a request of operation op.
func NewTracker(op Operation) *Tracker {
	return &Tracker{op: op, completed: make(map[string]bool)}
}

// Begin checks that every dependency of step has completed and returns the
// step's 1-based position and the step count for progress labels.
func (t *Tracker) Begin(step string) (int, int, error) {
	def, idx, ok := Lookup(t.op, step)
	if !ok {
		return 0, 0, fmt.Errorf("unknown step: %s", step)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	var missing []string
	for _, dep := range def.Dependencies {
		if !t.completed[dep] {
			missing = append(missing, dep)
		}
	}
	if len(missing) > 0 {
		return 0, 0, &DependencyError{Step: step, MissingDependencies: missing}
	}
	return idx + 1, len(StepRegistry[t.op]), nil
}

// Complete marks step as done.
func (t *Tracker) Complete(step string) {
	t.mu.Lock()
	t.completed[step] = true
	t.mu.Unlock()
}

// Completed reports whether step has been marked done.
func (t *Tracker) Completed(step string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.completed[step]
}

// Pending returns the required steps of the operation that have not completed.
func (t *Tracker) Pending() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	var pending []string
	for _, def := range StepRegistry[t.op] {
		if !def.Optional && !t.completed[def.Name] {
			pending = append(pending, def.Name)
		}
	}
	return pending
}
