package wizard

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSuchStep is returned when navigating to a step outside the wizard.
	ErrNoSuchStep = errors.New("wizard: no such step")
	// ErrStepNotValidated is returned when jumping forward into a step that
	// has not been validated yet.
	ErrStepNotValidated = errors.New("wizard: step not yet validated")
)

// FieldError attributes an unmet condition to a single form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// StepError reports every unmet rule of a step. Navigation that triggers a
// StepError leaves the wizard state unchanged.
type StepError struct {
	Step   int          `json:"step"`
	Fields []FieldError `json:"fields"`
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d has %d unmet conditions", e.Step, len(e.Fields))
}

// Rule is a pure predicate over the collected form data. Check returns nil
// when the condition holds.
type Rule struct {
	Field string
	Check func(FormData) error
}

// Step is one screen of a multi-step form. Label and Icon are presentation
// hints only.
type Step struct {
	Label string
	Icon  string
	Rules []Rule
}

// Validate runs every rule of the step against data. It is the single source
// of truth for step gating; the submission pipeline re-runs the same rules.
func (s Step) Validate(step int, data FormData) *StepError {
	var fields []FieldError
	for _, rule := range s.Rules {
		if err := rule.Check(data); err != nil {
			fields = append(fields, FieldError{Field: rule.Field, Message: err.Error()})
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return &StepError{Step: step, Fields: fields}
}

// Wizard owns the current step, the collected form data, and the forward
// gating over an ordered list of steps. Steps are numbered from 1.
type Wizard struct {
	steps   []Step
	current int
	passed  []bool
	data    FormData
}

// New constructs a wizard positioned at step 1.
func New(steps []Step) *Wizard {
	return &Wizard{
		steps:   steps,
		current: 1,
		passed:  make([]bool, len(steps)),
	}
}

// Current returns the 1-based index of the active step.
func (w *Wizard) Current() int {
	return w.current
}

// Steps returns the configured step definitions.
func (w *Wizard) Steps() []Step {
	return w.steps
}

// Data returns a copy of the collected form data.
func (w *Wizard) Data() FormData {
	return w.data
}

// Update mutates the form data and prunes any downstream selections a changed
// upstream field no longer permits.
func (w *Wizard) Update(mutate func(*FormData)) {
	mutate(&w.data)
	w.data.prune()
}

// IsStepValid re-runs the rule table for the given step; it has no side
// effects on wizard state.
func (w *Wizard) IsStepValid(step int) bool {
	if step < 1 || step > len(w.steps) {
		return false
	}
	return w.steps[step-1].Validate(step, w.data) == nil
}

// Advance moves forward one step when the current step's rules hold. On
// failure the returned *StepError names each unmet field and the position is
// unchanged.
func (w *Wizard) Advance() error {
	if err := w.steps[w.current-1].Validate(w.current, w.data); err != nil {
		return err
	}
	w.passed[w.current-1] = true
	if w.current < len(w.steps) {
		w.current++
	}
	return nil
}

// Retreat moves back one step unconditionally. Collected data is kept.
func (w *Wizard) Retreat() {
	if w.current > 1 {
		w.current--
	}
}

// JumpTo moves to an arbitrary step. Skipping ahead is only permitted into
// steps that have already been validated, so a finalized payload can never
// carry an unchecked step.
func (w *Wizard) JumpTo(step int) error {
	if step < 1 || step > len(w.steps) {
		return ErrNoSuchStep
	}
	if step > w.current && !w.passed[step-1] {
		return ErrStepNotValidated
	}
	w.current = step
	return nil
}

// Finalize re-validates every step and returns the assembled payload. It
// performs no I/O; handing the payload to the submission pipeline is the
// caller's job.
func (w *Wizard) Finalize() (FormData, error) {
	for i, step := range w.steps {
		if err := step.Validate(i+1, w.data); err != nil {
			return FormData{}, err
		}
	}
	return w.data, nil
}
