// Package wizard implements the six-step land eligibility questionnaire:
// field state, per-step validation, the eligibility verdict and the single
// submission made when the visitor moves from land details to results.
package wizard

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Submission is what the wizard hands to the Submitter on step 5 → 6.
type Submission struct {
	ID          string
	State       State
	Eligibility EligibilityResult
	SubmittedAt time.Time
}

// Submitter persists a finished questionnaire. Implementations must not retry.
type Submitter interface {
	SaveSubmission(ctx context.Context, s Submission) error
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, s Submission) error

func (f SubmitterFunc) SaveSubmission(ctx context.Context, s Submission) error { return f(ctx, s) }

// ErrNoSubmitter is returned when step 5 is submitted without a Submitter.
var ErrNoSubmitter = errors.New("wizard: no submitter configured")

// Snapshot is the serialisable form of a Wizard.
type Snapshot struct {
	Step        Step               `json:"step" bson:"step"`
	State       State              `json:"state" bson:"state"`
	Touched     []Field            `json:"touched,omitempty" bson:"touched,omitempty"`
	Errors      FieldErrors        `json:"errors,omitempty" bson:"errors,omitempty"`
	Result      *EligibilityResult `json:"result,omitempty" bson:"result,omitempty"`
	SubmitError string             `json:"submitError,omitempty" bson:"submitError,omitempty"`
}

// Wizard is safe for concurrent use.
type Wizard struct {
	mu         sync.Mutex
	step       Step
	state      State
	touched    map[Field]bool
	errors     FieldErrors
	result     *EligibilityResult
	submitErr  string
	submitting bool

	submitter Submitter
	locs      *Locations
}

// New returns an empty wizard on step 1.
func New(submitter Submitter) *Wizard {
	return &Wizard{
		step:      StepPersonalInfo,
		touched:   map[Field]bool{},
		errors:    FieldErrors{},
		submitter: submitter,
		locs:      DefaultLocations,
	}
}

// Restore rebuilds a wizard from a snapshot.
func Restore(snap Snapshot, submitter Submitter) (*Wizard, error) {
	if !snap.Step.Valid() {
		return nil, ErrInvalidStep
	}
	w := New(submitter)
	w.step = snap.Step
	w.state = snap.State
	for _, f := range snap.Touched {
		w.touched[f] = true
	}
	for f, msg := range snap.Errors {
		w.errors[f] = msg
	}
	if snap.Result != nil {
		r := *snap.Result
		w.result = &r
	}
	w.submitErr = snap.SubmitError
	return w, nil
}

func (w *Wizard) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	snap := Snapshot{
		Step:        w.step,
		State:       w.state,
		Errors:      FieldErrors{},
		SubmitError: w.submitErr,
	}
	for _, fields := range StepFields {
		for _, f := range fields {
			if w.touched[f] {
				snap.Touched = append(snap.Touched, f)
			}
		}
	}
	for f, msg := range w.errors {
		snap.Errors[f] = msg
	}
	if w.result != nil {
		r := *w.result
		snap.Result = &r
	}
	return snap
}

func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Errors returns the messages for touched fields only.
func (w *Wizard) Errors() FieldErrors {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := FieldErrors{}
	for f, msg := range w.errors {
		out[f] = msg
	}
	return out
}

func (w *Wizard) Touched(f Field) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.touched[f]
}

// Result is nil until step 6 is reached.
func (w *Wizard) Result() *EligibilityResult {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.result == nil {
		return nil
	}
	r := *w.result
	return &r
}

// SubmitError is the retryable message left by the last failed save.
func (w *Wizard) SubmitError() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitErr
}

func (w *Wizard) Submitting() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitting
}

func (w *Wizard) Finalized() bool { return w.Step() == StepResults }

// HardStop is re-evaluated from the current answers on every call.
func (w *Wizard) HardStop() bool { return HardStop(w.State()) }

func (w *Wizard) Advisories() []Advisory { return AdvisoriesFor(w.State()) }

// SetField parses raw and stores it. Only fields of the current step can be
// set; earlier answers are edited by going back to their step. Selecting a
// province clears district and city; selecting a district clears city. Errors
// on touched fields of the same step are recomputed so they disappear once
// the value is valid.
func (w *Wizard) SetField(f Field, raw string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.submitting {
		return ErrSubmissionInFlight
	}
	if w.step == StepResults {
		return ErrFinalized
	}
	if st := StepOf(f); st == 0 {
		return ErrUnknownField
	} else if st != w.step {
		return ErrFieldNotOnStep
	}

	s := &w.state
	raw = strings.TrimSpace(raw)
	switch f {
	case FieldTitle:
		s.Title = raw
	case FieldFirstName:
		s.FirstName = raw
	case FieldLastName:
		s.LastName = raw
	case FieldNIC:
		s.NIC = raw
	case FieldPhone:
		s.Phone = raw
	case FieldEmail:
		s.Email = raw
	case FieldProvince:
		if raw != s.Province {
			s.Province, s.District, s.City = raw, "", ""
		}
	case FieldDistrict:
		if raw != s.District {
			s.District, s.City = raw, ""
		}
	case FieldCity:
		s.City = raw
	case FieldClimateZone:
		s.ClimateZone = ClimateZone(raw)
	case FieldLandShape:
		s.LandShape = LandShape(raw)
	case FieldSoilType:
		s.SoilType = SoilType(raw)
	case FieldHasOwnLand, FieldHasWater, FieldHasStones, FieldHasLandslideRisk, FieldHasForestry:
		b, err := ParseAnswer(raw)
		if err != nil {
			return w.rejectLocked(f, "Choose yes or no")
		}
		*boolField(s, f) = b
	case FieldLandSize:
		if raw == "" {
			s.LandSize = 0
			break
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			s.LandSize = 0
			return w.rejectLocked(f, "Land size must be a positive number of perches")
		}
		s.LandSize = v
	default:
		return ErrUnknownField
	}

	w.revalidateLocked(StepOf(f))
	return nil
}

// SetFields applies values in step order so parents are set before children.
// Nothing is applied when any field is unknown or off the current step.
func (w *Wizard) SetFields(values map[Field]string) error {
	for f := range values {
		if StepOf(f) == 0 {
			return ErrUnknownField
		}
	}
	cur := w.Step()
	if cur == StepResults {
		return ErrFinalized
	}
	for f := range values {
		if StepOf(f) != cur {
			return ErrFieldNotOnStep
		}
	}
	var verr *ValidationError
	for step := StepPersonalInfo; step < StepResults; step++ {
		for _, f := range StepFields[step] {
			raw, ok := values[f]
			if !ok {
				continue
			}
			err := w.SetField(f, raw)
			var fe *ValidationError
			switch {
			case err == nil:
			case errors.As(err, &fe):
				if verr == nil {
					verr = &ValidationError{Step: fe.Step, Fields: FieldErrors{}}
				}
				for k, v := range fe.Fields {
					verr.Fields[k] = v
				}
			default:
				return err
			}
		}
	}
	if verr != nil {
		return verr
	}
	return nil
}

func (w *Wizard) rejectLocked(f Field, msg string) error {
	w.touched[f] = true
	w.errors[f] = msg
	return &ValidationError{Step: StepOf(f), Fields: FieldErrors{f: msg}}
}

func (w *Wizard) revalidateLocked(step Step) {
	for _, f := range StepFields[step] {
		if !w.touched[f] {
			continue
		}
		if msg := validateField(f, w.state, w.locs); msg != "" {
			w.errors[f] = msg
		} else {
			delete(w.errors, f)
		}
	}
}

// Advance validates the current step and moves to the next one. Leaving
// step 5 evaluates eligibility and saves the submission exactly once; on
// failure the wizard stays on step 5 with every answer intact.
func (w *Wizard) Advance(ctx context.Context) error {
	w.mu.Lock()
	if w.submitting {
		w.mu.Unlock()
		return ErrSubmissionInFlight
	}
	if w.step == StepResults {
		w.mu.Unlock()
		return ErrFinalized
	}

	v := validateStep(w.step, w.state, w.locs)
	for _, f := range StepFields[w.step] {
		w.touched[f] = true
		if msg, bad := v.Errors[f]; bad {
			w.errors[f] = msg
		} else {
			delete(w.errors, f)
		}
	}
	switch {
	case v.HardStop:
		w.mu.Unlock()
		return ErrHardStop
	case !v.Valid:
		step := w.step
		w.mu.Unlock()
		return &ValidationError{Step: step, Fields: v.Errors}
	case w.step == StepLandOwnership && !isTrue(w.state.HasOwnLand):
		w.mu.Unlock()
		return ErrNoOwnLand
	case w.step != StepLandDetails:
		w.step++
		w.mu.Unlock()
		return nil
	}

	if w.submitter == nil {
		w.mu.Unlock()
		return ErrNoSubmitter
	}
	if err := w.recheckLocked(); err != nil {
		w.mu.Unlock()
		return err
	}
	result := Evaluate(w.state)
	sub := Submission{
		ID:          uuid.NewString(),
		State:       w.state,
		Eligibility: result,
		SubmittedAt: time.Now().UTC(),
	}
	if sub.State.LandShape != ShapeFlat {
		sub.State.HasWater = nil
	}
	w.submitting = true
	w.submitErr = ""
	w.mu.Unlock()

	err := w.submitter.SaveSubmission(ctx, sub)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.submitting = false
	if err != nil {
		w.submitErr = "We could not save your details. Please try again."
		return &SubmitError{Err: err}
	}
	w.result = &result
	w.step = StepResults
	return nil
}

// recheckLocked re-validates steps 1 to 4 before anything is submitted.
// On failure the wizard returns to the first failing step.
func (w *Wizard) recheckLocked() error {
	for step := StepPersonalInfo; step < StepLandDetails; step++ {
		v := validateStep(step, w.state, w.locs)
		if v.Valid && (step != StepLandOwnership || isTrue(w.state.HasOwnLand)) {
			continue
		}
		w.step = step
		for _, f := range StepFields[step] {
			w.touched[f] = true
			if msg, bad := v.Errors[f]; bad {
				w.errors[f] = msg
			}
		}
		if v.Valid {
			return ErrNoOwnLand
		}
		return &ValidationError{Step: step, Fields: v.Errors}
	}
	return nil
}

// GoToStep jumps to target. Going back never validates or clears anything;
// going forward advances one step at a time and stops at the first failure.
func (w *Wizard) GoToStep(ctx context.Context, target Step) error {
	if !target.Valid() {
		return ErrInvalidStep
	}
	w.mu.Lock()
	cur := w.step
	if cur == StepResults {
		w.mu.Unlock()
		if target == StepResults {
			return nil
		}
		return ErrFinalized
	}
	if w.submitting {
		w.mu.Unlock()
		return ErrSubmissionInFlight
	}
	if target <= cur {
		w.step = target
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	for w.Step() < target {
		if err := w.Advance(ctx); err != nil {
			return err
		}
	}
	return nil
}

// ParseAnswer reads a yes/no form value; an empty string clears the answer.
func ParseAnswer(raw string) (*bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return nil, nil
	case "yes", "true", "1", "on":
		return boolPtr(true), nil
	case "no", "false", "0", "off":
		return boolPtr(false), nil
	}
	return nil, strconv.ErrSyntax
}

func boolField(s *State, f Field) **bool {
	switch f {
	case FieldHasOwnLand:
		return &s.HasOwnLand
	case FieldHasWater:
		return &s.HasWater
	case FieldHasStones:
		return &s.HasStones
	case FieldHasLandslideRisk:
		return &s.HasLandslideRisk
	}
	return &s.HasForestry
}
