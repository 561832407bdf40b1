package wizard

// NoOwnLandNotice is shown on step 2 to visitors without land.
const NoOwnLandNotice = "This programme is for landowners. If you would like to invest without land, please contact us."

// View is a read-only picture of the wizard for rendering.
type View struct {
	Step        Step               `json:"step"`
	StepName    string             `json:"stepName"`
	State       State              `json:"state"`
	Errors      FieldErrors        `json:"errors"`
	Advisories  []Advisory         `json:"advisories"`
	HardStop    bool               `json:"hardStop"`
	Notice      string             `json:"notice,omitempty"`
	SubmitError string             `json:"submitError,omitempty"`
	Submitting  bool               `json:"submitting"`
	Result      *EligibilityResult `json:"result,omitempty"`
}

func (w *Wizard) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()

	v := View{
		Step:        w.step,
		StepName:    w.step.String(),
		State:       w.state,
		Errors:      FieldErrors{},
		Advisories:  AdvisoriesFor(w.state),
		HardStop:    HardStop(w.state),
		SubmitError: w.submitErr,
		Submitting:  w.submitting,
	}
	if v.Advisories == nil {
		v.Advisories = []Advisory{}
	}
	for f, msg := range w.errors {
		v.Errors[f] = msg
	}
	if w.step == StepLandOwnership && w.state.HasOwnLand != nil && !*w.state.HasOwnLand {
		v.Notice = NoOwnLandNotice
	}
	if w.result != nil {
		r := *w.result
		v.Result = &r
	}
	return v
}
