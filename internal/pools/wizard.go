package pools

import (
	"context"
	"errors"
	"time"
)

type Step int

const (
	StepBasics Step = iota + 1
	StepFinancials
	StepReview
	// StepSubmitting is entered from StepReview only and is left once the
	// registrar answers.
	StepSubmitting
)

func (s Step) String() string {
	switch s {
	case StepBasics:
		return "Basic Info"
	case StepFinancials:
		return "Financials"
	case StepReview:
		return "Review"
	case StepSubmitting:
		return "Submitting"
	}
	return "Unknown"
}

// ValidationNotice is the single summary shown when a forward move is refused.
const ValidationNotice = "Please fix the highlighted fields before continuing"

var (
	ErrStepInvalid  = errors.New("pools: step has validation errors")
	ErrUnknownStep  = errors.New("pools: unknown step")
	ErrNoNextStep   = errors.New("pools: no step after review")
	ErrNoPrevStep   = errors.New("pools: no step before basics")
	ErrNotReviewing = errors.New("pools: submit is only allowed from review")
	ErrSubmitting   = errors.New("pools: submission in progress")
	ErrNoSubmission = errors.New("pools: no submission in progress")
	ErrNotConnected = errors.New("pools: wallet not connected")
	ErrRegistration = errors.New("pools: registration failed")
)

// Wizard holds the pool-creation flow between requests. It is a plain value
// so it can be stored as JSON; all transitions go through its methods.
type Wizard struct {
	Step   Step   `json:"step"`
	Draft  Draft  `json:"draft"`
	Errors Errors `json:"errors,omitempty"`
	Notice string `json:"notice,omitempty"`
	// Reached is the furthest step the user has validated their way to.
	Reached Step `json:"reached"`
}

func NewWizard() *Wizard {
	return &Wizard{
		Step:    StepBasics,
		Draft:   Draft{Visibility: VisibilityPublic},
		Errors:  Errors{},
		Reached: StepBasics,
	}
}

// Set updates a draft field and clears the error attached to it.
func (w *Wizard) Set(field Field, value string) error {
	if w.Step == StepSubmitting {
		return ErrSubmitting
	}
	if err := w.Draft.Set(field, value); err != nil {
		return err
	}
	delete(w.Errors, field)
	if len(w.Errors) == 0 {
		w.Notice = ""
	}
	return nil
}

// Next validates the current step and advances when it is clean. On failure
// the wizard stays put and the errors plus the summary notice are exposed.
func (w *Wizard) Next(today time.Time) error {
	switch w.Step {
	case StepReview:
		return ErrNoNextStep
	case StepSubmitting:
		return ErrSubmitting
	}

	errs := validateStep(w.Step, w.Draft, today)
	if len(errs) > 0 {
		w.Errors = errs
		w.Notice = ValidationNotice
		return ErrStepInvalid
	}

	w.Step++
	if w.Step > w.Reached {
		w.Reached = w.Step
	}
	w.clear()
	return nil
}

// Back returns to the previous step without validating.
func (w *Wizard) Back() error {
	switch w.Step {
	case StepBasics:
		return ErrNoPrevStep
	case StepSubmitting:
		return ErrSubmitting
	}
	w.Step--
	w.clear()
	return nil
}

// GoTo jumps to target. Earlier steps are free; later ones are reached by
// repeated Next calls so every intervening step is validated, and the wizard
// stops on the first step that fails.
func (w *Wizard) GoTo(target Step, today time.Time) error {
	if target < StepBasics || target > StepReview {
		return ErrUnknownStep
	}
	if w.Step == StepSubmitting {
		return ErrSubmitting
	}

	if target <= w.Step {
		w.Step = target
		w.clear()
		return nil
	}

	for w.Step < target {
		if err := w.Next(today); err != nil {
			return err
		}
	}
	return nil
}

// Reachable reports whether the stepper may jump to s: any step up to the
// furthest one reached, and none while a submission is in flight.
func (w *Wizard) Reachable(s Step) bool {
	if w.Step == StepSubmitting {
		return false
	}
	return s >= StepBasics && s <= w.Reached
}

// BeginSubmit moves from review into StepSubmitting. Both data steps are
// validated again since the draft may have aged since review was reached
// (an end date of tomorrow stops being valid overnight); on failure the
// wizard lands on the first broken step.
func (w *Wizard) BeginSubmit(today time.Time) error {
	switch w.Step {
	case StepSubmitting:
		return ErrSubmitting
	case StepReview:
	default:
		return ErrNotReviewing
	}

	for _, s := range []Step{StepBasics, StepFinancials} {
		if errs := validateStep(s, w.Draft, today); len(errs) > 0 {
			w.Step = s
			w.Errors = errs
			w.Notice = ValidationNotice
			return ErrStepInvalid
		}
	}

	w.Step = StepSubmitting
	w.clear()
	return nil
}

// FinishSubmit records the registrar's answer. A failure sends the user back
// to review with the message surfaced; success leaves the wizard in
// StepSubmitting for the caller to discard.
func (w *Wizard) FinishSubmit(err error) error {
	if w.Step != StepSubmitting {
		return ErrNoSubmission
	}
	if err != nil {
		w.Step = StepReview
		w.Notice = failureNotice(err)
	}
	return nil
}

// Submit runs a full submission against reg. The returned error is nil only
// when the pool was registered.
func (w *Wizard) Submit(ctx context.Context, reg Registrar, creator string, today time.Time) (Registration, error) {
	if creator == "" {
		if w.Step == StepReview {
			w.Notice = "Connect your wallet to create a pool"
		}
		return Registration{}, ErrNotConnected
	}
	if err := w.BeginSubmit(today); err != nil {
		return Registration{}, err
	}

	res, err := reg.Register(ctx, creator, w.Draft)
	if ferr := w.FinishSubmit(err); ferr != nil {
		return Registration{}, ferr
	}
	if err != nil {
		return Registration{}, errors.Join(ErrRegistration, err)
	}
	return res, nil
}

func (w *Wizard) clear() {
	w.Errors = Errors{}
	w.Notice = ""
}

func validateStep(s Step, d Draft, today time.Time) Errors {
	switch s {
	case StepBasics:
		return ValidateStep1(d, today)
	case StepFinancials:
		return ValidateStep2(d)
	}
	return Errors{}
}

func failureNotice(err error) string {
	var uerr interface{ UserMessage() string }
	if errors.As(err, &uerr) {
		return uerr.UserMessage()
	}
	return "Pool registration failed, please try again"
}
