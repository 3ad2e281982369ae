package components

import (
	"strconv"

	"github.com/nevofinance/nevo/internal/pools"
	"github.com/nevofinance/nevo/web/helpers"
	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/components"
	. "maragu.dev/gomponents/html"
)

const wizardBase = "/dashboard/pools/new/"

// WizardSignals seeds the form signals from the stored draft, plus the
// fetching flag the buttons disable themselves on.
func WizardSignals(d pools.Draft) map[string]any {
	s := map[string]any{"fetching": false}
	for _, f := range WizardFields {
		s[string(f)] = d.Get(f)
	}
	return s
}

// WizardFields are all the fields the form binds, step 1 then step 2.
var WizardFields = []pools.Field{
	pools.FieldName,
	pools.FieldCategory,
	pools.FieldDescription,
	pools.FieldEndDate,
	pools.FieldFundingGoal,
	pools.FieldMinContribution,
	pools.FieldBeneficiaryWallet,
	pools.FieldVisibility,
	pools.FieldExternalURL,
	pools.FieldImageHash,
}

func wizardPost(action string) string {
	return "@post('" + wizardBase + action + "')"
}

func Wizard(w *pools.Wizard, connected bool) Node {
	return Div(ID("pool-wizard"), Class("flex flex-col gap-6"),
		Signals(WizardSignals(w.Draft)),
		stepper(w),
		Notice("wizard-notice", w.Notice, "error"),
		wizardBody(w, connected),
		Div(ID("wizard-status")),
	)
}

func stepper(w *pools.Wizard) Node {
	steps := []pools.Step{pools.StepBasics, pools.StepFinancials, pools.StepReview}
	return Ol(Class("flex items-center gap-4 text-sm"),
		Map(steps, func(s pools.Step) Node {
			active := s == w.Step || (s == pools.StepReview && w.Step == pools.StepSubmitting)
			done := s < w.Step
			reachable := w.Reachable(s)
			return Li(
				Button(Type("button"),
					If(!reachable, Disabled()),
					If(reachable, Data("on-click", wizardPost("goto?step="+strconv.Itoa(int(s))))),
					Classes{
						"flex items-center gap-2 rounded-full px-3 py-1": true,
						"bg-indigo-600 text-white":                       active,
						"text-emerald-300":                               done && !active,
						"text-indigo-300 hover:text-white":               reachable && !done && !active,
						"text-neutral-500 cursor-not-allowed":            !reachable && !active,
					},
					If(done && !active, helpers.RenderSVG("icons/check", "size-4")),
					Span(Text(strconv.Itoa(int(s))+". "+s.String())),
				),
			)
		}),
	)
}

func wizardBody(w *pools.Wizard, connected bool) Node {
	switch w.Step {
	case pools.StepBasics:
		return basicsStep(w)
	case pools.StepFinancials:
		return financialsStep(w)
	case pools.StepReview:
		return reviewStep(w, connected)
	case pools.StepSubmitting:
		return Div(Class("flex flex-col gap-4"),
			reviewSummary(w.Draft),
			Notice("wizard-progress", "Registering your pool. Approve the transaction in your wallet.", "info"),
		)
	}
	return nil
}

func basicsStep(w *pools.Wizard) Node {
	categories := make([]string, 0, len(pools.Categories))
	for _, c := range pools.Categories {
		categories = append(categories, string(c))
	}

	return Form(Class("grid grid-cols-1 gap-4 md:grid-cols-2"),
		Data("on-submit", wizardPost("next")),
		FieldInput(InputCfg{
			Name:        string(pools.FieldName),
			Label:       "Pool name",
			Placeholder: "Clean water for Kisumu",
			Error:       w.Errors[pools.FieldName],
			Class:       "md:col-span-2",
		}),
		FieldSelect(SelectCfg{
			InputCfg: InputCfg{
				Name:        string(pools.FieldCategory),
				Label:       "Category",
				Placeholder: "Select a category",
				Error:       w.Errors[pools.FieldCategory],
			},
			Options: categories,
		}),
		FieldInput(InputCfg{
			Name:  string(pools.FieldEndDate),
			Label: "End date",
			Type:  "date",
			Error: w.Errors[pools.FieldEndDate],
		}),
		FieldTextArea(InputCfg{
			Name:        string(pools.FieldDescription),
			Label:       "Description",
			Placeholder: "What will the funds be used for?",
			Error:       w.Errors[pools.FieldDescription],
			Hint:        "At least " + strconv.Itoa(pools.MinDescriptionLength) + " characters",
			Class:       "md:col-span-2",
		}),
		Div(Class("flex justify-end md:col-span-2"),
			PrimaryButton(Type("submit"), Data("attr-disabled", "$fetching"),
				Text("Next"), helpers.RenderSVG("icons/arrow-right", "size-4"),
			),
		),
	)
}

func financialsStep(w *pools.Wizard) Node {
	return Form(Class("grid grid-cols-1 gap-4 md:grid-cols-2"),
		Data("on-submit", wizardPost("next")),
		FieldInput(InputCfg{
			Name:        string(pools.FieldFundingGoal),
			Label:       "Funding goal",
			Type:        "number",
			Placeholder: "5000",
			Error:       w.Errors[pools.FieldFundingGoal],
		}),
		FieldInput(InputCfg{
			Name:        string(pools.FieldMinContribution),
			Label:       "Minimum contribution",
			Type:        "number",
			Placeholder: "Optional",
			Error:       w.Errors[pools.FieldMinContribution],
		}),
		FieldInput(InputCfg{
			Name:        string(pools.FieldBeneficiaryWallet),
			Label:       "Beneficiary wallet",
			Placeholder: "G...",
			Error:       w.Errors[pools.FieldBeneficiaryWallet],
			Class:       "md:col-span-2",
		}),
		FieldRadios(SelectCfg{
			InputCfg: InputCfg{
				Name:  string(pools.FieldVisibility),
				Label: "Visibility",
				Error: w.Errors[pools.FieldVisibility],
			},
			Options: []string{string(pools.VisibilityPublic), string(pools.VisibilityPrivate)},
		}),
		FieldInput(InputCfg{
			Name:        string(pools.FieldExternalURL),
			Label:       "External link",
			Type:        "url",
			Placeholder: "https://",
			Error:       w.Errors[pools.FieldExternalURL],
		}),
		FieldInput(InputCfg{
			Name:  string(pools.FieldImageHash),
			Label: "Image hash",
			Hint:  "IPFS hash of the cover image",
			Error: w.Errors[pools.FieldImageHash],
		}),
		Div(Class("flex justify-between md:col-span-2"),
			SecondaryButton(Type("button"), Data("on-click", wizardPost("back")), Text("Back")),
			PrimaryButton(Type("submit"), Data("attr-disabled", "$fetching"),
				Text("Next"), helpers.RenderSVG("icons/arrow-right", "size-4"),
			),
		),
	)
}

func reviewStep(w *pools.Wizard, connected bool) Node {
	return Div(Class("flex flex-col gap-6"),
		reviewSummary(w.Draft),
		If(!connected,
			Notice("wizard-connect", "Connect your wallet to create a pool", "warn"),
		),
		Div(Class("flex justify-between"),
			SecondaryButton(Type("button"), Data("on-click", wizardPost("back")), Text("Back")),
			PrimaryButton(Type("button"),
				Data("on-click", wizardPost("submit")),
				Data("indicator-fetching", ""),
				If(!connected, Disabled()),
				Data("attr-disabled", "$fetching"),
				Text("Create pool"),
			),
		),
	)
}

func reviewSummary(d pools.Draft) Node {
	type row struct {
		Label string
		Value string
	}
	minimum := d.MinContribution
	if minimum == "" {
		minimum = "None"
	}
	rows := []row{
		{"Name", d.Name},
		{"Category", string(d.Category)},
		{"Description", d.Description},
		{"End date", d.EndDate},
		{"Funding goal", d.FundingGoal},
		{"Minimum contribution", minimum},
		{"Beneficiary", d.BeneficiaryWallet},
		{"Visibility", string(d.Visibility)},
	}
	if d.ExternalURL != "" {
		rows = append(rows, row{"External link", d.ExternalURL})
	}
	if d.ImageHash != "" {
		rows = append(rows, row{"Image hash", d.ImageHash})
	}

	return Dl(Class("grid grid-cols-1 gap-x-6 gap-y-3 rounded-lg border border-neutral-800 bg-neutral-900 p-5 text-sm md:grid-cols-[max-content_1fr]"),
		Map(rows, func(r row) Node {
			return Group([]Node{
				Dt(Class("text-neutral-400"), Text(r.Label)),
				Dd(Class("break-all text-white"), Text(r.Value)),
			})
		}),
	)
}

// PoolCreated replaces the wizard once the pool is on-chain.
func PoolCreated(poolID uint64, name, explorerURL string) Node {
	id := strconv.FormatUint(poolID, 10)
	return Div(ID("pool-wizard"), Class("flex flex-col items-start gap-4"),
		Notice("wizard-notice", "Pool \""+name+"\" was created", "success"),
		Div(Class("flex gap-4"),
			A(Href("/pools/"+id), Class("text-indigo-400 hover:underline"), Text("View pool")),
			A(Href(explorerURL), Target("_blank"), Rel("noopener noreferrer"),
				Class("flex items-center gap-1 text-neutral-400 hover:text-white"),
				Text("View transaction"), helpers.RenderSVG("icons/external", "size-4"),
			),
		),
	)
}
