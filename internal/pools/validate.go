package pools

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/nevofinance/nevo/internal/stellar"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

const (
	MinNameLength        = 3
	MinDescriptionLength = 10

	// DateLayout is the layout of Draft.EndDate, matching <input type="date">.
	DateLayout = "2006-01-02"
)

// DeadlineZone is the zone end dates are read in, both when validating and
// when the deadline goes on-chain.
var DeadlineZone = time.UTC

// ValidateStep1 checks the basics step: name, category, description and end
// date. today is only used for its calendar date in its own location.
func ValidateStep1(d Draft, today time.Time) Errors {
	errs := Errors{}

	name := strings.TrimSpace(d.Name)
	switch {
	case name == "":
		errs[FieldName] = "Pool name is required"
	case utf8.RuneCountInString(name) < MinNameLength:
		errs[FieldName] = "Pool name must be at least 3 characters"
	}

	if d.Category == "" {
		errs[FieldCategory] = "Please select a category"
	} else if !d.Category.Valid() {
		errs[FieldCategory] = "Please select a valid category"
	}

	desc := strings.TrimSpace(d.Description)
	switch {
	case desc == "":
		errs[FieldDescription] = "Description is required"
	case utf8.RuneCountInString(desc) < MinDescriptionLength:
		errs[FieldDescription] = "Description must be at least 10 characters"
	}

	if d.EndDate == "" {
		errs[FieldEndDate] = "End date is required"
	} else if end, err := ParseEndDate(d.EndDate, today.Location()); err != nil {
		errs[FieldEndDate] = "Enter a valid end date"
	} else if !end.After(calendarDay(today)) {
		errs[FieldEndDate] = "End date must be in the future"
	}

	return errs
}

// ValidateStep2 checks the financials step.
func ValidateStep2(d Draft) Errors {
	errs := Errors{}

	goal, goalErr := decimal.NewFromString(d.FundingGoal)
	switch {
	case d.FundingGoal == "":
		errs[FieldFundingGoal] = "Funding goal is required"
	case goalErr != nil:
		errs[FieldFundingGoal] = "Funding goal must be a number"
	case !goal.IsPositive():
		errs[FieldFundingGoal] = "Funding goal must be greater than 0"
	}

	if d.MinContribution != "" {
		min, err := decimal.NewFromString(d.MinContribution)
		switch {
		case err != nil:
			errs[FieldMinContribution] = "Minimum contribution must be a number"
		case min.IsNegative():
			errs[FieldMinContribution] = "Minimum contribution cannot be negative"
		case goalErr == nil && goal.IsPositive() && min.GreaterThan(goal):
			errs[FieldMinContribution] = "Minimum contribution cannot exceed the funding goal"
		}
	}

	if d.BeneficiaryWallet == "" {
		errs[FieldBeneficiaryWallet] = "Beneficiary wallet address is required"
	} else if !stellar.ValidAddress(d.BeneficiaryWallet) {
		errs[FieldBeneficiaryWallet] = "Enter a valid Stellar address"
	}

	// Rendered as a link on the pool page, so only http(s) is accepted.
	if d.ExternalURL != "" && validate.Var(d.ExternalURL, "http_url") != nil {
		errs[FieldExternalURL] = "Enter a valid http(s) link"
	}

	return errs
}

// ParseEndDate reads a YYYY-MM-DD date as midnight in loc.
func ParseEndDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, loc)
}

// Deadline is the last second of the end date in DeadlineZone. A pool keeps
// accepting donations through its whole end date.
func Deadline(endDate string) (time.Time, error) {
	day, err := ParseEndDate(endDate, DeadlineZone)
	if err != nil {
		return time.Time{}, err
	}
	return day.AddDate(0, 0, 1).Add(-time.Second), nil
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
