package pools

import (
	"testing"
	"time"

	"github.com/stellar/go/keypair"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2026, 6, 10, 18, 30, 0, 0, time.UTC)

func validDraft(t *testing.T) Draft {
	t.Helper()
	return Draft{
		Name:              "Clean Water",
		Category:          CategoryCommunity,
		Description:       "Wells for three villages",
		EndDate:           "2026-07-01",
		FundingGoal:       "5000",
		BeneficiaryWallet: keypair.MustRandom().Address(),
		Visibility:        VisibilityPublic,
	}
}

func TestValidateStep1(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Draft)
		field  Field
		msg    string
	}{
		{"empty name", func(d *Draft) { d.Name = "   " }, FieldName, "Pool name is required"},
		{"short name", func(d *Draft) { d.Name = " ab " }, FieldName, "Pool name must be at least 3 characters"},
		{"missing category", func(d *Draft) { d.Category = "" }, FieldCategory, "Please select a category"},
		{"unknown category", func(d *Draft) { d.Category = "Sports" }, FieldCategory, "Please select a valid category"},
		{"empty description", func(d *Draft) { d.Description = "" }, FieldDescription, "Description is required"},
		{"short description", func(d *Draft) { d.Description = "123456789" }, FieldDescription, "Description must be at least 10 characters"},
		{"missing end date", func(d *Draft) { d.EndDate = "" }, FieldEndDate, "End date is required"},
		{"garbled end date", func(d *Draft) { d.EndDate = "01/07/2026" }, FieldEndDate, "Enter a valid end date"},
		{"end date today", func(d *Draft) { d.EndDate = "2026-06-10" }, FieldEndDate, "End date must be in the future"},
		{"end date in the past", func(d *Draft) { d.EndDate = "2025-12-31" }, FieldEndDate, "End date must be in the future"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft(t)
			tt.mutate(&d)
			errs := ValidateStep1(d, today)
			assert.Len(t, errs, 1)
			assert.Equal(t, tt.msg, errs[tt.field])
		})
	}
}

func TestValidateStep1Boundaries(t *testing.T) {
	d := validDraft(t)
	d.Name = "abc"
	d.Description = "1234567890"
	d.EndDate = "2026-06-11"
	assert.Empty(t, ValidateStep1(d, today))

	// Multibyte characters count once.
	d.Name = "äöü"
	assert.Empty(t, ValidateStep1(d, today))
}

func TestValidateStep1EmptyDraft(t *testing.T) {
	errs := ValidateStep1(Draft{}, today)
	for _, f := range []Field{FieldName, FieldCategory, FieldDescription, FieldEndDate} {
		assert.True(t, errs.Has(f), f)
	}
}

func TestValidateStep2(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Draft)
		field  Field
		msg    string
	}{
		{"missing goal", func(d *Draft) { d.FundingGoal = "" }, FieldFundingGoal, "Funding goal is required"},
		{"non numeric goal", func(d *Draft) { d.FundingGoal = "lots" }, FieldFundingGoal, "Funding goal must be a number"},
		{"zero goal", func(d *Draft) { d.FundingGoal = "0" }, FieldFundingGoal, "Funding goal must be greater than 0"},
		{"negative goal", func(d *Draft) { d.FundingGoal = "-5" }, FieldFundingGoal, "Funding goal must be greater than 0"},
		{"non numeric minimum", func(d *Draft) { d.MinContribution = "x" }, FieldMinContribution, "Minimum contribution must be a number"},
		{"negative minimum", func(d *Draft) { d.MinContribution = "-1" }, FieldMinContribution, "Minimum contribution cannot be negative"},
		{"minimum above goal", func(d *Draft) { d.MinContribution = "5000.01" }, FieldMinContribution, "Minimum contribution cannot exceed the funding goal"},
		{"missing beneficiary", func(d *Draft) { d.BeneficiaryWallet = "" }, FieldBeneficiaryWallet, "Beneficiary wallet address is required"},
		{"bad beneficiary", func(d *Draft) { d.BeneficiaryWallet = "GABC" }, FieldBeneficiaryWallet, "Enter a valid Stellar address"},
		{"script link", func(d *Draft) { d.ExternalURL = "javascript:alert(1)" }, FieldExternalURL, "Enter a valid http(s) link"},
		{"bare word link", func(d *Draft) { d.ExternalURL = "homepage" }, FieldExternalURL, "Enter a valid http(s) link"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft(t)
			tt.mutate(&d)
			errs := ValidateStep2(d)
			assert.Len(t, errs, 1)
			assert.Equal(t, tt.msg, errs[tt.field])
		})
	}
}

func TestValidateStep2Accepts(t *testing.T) {
	d := validDraft(t)
	d.FundingGoal = "0.0001"
	assert.Empty(t, ValidateStep2(d))

	d.FundingGoal = "100"
	d.MinContribution = "100"
	assert.Empty(t, ValidateStep2(d), "minimum equal to the goal")

	d.MinContribution = "0"
	assert.Empty(t, ValidateStep2(d))

	d.ExternalURL = "https://example.org/water"
	assert.Empty(t, ValidateStep2(d))
}

func TestDeadlineCoversWholeEndDate(t *testing.T) {
	end, err := Deadline("2026-07-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 7, 1, 23, 59, 59, 0, time.UTC), end)

	// The last moment of the end date is still open; the next day is not.
	assert.True(t, end.After(time.Date(2026, 7, 1, 18, 0, 0, 0, time.UTC)))
	assert.False(t, end.After(time.Date(2026, 7, 2, 0, 0, 0, 0, time.UTC)))

	_, err = Deadline("07/01/2026")
	assert.Error(t, err)
}
