package pools

import (
	"errors"
	"strings"
)

type Category string

const (
	CategoryEducation   Category = "Education"
	CategoryMedical     Category = "Medical"
	CategoryCommunity   Category = "Community"
	CategoryEnvironment Category = "Environment"
	CategoryArts        Category = "Arts"
	CategoryOther       Category = "Other"
)

// Categories is the closed set a pool can be filed under, in display order.
var Categories = []Category{
	CategoryEducation,
	CategoryMedical,
	CategoryCommunity,
	CategoryEnvironment,
	CategoryArts,
	CategoryOther,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type Visibility string

const (
	VisibilityPublic  Visibility = "Public"
	VisibilityPrivate Visibility = "Private"
)

// Field names the draft attributes a user can edit. They double as the keys
// of Errors and as the datastar signal names in the wizard form.
type Field string

const (
	FieldName              Field = "name"
	FieldCategory          Field = "category"
	FieldDescription       Field = "description"
	FieldEndDate           Field = "endDate"
	FieldFundingGoal       Field = "fundingGoal"
	FieldMinContribution   Field = "minContribution"
	FieldBeneficiaryWallet Field = "beneficiaryWallet"
	FieldVisibility        Field = "visibility"
	FieldExternalURL       Field = "externalUrl"
	FieldImageHash         Field = "imageHash"
)

var ErrUnknownField = errors.New("pools: unknown draft field")
var ErrInvalidVisibility = errors.New("pools: invalid visibility")

// Draft is the pool record accumulated across the wizard steps. Values are
// kept as the user typed them; validators decide whether they are usable.
type Draft struct {
	Name              string     `json:"name"`
	Category          Category   `json:"category"`
	Description       string     `json:"description"`
	EndDate           string     `json:"endDate"` // YYYY-MM-DD
	FundingGoal       string     `json:"fundingGoal"`
	MinContribution   string     `json:"minContribution,omitempty"`
	BeneficiaryWallet string     `json:"beneficiaryWallet"`
	Visibility        Visibility `json:"visibility"`
	ExternalURL       string     `json:"externalUrl,omitempty"`
	ImageHash         string     `json:"imageHash,omitempty"`
}

// Set writes a single field. Callers are expected to clear that field's
// error afterwards, see Wizard.Set.
func (d *Draft) Set(field Field, value string) error {
	switch field {
	case FieldName:
		d.Name = value
	case FieldCategory:
		d.Category = Category(value)
	case FieldDescription:
		d.Description = value
	case FieldEndDate:
		d.EndDate = strings.TrimSpace(value)
	case FieldFundingGoal:
		d.FundingGoal = strings.TrimSpace(value)
	case FieldMinContribution:
		d.MinContribution = strings.TrimSpace(value)
	case FieldBeneficiaryWallet:
		d.BeneficiaryWallet = strings.TrimSpace(value)
	case FieldVisibility:
		v := Visibility(value)
		if v != VisibilityPublic && v != VisibilityPrivate {
			return ErrInvalidVisibility
		}
		d.Visibility = v
	case FieldExternalURL:
		d.ExternalURL = strings.TrimSpace(value)
	case FieldImageHash:
		d.ImageHash = strings.TrimSpace(value)
	default:
		return ErrUnknownField
	}
	return nil
}

// Get is the inverse of Set, used when rendering the form back.
func (d Draft) Get(field Field) string {
	switch field {
	case FieldName:
		return d.Name
	case FieldCategory:
		return string(d.Category)
	case FieldDescription:
		return d.Description
	case FieldEndDate:
		return d.EndDate
	case FieldFundingGoal:
		return d.FundingGoal
	case FieldMinContribution:
		return d.MinContribution
	case FieldBeneficiaryWallet:
		return d.BeneficiaryWallet
	case FieldVisibility:
		return string(d.Visibility)
	case FieldExternalURL:
		return d.ExternalURL
	case FieldImageHash:
		return d.ImageHash
	}
	return ""
}

// Errors maps a field to the message shown next to it. A missing key means
// the field is valid.
type Errors map[Field]string

func (e Errors) Has(field Field) bool {
	_, ok := e[field]
	return ok
}
