// Package form defines the three wizard step payloads and their field
// rules.
package form

import "strings"

type Step string

const (
	StepPersonal  Step = "personal"
	StepFamily    Step = "family"
	StepSituation Step = "situation"
	StepSuccess   Step = "success"
)

// Index orders the steps; unknown steps return -1.
func (s Step) Index() int {
	switch s {
	case StepPersonal:
		return 0
	case StepFamily:
		return 1
	case StepSituation:
		return 2
	case StepSuccess:
		return 3
	default:
		return -1
	}
}

func (s Step) Valid() bool { return s.Index() >= 0 }

// NarrativeField names one of the free-text situation fields.
type NarrativeField string

const (
	FieldFinancialSituation      NarrativeField = "financialSituation"
	FieldEmploymentCircumstances NarrativeField = "employmentCircumstances"
	FieldReasonForApplying       NarrativeField = "reasonForApplying"
)

var NarrativeFields = []NarrativeField{
	FieldFinancialSituation,
	FieldEmploymentCircumstances,
	FieldReasonForApplying,
}

func (f NarrativeField) Valid() bool {
	for _, nf := range NarrativeFields {
		if f == nf {
			return true
		}
	}
	return false
}

var (
	Genders            = []string{"male", "female", "other", "prefer-not-to-say"}
	MaritalStatuses    = []string{"single", "married", "divorced", "widowed", "separated"}
	EmploymentStatuses = []string{"employed", "partTime", "unemployed", "retired", "student", "disabled"}
	HousingStatuses    = []string{"own", "rent", "family", "homeless", "temporary"}
)

// PersonalInfo is the first step. Nil fields have not been entered yet.
type PersonalInfo struct {
	Name        *string `json:"name,omitempty"`
	NationalID  *string `json:"nationalId,omitempty"`
	DateOfBirth *string `json:"dateOfBirth,omitempty"`
	Gender      *string `json:"gender,omitempty"`
	Address     *string `json:"address,omitempty"`
	City        *string `json:"city,omitempty"`
	State       *string `json:"state,omitempty"`
	Country     *string `json:"country,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Email       *string `json:"email,omitempty"`
}

// Merge copies every field set in patch over p.
func (p PersonalInfo) Merge(patch PersonalInfo) PersonalInfo {
	mergeString(&p.Name, patch.Name)
	mergeString(&p.NationalID, patch.NationalID)
	mergeString(&p.DateOfBirth, patch.DateOfBirth)
	mergeString(&p.Gender, patch.Gender)
	mergeString(&p.Address, patch.Address)
	mergeString(&p.City, patch.City)
	mergeString(&p.State, patch.State)
	mergeString(&p.Country, patch.Country)
	mergeString(&p.Phone, patch.Phone)
	mergeString(&p.Email, patch.Email)
	return p
}

// Trimmed returns a copy with surrounding whitespace removed.
func (p PersonalInfo) Trimmed() PersonalInfo {
	return PersonalInfo{
		Name:        trim(p.Name),
		NationalID:  trim(p.NationalID),
		DateOfBirth: trim(p.DateOfBirth),
		Gender:      trim(p.Gender),
		Address:     trim(p.Address),
		City:        trim(p.City),
		State:       trim(p.State),
		Country:     trim(p.Country),
		Phone:       trim(p.Phone),
		Email:       trim(p.Email),
	}
}

// FamilyFinancial is the second step.
type FamilyFinancial struct {
	MaritalStatus    *string  `json:"maritalStatus,omitempty"`
	Dependents       *Numeric `json:"dependents,omitempty"`
	EmploymentStatus *string  `json:"employmentStatus,omitempty"`
	MonthlyIncome    *Numeric `json:"monthlyIncome,omitempty"`
	HousingStatus    *string  `json:"housingStatus,omitempty"`
}

func (f FamilyFinancial) Merge(patch FamilyFinancial) FamilyFinancial {
	mergeString(&f.MaritalStatus, patch.MaritalStatus)
	mergeNumeric(&f.Dependents, patch.Dependents)
	mergeString(&f.EmploymentStatus, patch.EmploymentStatus)
	mergeNumeric(&f.MonthlyIncome, patch.MonthlyIncome)
	mergeString(&f.HousingStatus, patch.HousingStatus)
	return f
}

func (f FamilyFinancial) Trimmed() FamilyFinancial {
	return FamilyFinancial{
		MaritalStatus:    trim(f.MaritalStatus),
		Dependents:       trimNumeric(f.Dependents),
		EmploymentStatus: trim(f.EmploymentStatus),
		MonthlyIncome:    trimNumeric(f.MonthlyIncome),
		HousingStatus:    trim(f.HousingStatus),
	}
}

// SituationDescriptions is the third step.
type SituationDescriptions struct {
	FinancialSituation      *string `json:"financialSituation,omitempty"`
	EmploymentCircumstances *string `json:"employmentCircumstances,omitempty"`
	ReasonForApplying       *string `json:"reasonForApplying,omitempty"`
}

func (s SituationDescriptions) Merge(patch SituationDescriptions) SituationDescriptions {
	mergeString(&s.FinancialSituation, patch.FinancialSituation)
	mergeString(&s.EmploymentCircumstances, patch.EmploymentCircumstances)
	mergeString(&s.ReasonForApplying, patch.ReasonForApplying)
	return s
}

func (s SituationDescriptions) Trimmed() SituationDescriptions {
	return SituationDescriptions{
		FinancialSituation:      trim(s.FinancialSituation),
		EmploymentCircumstances: trim(s.EmploymentCircumstances),
		ReasonForApplying:       trim(s.ReasonForApplying),
	}
}

// Get returns the draft text of field, or "".
func (s SituationDescriptions) Get(field NarrativeField) string {
	var v *string
	switch field {
	case FieldFinancialSituation:
		v = s.FinancialSituation
	case FieldEmploymentCircumstances:
		v = s.EmploymentCircumstances
	case FieldReasonForApplying:
		v = s.ReasonForApplying
	}
	if v == nil {
		return ""
	}
	return *v
}

// With returns a patch setting field to text.
func With(field NarrativeField, text string) SituationDescriptions {
	var s SituationDescriptions
	switch field {
	case FieldFinancialSituation:
		s.FinancialSituation = &text
	case FieldEmploymentCircumstances:
		s.EmploymentCircumstances = &text
	case FieldReasonForApplying:
		s.ReasonForApplying = &text
	}
	return s
}

// Application is the complete payload posted on submission.
type Application struct {
	PersonalInfo          PersonalInfo          `json:"personalInfo"`
	FamilyFinancial       FamilyFinancial       `json:"familyFinancial"`
	SituationDescriptions SituationDescriptions `json:"situationDescriptions"`
}

// Ptr returns a pointer to v, for building partial records.
func Ptr[T any](v T) *T { return &v }

// Value dereferences p, returning the zero value for nil.
func Value[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

func mergeString(dst **string, src *string) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

func mergeNumeric(dst **Numeric, src *Numeric) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

func trim(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}

func trimNumeric(p *Numeric) *Numeric {
	if p == nil {
		return nil
	}
	v := Numeric(strings.TrimSpace(string(*p)))
	return &v
}
