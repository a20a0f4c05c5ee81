package form

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"social-support/internal/common/validation"
	"social-support/internal/locale"
)

const (
	dateLayout = "2006-01-02"
	adultAge   = 18
)

// FieldErrors maps a field name to its localized message. A nil or empty
// FieldErrors means the step is valid.
type FieldErrors map[string]string

func (fe FieldErrors) Valid() bool { return len(fe) == 0 }

// Fields returns the failing field names in sorted order.
func (fe FieldErrors) Fields() []string {
	out := make([]string, 0, len(fe))
	for f := range fe {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for _, f := range fe.Fields() {
		parts = append(parts, f+": "+fe[f])
	}
	return strings.Join(parts, "; ")
}

// Validator applies the step rules. The clock only matters for the date
// of birth checks.
type Validator struct {
	now func() time.Time
}

func NewValidator() *Validator {
	return &Validator{now: time.Now}
}

// WithClock returns a validator that reads the current time from now.
func (v *Validator) WithClock(now func() time.Time) *Validator {
	return &Validator{now: now}
}

func (v *Validator) Personal(p PersonalInfo, lang locale.Language) FieldErrors {
	p = p.Trimmed()
	doc := map[string]interface{}{}
	putString(doc, "name", p.Name)
	putString(doc, "nationalId", p.NationalID)
	putString(doc, "dateOfBirth", p.DateOfBirth)
	putString(doc, "gender", p.Gender)
	putString(doc, "address", p.Address)
	putString(doc, "city", p.City)
	putString(doc, "state", p.State)
	putString(doc, "country", p.Country)
	putString(doc, "phone", p.Phone)
	putString(doc, "email", p.Email)

	errs := check(personalRules, doc, lang)
	if _, failed := errs["dateOfBirth"]; !failed && p.DateOfBirth != nil && *p.DateOfBirth != "" {
		if key := v.birthDateRule(*p.DateOfBirth); key != "" {
			errs["dateOfBirth"] = locale.Message(lang, key, nil)
		}
	}
	return errs
}

func (v *Validator) Family(f FamilyFinancial, lang locale.Language) FieldErrors {
	f = f.Trimmed()
	doc := map[string]interface{}{}
	errs := FieldErrors{}
	putString(doc, "maritalStatus", f.MaritalStatus)
	putString(doc, "employmentStatus", f.EmploymentStatus)
	putString(doc, "housingStatus", f.HousingStatus)
	putInteger(doc, errs, "dependents", f.Dependents, lang)
	putNumeric(doc, errs, "monthlyIncome", f.MonthlyIncome, lang)

	for field, msg := range check(familyRules, doc, lang) {
		if _, exists := errs[field]; !exists {
			errs[field] = msg
		}
	}
	return errs
}

func (v *Validator) Situation(s SituationDescriptions, lang locale.Language) FieldErrors {
	s = s.Trimmed()
	doc := map[string]interface{}{}
	putString(doc, "financialSituation", s.FinancialSituation)
	putString(doc, "employmentCircumstances", s.EmploymentCircumstances)
	putString(doc, "reasonForApplying", s.ReasonForApplying)
	return check(situationRules, doc, lang)
}

// Application validates all three steps. Keys are prefixed with the step
// payload name ("personalInfo.email").
func (v *Validator) Application(app Application, lang locale.Language) FieldErrors {
	out := FieldErrors{}
	for field, msg := range v.Personal(app.PersonalInfo, lang) {
		out["personalInfo."+field] = msg
	}
	for field, msg := range v.Family(app.FamilyFinancial, lang) {
		out["familyFinancial."+field] = msg
	}
	for field, msg := range v.Situation(app.SituationDescriptions, lang) {
		out["situationDescriptions."+field] = msg
	}
	return out
}

func (v *Validator) birthDateRule(raw string) string {
	dob, err := time.Parse(dateLayout, raw)
	if err != nil {
		return "validation.date"
	}
	now := v.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if !dob.Before(today) {
		return "validation.pastDate"
	}
	if Age(dob, now) < adultAge {
		return "validation.adult"
	}
	return ""
}

// Age returns the number of whole years between dob and now.
func Age(dob, now time.Time) int {
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}

func check(schema *validation.Schema, doc map[string]interface{}, lang locale.Language) FieldErrors {
	errs := FieldErrors{}
	res, err := schema.Validate(doc)
	if err != nil {
		// schemas are compiled from constants; a failure here means the
		// document itself could not be loaded
		errs["(root)"] = locale.Message(lang, "validation.required", nil)
		return errs
	}
	for _, ve := range res.Errors {
		if _, exists := errs[ve.Field]; exists {
			continue
		}
		errs[ve.Field] = message(ve, lang)
	}
	return errs
}

func message(ve validation.ValidationError, lang locale.Language) string {
	switch ve.Code {
	case validation.RuleRequired:
		return locale.Message(lang, "validation.required", nil)
	case validation.RuleMinLength:
		return locale.Message(lang, "validation.minLength", ve.Params)
	case validation.RuleMaxLength:
		return locale.Message(lang, "validation.maxLength", ve.Params)
	case validation.RuleEnum:
		return locale.Message(lang, "validation.invalidOption", nil)
	case validation.RuleMinimum:
		return locale.Message(lang, "validation.positive", nil)
	case validation.RuleMaximum:
		return locale.Message(lang, "validation.max", ve.Params)
	case validation.RuleType, validation.RuleMultiple:
		return locale.Message(lang, "validation.numeric", nil)
	case validation.RulePattern, validation.RuleFormat:
		switch ve.Field {
		case "email":
			return locale.Message(lang, "validation.email", nil)
		case "phone":
			return locale.Message(lang, "validation.phone", nil)
		case "nationalId":
			return locale.Message(lang, "validation.nationalId", nil)
		case "dateOfBirth":
			return locale.Message(lang, "validation.date", nil)
		}
	}
	return locale.Message(lang, "validation.invalidOption", nil)
}

// putString adds non-blank values; blank ones stay out so the schema
// reports them as required.
func putString(doc map[string]interface{}, key string, v *string) {
	if v != nil && *v != "" {
		doc[key] = *v
	}
}

func putNumeric(doc map[string]interface{}, errs FieldErrors, key string, v *Numeric, lang locale.Language) {
	if v == nil || *v == "" {
		return
	}
	if !v.Canonical() {
		errs[key] = locale.Message(lang, "validation.numeric", nil)
		return
	}
	doc[key] = json.Number(*v)
}

// putInteger is putNumeric for whole counts; "1.0" is rejected even though
// the schema would accept it as an integer.
func putInteger(doc map[string]interface{}, errs FieldErrors, key string, v *Numeric, lang locale.Language) {
	if v == nil || *v == "" {
		return
	}
	if _, ok := v.Int(); !ok {
		errs[key] = locale.Message(lang, "validation.numeric", nil)
		return
	}
	doc[key] = json.Number(*v)
}
