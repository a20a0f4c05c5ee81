// Package prompt builds the instructions sent to the text generation
// model for one narrative field. The applicant client and the AI proxy
// share it so both build identical prompts.
package prompt

import (
	"fmt"
	"strings"
	"unicode"

	"social-support/internal/form"
	"social-support/internal/locale"
)

// Context is what the model is told about the applicant.
type Context struct {
	EmploymentStatus string        `json:"employmentStatus,omitempty"`
	MonthlyIncome    *form.Numeric `json:"monthlyIncome,omitempty"`
	MaritalStatus    string        `json:"maritalStatus,omitempty"`
	Dependents       *form.Numeric `json:"dependents,omitempty"`
	ExistingText     string        `json:"existingText,omitempty"`
}

// FromFamily builds a Context from the family step and a field draft.
func FromFamily(f form.FamilyFinancial, existing string) Context {
	return Context{
		EmploymentStatus: strings.TrimSpace(form.Value(f.EmploymentStatus)),
		MonthlyIncome:    f.MonthlyIncome,
		MaritalStatus:    strings.TrimSpace(form.Value(f.MaritalStatus)),
		Dependents:       f.Dependents,
		ExistingText:     strings.TrimSpace(existing),
	}
}

type Prompt struct {
	System string
	User   string
}

func Build(field form.NarrativeField, lang locale.Language, c Context) Prompt {
	return Prompt{System: System(field, lang, c), User: User(field, lang)}
}

type labels struct {
	employment, income, marital, dependents, existing string
	notProvided, none                                 string
}

var contextLabels = map[locale.Language]labels{
	locale.English: {
		employment:  "Employment Status",
		income:      "Monthly Income",
		marital:     "Marital Status",
		dependents:  "Number of Dependents",
		existing:    "Existing Text",
		notProvided: "Not provided",
		none:        "None",
	},
	locale.Arabic: {
		employment:  "حالة التوظيف",
		income:      "الدخل الشهري",
		marital:     "الحالة الاجتماعية",
		dependents:  "عدد المعالين",
		existing:    "النص الموجود",
		notProvided: "غير محدد",
		none:        "لا يوجد",
	},
}

// System returns the shared guidelines, the applicant context as
// key-value lines and the task for field.
func System(field form.NarrativeField, lang locale.Language, c Context) string {
	if !lang.Valid() {
		lang = locale.English
	}
	l := contextLabels[lang]

	var b strings.Builder
	b.WriteString(guidelines[lang])
	b.WriteString("\n\n")
	b.WriteString(contextHeader[lang])
	b.WriteString("\n")
	fmt.Fprintf(&b, "- %s: %s\n", l.employment, orDefault(c.EmploymentStatus, l.notProvided))
	fmt.Fprintf(&b, "- %s: %s\n", l.income, income(c.MonthlyIncome, l.notProvided))
	fmt.Fprintf(&b, "- %s: %s\n", l.marital, orDefault(c.MaritalStatus, l.notProvided))
	fmt.Fprintf(&b, "- %s: %s\n", l.dependents, numeric(c.Dependents, l.notProvided))
	fmt.Fprintf(&b, "- %s: %s", l.existing, orDefault(c.ExistingText, l.none))

	if task, ok := tasks[lang][field]; ok {
		b.WriteString("\n\n")
		b.WriteString(task)
	}
	return b.String()
}

// User returns the short user turn asking for the field.
func User(field form.NarrativeField, lang locale.Language) string {
	if lang == locale.Arabic {
		return fmt.Sprintf("يرجى مساعدتي في كتابة وصف %s لطلب المساعدة الاجتماعية الخاص بي.", arabicFieldNames[field])
	}
	return fmt.Sprintf("Please help me write a %s description for my social support application.", Words(string(field)))
}

// Words splits a camelCase identifier into lower-case words:
// "reasonForApplying" becomes "reason for applying".
func Words(id string) string {
	var b strings.Builder
	for i, r := range id {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte(' ')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func numeric(n *form.Numeric, def string) string {
	if n == nil || strings.TrimSpace(n.String()) == "" {
		return def
	}
	return n.String()
}

func income(n *form.Numeric, def string) string {
	v := numeric(n, def)
	if v == def {
		return def
	}
	return "$" + v
}
