package form

import "social-support/internal/common/validation"

const personalSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["name", "nationalId", "dateOfBirth", "gender", "address", "city", "state", "country", "phone", "email"],
  "properties": {
    "name":        {"type": "string", "minLength": 2, "maxLength": 100},
    "nationalId":  {"type": "string", "minLength": 6, "maxLength": 20, "pattern": "^[0-9A-Za-z-]+$"},
    "dateOfBirth": {"type": "string", "format": "date"},
    "gender":      {"type": "string", "enum": ["male", "female", "other", "prefer-not-to-say"]},
    "address":     {"type": "string", "minLength": 5, "maxLength": 200},
    "city":        {"type": "string", "minLength": 2, "maxLength": 50},
    "state":       {"type": "string", "minLength": 2, "maxLength": 50},
    "country":     {"type": "string", "minLength": 2, "maxLength": 50},
    "phone":       {"type": "string", "pattern": "^[+]?[1-9][0-9]{0,15}$"},
    "email":       {"type": "string", "maxLength": 255, "format": "email", "pattern": "^[^\\s@]+@[^\\s@]+\\.[^\\s@]+$"}
  }
}`

const familySchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["maritalStatus", "dependents", "employmentStatus", "monthlyIncome", "housingStatus"],
  "properties": {
    "maritalStatus":    {"type": "string", "enum": ["single", "married", "divorced", "widowed", "separated"]},
    "dependents":       {"type": "integer", "minimum": 0, "maximum": 20},
    "employmentStatus": {"type": "string", "enum": ["employed", "partTime", "unemployed", "retired", "student", "disabled"]},
    "monthlyIncome":    {"type": "number", "exclusiveMinimum": 0, "maximum": 1000000},
    "housingStatus":    {"type": "string", "enum": ["own", "rent", "family", "homeless", "temporary"]}
  }
}`

const situationSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["financialSituation", "employmentCircumstances", "reasonForApplying"],
  "properties": {
    "financialSituation":      {"type": "string", "minLength": 50, "maxLength": 2000},
    "employmentCircumstances": {"type": "string", "minLength": 50, "maxLength": 2000},
    "reasonForApplying":       {"type": "string", "minLength": 50, "maxLength": 2000}
  }
}`

var (
	personalRules  = validation.MustCompile(personalSchema)
	familyRules    = validation.MustCompile(familySchema)
	situationRules = validation.MustCompile(situationSchema)
)
