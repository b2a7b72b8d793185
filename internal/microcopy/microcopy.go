// Package microcopy renders short persona-aware plain-language explainers
// of a claim explanation. Templates are keyed by a typed (Persona, Level,
// Language) tuple; a missing combination is an explicit error, never a
// silent fallback.
package microcopy

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/claimlens/claimlens/internal/model"
)

// ErrMissingTemplate signals an unregistered (persona, level, language)
// combination.
var ErrMissingTemplate = errors.New("no template registered for requested persona/level/language")

// Persona is the reader the copy is addressed to.
type Persona string

const (
	PersonaPatient  Persona = "patient"
	PersonaPayer    Persona = "payer"
	PersonaProvider Persona = "provider"
)

// Level is the reading level of the copy.
type Level string

const (
	LevelGrade4 Level = "grade4"
	LevelGrade6 Level = "grade6"
	LevelGrade8 Level = "grade8"
	LevelPro    Level = "pro"
)

// Language selects the output language.
type Language string

const (
	LangEnglish Language = "en"
	LangSpanish Language = "es"
	LangHindi   Language = "hi"
)

// ParsePersona validates a persona name.
func ParsePersona(s string) (Persona, error) {
	switch Persona(s) {
	case PersonaPatient, PersonaPayer, PersonaProvider:
		return Persona(s), nil
	}
	return "", fmt.Errorf("unknown persona %q", s)
}

// ParseLevel validates a reading level name.
func ParseLevel(s string) (Level, error) {
	switch Level(s) {
	case LevelGrade4, LevelGrade6, LevelGrade8, LevelPro:
		return Level(s), nil
	}
	return "", fmt.Errorf("unknown level %q", s)
}

// ParseLanguage validates a language code.
func ParseLanguage(s string) (Language, error) {
	switch Language(s) {
	case LangEnglish, LangSpanish, LangHindi:
		return Language(s), nil
	}
	return "", fmt.Errorf("unknown language %q", s)
}

// Generate renders 2-5 bullet lines for the explanation. Money values are
// substituted into the selected template set; a risk flag line and a
// missing-data line are appended when applicable.
func Generate(payload *model.ExplainPayload, persona Persona, level Level, lang Language) (string, error) {
	set, err := lookupTemplates(persona, level, lang)
	if err != nil {
		return "", err
	}

	values := breakdownValues(payload)
	billed := values[model.LabelAmountBilled]
	allowed := values[model.LabelAllowedAmount]
	insurerPaid := values[model.LabelInsurerPaid]
	adjustments := values[model.LabelAdjustments]
	patient := values[model.LabelPatientResp]

	var lines []string

	if billed != nil {
		lines = append(lines, render(set.ChargePresent, map[string]string{
			"doc_id": payload.DocID, "billed": model.Money(*billed),
		}))
	} else {
		lines = append(lines, render(set.ChargeMissing, map[string]string{"doc_id": payload.DocID}))
	}

	if allowed != nil {
		lines = append(lines, render(set.AllowedPresent, map[string]string{"allowed": model.Money(*allowed)}))
	} else {
		lines = append(lines, set.AllowedMissing)
	}

	switch {
	case patient != nil && insurerPaid != nil && adjustments != nil:
		lines = append(lines, render(set.PatientPresent, map[string]string{
			"insurer":     model.Money(*insurerPaid),
			"adjustments": model.Money(*adjustments),
			"patient":     model.Money(*patient),
		}))
	case patient != nil:
		lines = append(lines, render(set.PatientKnown, map[string]string{"patient": model.Money(*patient)}))
	default:
		lines = append(lines, set.PatientMissing)
	}

	if flagLine := renderFlagLine(set, payload.RiskFlags, lang); flagLine != "" {
		lines = append(lines, flagLine)
	}

	if missing := missingLabels(values, payload.Calcs); len(missing) > 0 {
		lines = append(lines, render(set.MissingLine, map[string]string{
			"labels": formatLabelList(missing, lang),
		}))
	}

	trimmed := lines[:0]
	for _, line := range lines {
		line = expandAcronyms(strings.TrimSpace(line))
		if line != "" {
			trimmed = append(trimmed, line)
		}
	}
	if len(trimmed) > 5 {
		trimmed = trimmed[:5]
	}

	var b strings.Builder
	for i, line := range trimmed {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- ")
		b.WriteString(line)
	}
	return b.String(), nil
}

// breakdownValues indexes the breakdown amounts by label.
func breakdownValues(payload *model.ExplainPayload) map[string]*float64 {
	values := make(map[string]*float64, len(payload.Breakdown))
	for _, entry := range payload.Breakdown {
		if entry.Label != "" {
			values[entry.Label] = entry.Value
		}
	}
	return values
}

// missingLabels collects breakdown labels with no value plus calc labels
// flagged unverifiable, sorted for stable output.
func missingLabels(values map[string]*float64, calcs []model.Calc) []string {
	seen := make(map[string]bool)
	for label, value := range values {
		if value == nil {
			seen[label] = true
		}
	}
	for _, calc := range calcs {
		if calc.Unverifiable && calc.Label != "" {
			seen[calc.Label] = true
		}
	}

	missing := make([]string, 0, len(seen))
	for label := range seen {
		missing = append(missing, label)
	}
	sort.Strings(missing)
	return missing
}

func renderFlagLine(set templateSet, flags []model.RiskFlag, lang Language) string {
	if len(flags) == 0 {
		return ""
	}
	primary := flags[0]
	rationale := primary.Rationale
	if rationale == "" {
		rationale = primary.Label
	}
	text := severityPhrase(primary.Severity, lang) + ": " + rationale
	if extra := len(flags) - 1; extra > 0 {
		text += " " + extraAlertSuffix(lang, extra)
	}
	return render(set.FlagLine, map[string]string{"text": expandAcronyms(text)})
}

// render substitutes {name} placeholders.
func render(tmpl string, vars map[string]string) string {
	out := tmpl
	for name, value := range vars {
		out = strings.ReplaceAll(out, "{"+name+"}", value)
	}
	return out
}
