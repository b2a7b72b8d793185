package microcopy

import (
	"fmt"
	"strings"

	"github.com/claimlens/claimlens/internal/model"
)

// templateSet holds every line variant for one (persona, level) pair.
type templateSet struct {
	ChargePresent  string
	ChargeMissing  string
	AllowedPresent string
	AllowedMissing string
	PatientPresent string
	PatientKnown   string
	PatientMissing string
	FlagLine       string
	MissingLine    string
}

type templateKey struct {
	Persona Persona
	Level   Level
}

// lookupTemplates resolves the template set for the tuple. Non-English
// languages use a single override set per language; English varies by
// persona and level.
func lookupTemplates(persona Persona, level Level, lang Language) (templateSet, error) {
	if lang != LangEnglish {
		set, ok := languageOverrides[lang]
		if !ok {
			return templateSet{}, ErrMissingTemplate
		}
		return set, nil
	}
	set, ok := englishTemplates[templateKey{persona, level}]
	if !ok {
		return templateSet{}, ErrMissingTemplate
	}
	return set, nil
}

var englishTemplates = map[templateKey]templateSet{
	{PersonaPatient, LevelGrade4}: {
		ChargePresent:  "We checked claim {doc_id}. The doctor billed {billed} for your care.",
		ChargeMissing:  "We checked claim {doc_id}, but the doctor's bill was left blank.",
		AllowedPresent: "The health plan says only {allowed} counts under your benefits.",
		AllowedMissing: "The plan did not tell us how much of the bill they consider covered.",
		PatientPresent: "They paid {insurer}, took {adjustments} in plan discounts, and still ask you for {patient}. We know that is a lot to shoulder.",
		PatientKnown:   "Right now they ask you to pay {patient}.",
		PatientMissing: "We cannot tell what they expect from you because key numbers were missing.",
		FlagLine:       "Heads-up: {text}",
		MissingLine:    "These pieces are still missing: {labels}.",
	},
	{PersonaPatient, LevelGrade6}: {
		ChargePresent:  "For claim {doc_id}, the provider billed {billed}. We're here to help you make sense of that.",
		ChargeMissing:  "For claim {doc_id}, the bill amount never came through, which makes review harder.",
		AllowedPresent: "The plan only agrees to cover {allowed}; anything above that may feel unfair.",
		AllowedMissing: "The plan never shared the allowed amount, so we're missing a big clue.",
		PatientPresent: "They issued {insurer}, applied {adjustments} as plan discounts, and still land on {patient} for you. We can question that math.",
		PatientKnown:   "Their worksheet says you owe {patient}.",
		PatientMissing: "We couldn't confirm your share because the plan left gaps in the data.",
		FlagLine:       "Alert: {text}",
		MissingLine:    "We still need these details checked: {labels}.",
	},
	{PersonaPatient, LevelGrade8}: {
		ChargePresent:  "Claim {doc_id} shows the provider billed {billed}. Let's make sure that fits the care you received.",
		ChargeMissing:  "Claim {doc_id} lacks the billed amount, so the story starts incomplete.",
		AllowedPresent: "The plan recognizes only {allowed} under its rules, which can be confusing.",
		AllowedMissing: "The plan withheld the allowed amount, leaving us without a vital number.",
		PatientPresent: "They remitted {insurer}, booked {adjustments} as contractual write-offs, and still expect {patient} from you. We'll flag anything off.",
		PatientKnown:   "Their calculation still points to {patient} from you.",
		PatientMissing: "Your share stays uncertain because the plan never delivered full data.",
		FlagLine:       "Review alert: {text}",
		MissingLine:    "We need these missing pieces before we can trust the math: {labels}.",
	},
	{PersonaPatient, LevelPro}: {
		ChargePresent:  "Claim {doc_id} shows the rendering provider invoiced {billed}. We'll track every dollar alongside you.",
		ChargeMissing:  "Claim {doc_id} lacks the invoiced amount, restricting how far we can audit.",
		AllowedPresent: "Plan adjudication capped coverage at {allowed}; we can press for that rationale.",
		AllowedMissing: "Plan adjudication never documented the allowed amount, which raises compliance questions.",
		PatientPresent: "After the payer remitted {insurer} and booked {adjustments} in contract adjustments, they leave member liability at {patient}. We can contest any mismatch.",
		PatientKnown:   "Their worksheet still pins member liability at {patient}.",
		PatientMissing: "Member liability cannot be reconciled because adjudication inputs are incomplete.",
		FlagLine:       "Compliance alert: {text}",
		MissingLine:    "Escalate for these missing datapoints: {labels}.",
	},
	{PersonaPayer, LevelGrade4}: {
		ChargePresent:  "Claim {doc_id}: provider submitted {billed} per encounter file.",
		ChargeMissing:  "Claim {doc_id}: submitted charge absent from the record.",
		AllowedPresent: "Adjudication allowed {allowed} under the contract.",
		AllowedMissing: "Adjudication lacks the allowed amount, preventing full policy review.",
		PatientPresent: "Plan remit of {insurer} and contract adjustments of {adjustments} leave member liability at {patient}.",
		PatientKnown:   "Member liability remains {patient}.",
		PatientMissing: "Member liability unresolved because source data is incomplete.",
		FlagLine:       "Investigate: {text}",
		MissingLine:    "Close these gaps before sign-off: {labels}.",
	},
	{PersonaPayer, LevelGrade6}: {
		ChargePresent:  "Claim {doc_id}: provider billed {billed} per submission log.",
		ChargeMissing:  "Claim {doc_id}: billed amount missing in adjudication archive.",
		AllowedPresent: "Plan allowed {allowed} according to reimbursement schedule.",
		AllowedMissing: "Plan records omit the allowed figure; contract terms need confirmation.",
		PatientPresent: "With remit {insurer} and contractual adjustments of {adjustments}, member liability stands at {patient}.",
		PatientKnown:   "Member liability totals {patient} under current audit.",
		PatientMissing: "Member liability cannot be certified because ledger inputs are missing.",
		FlagLine:       "Review needed: {text}",
		MissingLine:    "Validate these data points: {labels}.",
	},
	{PersonaPayer, LevelGrade8}: {
		ChargePresent:  "Claim {doc_id}: provider submitted {billed} for adjudication.",
		ChargeMissing:  "Claim {doc_id}: submitted charge not recorded in adjudication system.",
		AllowedPresent: "Adjudication allowed {allowed} consistent with contract language.",
		AllowedMissing: "Adjudication notes omitted the allowed threshold, blocking compliance review.",
		PatientPresent: "After remit of {insurer} and negotiated adjustments of {adjustments}, member obligation is {patient} pending appeal.",
		PatientKnown:   "Member obligation stands at {patient} unless appeal succeeds.",
		PatientMissing: "Member obligation remains indeterminate due to missing ledger inputs.",
		FlagLine:       "Program integrity alert: {text}",
		MissingLine:    "Document these outstanding items: {labels}.",
	},
	{PersonaPayer, LevelPro}: {
		ChargePresent:  "Claim {doc_id}: provider invoiced {billed} per plan intake.",
		ChargeMissing:  "Claim {doc_id}: invoiced amount missing from intake package.",
		AllowedPresent: "Plan adjudication allowed {allowed} under governing agreement.",
		AllowedMissing: "Plan adjudication lacks the allowed amount, requiring contract reconciliation.",
		PatientPresent: "Following remit of {insurer} and contractual adjustments of {adjustments}, member liability is {patient} subject to policy review.",
		PatientKnown:   "Member liability remains {patient} per worksheet.",
		PatientMissing: "Member liability cannot be reconciled because adjudication inputs remain incomplete.",
		FlagLine:       "Program integrity alert: {text}",
		MissingLine:    "Escalate for manual reconciliation: {labels}.",
	},
	{PersonaProvider, LevelGrade4}: {
		ChargePresent:  "Claim {doc_id}: coding team billed {billed} for this visit.",
		ChargeMissing:  "Claim {doc_id}: billed amount missing; confirm charge entry.",
		AllowedPresent: "Payer allowed {allowed}; check contract schedule.",
		AllowedMissing: "Payer did not share the allowed amount for this line.",
		PatientPresent: "Plan remitted {insurer}, recorded {adjustments} as adjustments, and left patient balance {patient}. Confirm modifiers support the residual.",
		PatientKnown:   "Patient balance currently {patient}.",
		PatientMissing: "Patient balance undetermined because ledger inputs are missing.",
		FlagLine:       "Check point: {text}",
		MissingLine:    "Review missing inputs before closeout: {labels}.",
	},
	{PersonaProvider, LevelGrade6}: {
		ChargePresent:  "Claim {doc_id}: billing submitted {billed} with documented coding and modifiers.",
		ChargeMissing:  "Claim {doc_id}: billed amount absent; verify coding export.",
		AllowedPresent: "Payer allowed {allowed}; align with schedule A allowances.",
		AllowedMissing: "Payer feed omitted the allowed amount, so reconciliation is pending.",
		PatientPresent: "Remit posted {insurer} and adjustments of {adjustments}, leaving patient balance {patient}. Confirm modifier rationale.",
		PatientKnown:   "Patient balance remains {patient} pending QA.",
		PatientMissing: "Patient balance could not be confirmed due to missing ledger data.",
		FlagLine:       "Action item: {text}",
		MissingLine:    "Resolve these documentation gaps: {labels}.",
	},
	{PersonaProvider, LevelGrade8}: {
		ChargePresent:  "Claim {doc_id}: submitted charges total {billed}; coding and modifiers should mirror documentation.",
		ChargeMissing:  "Claim {doc_id}: submitted charge absent; validate encounter coding.",
		AllowedPresent: "Payer allowed {allowed}; cross-check against contract adjustment tables.",
		AllowedMissing: "Payer records omitted the allowed amount, delaying coding QA.",
		PatientPresent: "After payer payment of {insurer} and adjustments of {adjustments}, patient liability stands at {patient}. Ensure modifier usage supports this balance.",
		PatientKnown:   "Patient liability remains {patient} while audit completes.",
		PatientMissing: "Patient liability unresolved because supporting figures are missing.",
		FlagLine:       "Follow-up alert: {text}",
		MissingLine:    "Document missing figures for coding QA: {labels}.",
	},
	{PersonaProvider, LevelPro}: {
		ChargePresent:  "Claim {doc_id}: submitted charge logged as {billed}; confirm coding and modifiers align with operative note.",
		ChargeMissing:  "Claim {doc_id}: submitted charge not in feed; check coding export.",
		AllowedPresent: "Payer adjudication allowed {allowed}; validate against contract matrix and modifier logic.",
		AllowedMissing: "Payer adjudication omitted the allowed amount, blocking reconciliation.",
		PatientPresent: "Post-remit of {insurer} and adjustments of {adjustments}, patient liability posts at {patient}. Confirm modifiers justify the remaining balance.",
		PatientKnown:   "Patient liability currently shows {patient}; confirm modifier rationale.",
		PatientMissing: "Patient liability could not be reconciled because ledger inputs and coding references are incomplete.",
		FlagLine:       "Revenue alert: {text}",
		MissingLine:    "Collect missing data points for coding QA: {labels}.",
	},
}

// Non-English output uses one condensed set per language, applied across
// personas and levels.
var languageOverrides = map[Language]templateSet{
	LangSpanish: {
		ChargePresent:  "Reclamación {doc_id}: el proveedor facturó {billed}.",
		ChargeMissing:  "Reclamación {doc_id}: el monto facturado no figura.",
		AllowedPresent: "El plan permitió {allowed}.",
		AllowedMissing: "El plan no indicó el monto permitido.",
		PatientPresent: "Con el pago del plan de {insurer} y ajustes de {adjustments}, debes {patient}.",
		PatientKnown:   "Tu responsabilidad es {patient}.",
		PatientMissing: "No pudimos confirmar tu responsabilidad porque faltan datos.",
		FlagLine:       "Alerta: {text}",
		MissingLine:    "Revisa estos datos faltantes: {labels}.",
	},
	LangHindi: {
		ChargePresent:  "दावा {doc_id}: प्रदाता ने {billed} का बिल दिया।",
		ChargeMissing:  "दावा {doc_id}: बिल की गई राशि उपलब्ध नहीं है।",
		AllowedPresent: "योजना ने {allowed} की अनुमति दी।",
		AllowedMissing: "योजना ने अनुमत राशि साझा नहीं की।",
		PatientPresent: "योजना ने {insurer} का भुगतान किया और समायोजन {adjustments} थे, इसलिए आपका हिस्सा {patient} है।",
		PatientKnown:   "आपकी जिम्मेदारी {patient} है।",
		PatientMissing: "ज़रूरी डेटा न होने से आपकी जिम्मेदारी स्पष्ट नहीं है।",
		FlagLine:       "चेतावनी: {text}",
		MissingLine:    "इन छूटे हुए आँकड़ों की जाँच करें: {labels}.",
	},
}

var acronymMap = map[string]string{
	"EOB": "Explanation of Benefits (EOB)",
	"CPT": "Current Procedural Terminology (CPT)",
	"OOP": "out-of-pocket",
}

// expandAcronyms replaces the first bare occurrence of each known acronym
// with its expanded form, leaving already-expanded text alone.
func expandAcronyms(text string) string {
	updated := text
	for token, replacement := range acronymMap {
		if strings.Contains(updated, token) && !strings.Contains(updated, replacement) {
			updated = strings.Replace(updated, token, replacement, 1)
		}
	}
	return updated
}

var severityTranslations = map[Language]map[model.RiskSeverity]string{
	LangEnglish: {
		model.RiskSeverityHigh:   "High priority",
		model.RiskSeverityMedium: "Worth a look",
		model.RiskSeverityLow:    "Note",
	},
	LangSpanish: {
		model.RiskSeverityHigh:   "Prioridad alta",
		model.RiskSeverityMedium: "Vale la pena revisar",
		model.RiskSeverityLow:    "Nota",
	},
	LangHindi: {
		model.RiskSeverityHigh:   "उच्च प्राथमिकता",
		model.RiskSeverityMedium: "जाँच योग्य",
		model.RiskSeverityLow:    "टिप्पणी",
	},
}

func severityPhrase(severity model.RiskSeverity, lang Language) string {
	phrases, ok := severityTranslations[lang]
	if !ok {
		phrases = severityTranslations[LangEnglish]
	}
	if phrase, ok := phrases[severity]; ok {
		return phrase
	}
	return phrases[model.RiskSeverityLow]
}

type flagSuffix struct {
	Singular string
	Plural   string
}

var flagSuffixes = map[Language]flagSuffix{
	LangEnglish: {"Plus {n} more alert to review.", "Plus {n} more alerts to review."},
	LangSpanish: {"Además hay {n} alerta más por revisar.", "Además hay {n} alertas más por revisar."},
	LangHindi:   {"साथ ही {n} और चेतावनी देखें।", "साथ ही {n} और चेतावनियाँ देखें।"},
}

func extraAlertSuffix(lang Language, count int) string {
	suffix, ok := flagSuffixes[lang]
	if !ok {
		suffix = flagSuffixes[LangEnglish]
	}
	tmpl := suffix.Plural
	if count == 1 {
		tmpl = suffix.Singular
	}
	return render(tmpl, map[string]string{"n": fmt.Sprint(count)})
}

type labelJoiner struct {
	And  string
	More string
}

var labelJoiners = map[Language]labelJoiner{
	LangEnglish: {"and", "more"},
	LangSpanish: {"y", "más"},
	LangHindi:   {"और", "अन्य"},
}

// formatLabelList joins up to two labels and summarizes the remainder, in
// the output language.
func formatLabelList(labels []string, lang Language) string {
	joiner, ok := labelJoiners[lang]
	if !ok {
		joiner = labelJoiners[LangEnglish]
	}
	switch len(labels) {
	case 0:
		return ""
	case 1:
		return labels[0]
	case 2:
		return labels[0] + " " + joiner.And + " " + labels[1]
	default:
		return fmt.Sprintf("%s, %s %s %d %s", labels[0], labels[1], joiner.And, len(labels)-2, joiner.More)
	}
}
