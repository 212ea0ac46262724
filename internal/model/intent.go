package model

// Intent is the classified purpose of a single user message, drawn from a
// fixed label set. Unknown output from the classifier is coerced to
// IntentGeneral rather than rejected.
type Intent string

const (
	IntentSymptomChecker   Intent = "symptom_checker"
	IntentDocumentQuery    Intent = "document_query"
	IntentHealthAdvisory   Intent = "health_advisory"
	IntentAyushSupport     Intent = "ayush_support"
	IntentYogaSupport      Intent = "yoga_support"
	IntentMentalWellness   Intent = "mental_wellness_support"
	IntentGovernmentScheme Intent = "government_scheme_support"
	IntentGeneral          Intent = "general_conversation"
)

// KnownIntents lists every label the classifier may return.
var KnownIntents = []Intent{
	IntentSymptomChecker,
	IntentDocumentQuery,
	IntentHealthAdvisory,
	IntentAyushSupport,
	IntentYogaSupport,
	IntentMentalWellness,
	IntentGovernmentScheme,
	IntentGeneral,
}

// Valid reports whether i is one of the fixed labels.
func (i Intent) Valid() bool {
	for _, k := range KnownIntents {
		if i == k {
			return true
		}
	}
	return false
}
