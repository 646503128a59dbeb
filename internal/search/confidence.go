package search

// Confidence classifies how well the final evidence set supports an
// answer. It is derived from the distance distribution and never stored.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Distance thresholds for confidence classification. HIGH needs both a
// cluster of strong matches and a near-exact best hit; a single perfect
// match alone is at most MEDIUM.
const (
	strongDistance  = 0.35
	bestHighMax     = 0.20
	mediumDistance  = 0.60
	bestMediumMax   = 0.45
	strongCountHigh = 3
)

// Classify derives a confidence level from the evidence set. Empty
// evidence is always LOW.
func Classify(results []Result) Confidence {
	if len(results) == 0 {
		return ConfidenceLow
	}

	best := 1.0
	strong := 0
	medium := 0
	for _, r := range results {
		if r.Distance < best {
			best = r.Distance
		}
		if r.Distance < strongDistance {
			strong++
		}
		if r.Distance < mediumDistance {
			medium++
		}
	}

	if strong >= strongCountHigh && best < bestHighMax {
		return ConfidenceHigh
	}
	if medium >= 1 && best < bestMediumMax {
		return ConfidenceMedium
	}
	return ConfidenceLow
}

// Disclaimer returns the fixed caveat string for a confidence level.
func Disclaimer(c Confidence) string {
	switch c {
	case ConfidenceHigh:
		return "This answer is grounded in closely matching repository evidence."
	case ConfidenceMedium:
		return "This answer is based on partially matching evidence; verify details against the cited sources."
	default:
		return "Little relevant evidence was found for this question; treat this answer as a best guess."
	}
}
