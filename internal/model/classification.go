package model

type Classification struct {
	Sentiment       Sentiment     `json:"sentiment"`
	Priority        Priority      `json:"priority"`
	Category        string        `json:"category"`
	UrgencyKeywords []string      `json:"urgencyKeywords"`
	ExtractedInfo   ExtractedInfo `json:"extractedInfo"`
}

// DefaultClassification is used whenever the model cannot be reached or its
// output cannot be parsed.
func DefaultClassification() Classification {
	return Classification{
		Sentiment:       SentimentNeutral,
		Priority:        PriorityNormal,
		Category:        "general",
		UrgencyKeywords: []string{},
		ExtractedInfo:   ExtractedInfo{},
	}
}

// ClassificationOutcome tells a real classification apart from the fallback.
type ClassificationOutcome struct {
	Classification Classification
	Degraded       bool
	Reason         string
}

func Succeeded(c Classification) ClassificationOutcome {
	return ClassificationOutcome{Classification: c}
}

func Degraded(reason string) ClassificationOutcome {
	return ClassificationOutcome{
		Classification: DefaultClassification(),
		Degraded:       true,
		Reason:         reason,
	}
}
