package grading

type Band string

const (
	BandPerfect    Band = "perfect"
	BandExcellent  Band = "excellent"
	BandGood       Band = "good"
	BandKeepTrying Band = "keep_trying"
	BandLearning   Band = "keep_learning"
)

type Feedback struct {
	Band    Band   `json:"band"`
	Message string `json:"message"`
	Passed  bool   `json:"passed"`
}

// FeedbackFor maps a percentage to the message shown on the result screen.
// 60% and above counts as a pass.
func FeedbackFor(pct float64) Feedback {
	switch {
	case pct >= 100:
		return Feedback{Band: BandPerfect, Message: "Perfect Score!", Passed: true}
	case pct >= 80:
		return Feedback{Band: BandExcellent, Message: "Excellent!", Passed: true}
	case pct >= 60:
		return Feedback{Band: BandGood, Message: "Good Job!", Passed: true}
	case pct >= 40:
		return Feedback{Band: BandKeepTrying, Message: "Keep Trying!"}
	default:
		return Feedback{Band: BandLearning, Message: "Keep Learning!"}
	}
}
