package grading

import (
	"math"

	"github.com/mind-engage/eduquiz/internal/quiz"
)

// Outcome is the review line for one question.
type Outcome struct {
	QuestionID int    `json:"question_id"`
	Question   string `json:"question"`
	Selected   string `json:"selected,omitempty"`
	Answered   bool   `json:"answered"`
	Correct    string `json:"correct"`
	IsCorrect  bool   `json:"is_correct"`
}

// Report is the graded view of a finished attempt.
type Report struct {
	Score      int       `json:"score"`
	Total      int       `json:"total"`
	Percentage float64   `json:"percentage"`
	Feedback   Feedback  `json:"feedback"`
	Review     []Outcome `json:"review"`
}

// Grade builds a report. Score always agrees with quiz.Score.
func Grade(questions []quiz.Question, answers quiz.Answers) Report {
	rep := Report{
		Total:  len(questions),
		Review: make([]Outcome, 0, len(questions)),
	}
	for _, q := range questions {
		sel, ok := answers[q.ID]
		o := Outcome{
			QuestionID: q.ID,
			Question:   q.Question,
			Selected:   sel,
			Answered:   ok,
			Correct:    q.Answer,
			IsCorrect:  ok && sel == q.Answer,
		}
		if o.IsCorrect {
			rep.Score++
		}
		rep.Review = append(rep.Review, o)
	}
	rep.Percentage = Percentage(rep.Score, rep.Total)
	rep.Feedback = FeedbackFor(rep.Percentage)
	return rep
}

// Percentage is score/total*100 rounded to two decimals; 0 for an empty set.
func Percentage(score, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(score)/float64(total)*10000) / 100
}
