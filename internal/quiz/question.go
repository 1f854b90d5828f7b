package quiz

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

type Question struct {
	ID       int      `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// Answers maps question id to the selected option. Absent means unanswered.
type Answers map[int]string

func (a Answers) clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// ValidateQuestions checks that ids are unique, every question has options,
// and each answer is one of its options.
func ValidateQuestions(qs []Question) error {
	if len(qs) == 0 {
		return fmt.Errorf("%w: no questions", ErrInvalidQuestionSet)
	}
	seen := make(map[int]bool, len(qs))
	for i, q := range qs {
		if seen[q.ID] {
			return fmt.Errorf("%w: duplicate id %d", ErrInvalidQuestionSet, q.ID)
		}
		seen[q.ID] = true
		if len(q.Options) == 0 {
			return fmt.Errorf("%w: question %d (#%d) has no options", ErrInvalidQuestionSet, q.ID, i)
		}
		found := false
		for _, o := range q.Options {
			if o == q.Answer {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: question %d answer %q is not an option", ErrInvalidQuestionSet, q.ID, q.Answer)
		}
	}
	return nil
}

// LoadQuestions decodes and validates a JSON array of questions.
func LoadQuestions(r io.Reader) ([]Question, error) {
	var qs []Question
	if err := json.NewDecoder(r).Decode(&qs); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidQuestionSet, err)
	}
	if err := ValidateQuestions(qs); err != nil {
		return nil, err
	}
	return qs, nil
}

// LoadQuestionsFile reads path, or the built-in set when path is empty.
func LoadQuestionsFile(path string) ([]Question, error) {
	if path == "" {
		return DefaultQuestions()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadQuestions(f)
}

//go:embed questions.json
var defaultQuestionsJSON []byte

func DefaultQuestions() ([]Question, error) {
	return LoadQuestions(bytes.NewReader(defaultQuestionsJSON))
}
