package quiz

import "fmt"

// Snapshot is the plain record a Machine persists as.
type Snapshot struct {
	Index     int     `json:"index"`
	Answers   Answers `json:"answers"`
	Completed bool    `json:"completed"`
	Score     int     `json:"score"`
}

func (m *Machine) Snapshot() Snapshot {
	s := Snapshot{
		Index:     m.index,
		Answers:   m.answers.clone(),
		Completed: m.completed,
	}
	if m.completed {
		s.Score = Score(m.questions, m.answers)
	}
	return s
}

// Restore rebuilds a Machine from a snapshot taken over the same question set.
// The stored score is ignored and recomputed from the answers.
func Restore(questions []Question, s Snapshot) (*Machine, error) {
	m, err := New(questions)
	if err != nil {
		return nil, err
	}
	if s.Index < 0 || s.Index >= len(m.questions) {
		return nil, fmt.Errorf("%w: snapshot index %d out of range", ErrInvalidTransition, s.Index)
	}
	for id := range s.Answers {
		if _, ok := m.byID[id]; !ok {
			return nil, fmt.Errorf("%w: %d in snapshot", ErrUnknownQuestion, id)
		}
	}
	m.index = s.Index
	if s.Answers != nil {
		m.answers = s.Answers.clone()
	}
	m.completed = s.Completed
	return m, nil
}
