package quiz

import "fmt"

type State string

const (
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
)

// Machine is one attempt over a fixed question set.
//
// It starts InProgress at index 0 with no answers. Submit moves it to
// Completed, which freezes the answers; only Reset leaves Completed.
// A Machine is not safe for concurrent use.
type Machine struct {
	questions []Question
	byID      map[int]int // question id -> position

	index     int
	answers   Answers
	completed bool
}

func New(questions []Question) (*Machine, error) {
	if err := ValidateQuestions(questions); err != nil {
		return nil, err
	}
	qs := make([]Question, len(questions))
	copy(qs, questions)
	byID := make(map[int]int, len(qs))
	for i, q := range qs {
		byID[q.ID] = i
	}
	return &Machine{questions: qs, byID: byID, answers: Answers{}}, nil
}

func (m *Machine) State() State {
	if m.completed {
		return StateCompleted
	}
	return StateInProgress
}

func (m *Machine) Completed() bool { return m.completed }
func (m *Machine) Index() int      { return m.index }
func (m *Machine) Total() int      { return len(m.questions) }

func (m *Machine) Current() Question { return m.questions[m.index] }

func (m *Machine) Questions() []Question {
	out := make([]Question, len(m.questions))
	copy(out, m.questions)
	return out
}

// Answers returns a copy of the recorded answers.
func (m *Machine) Answers() Answers { return m.answers.clone() }

func (m *Machine) Answer(questionID int) (string, bool) {
	a, ok := m.answers[questionID]
	return a, ok
}

// Score is only meaningful once the machine is Completed.
func (m *Machine) Score() (int, bool) {
	if !m.completed {
		return 0, false
	}
	return Score(m.questions, m.answers), true
}

func (m *Machine) SelectAnswer(questionID int, answer string) error {
	if m.completed {
		return fmt.Errorf("%w: select answer after submit", ErrInvalidTransition)
	}
	if _, ok := m.byID[questionID]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownQuestion, questionID)
	}
	m.answers[questionID] = answer
	return nil
}

// Advance moves to the next question. On the last question it does nothing;
// completing the quiz always takes an explicit Submit.
func (m *Machine) Advance() error {
	if m.completed {
		return fmt.Errorf("%w: advance after submit", ErrInvalidTransition)
	}
	if m.index < len(m.questions)-1 {
		m.index++
	}
	return nil
}

func (m *Machine) Retreat() error {
	if m.completed {
		return fmt.Errorf("%w: retreat after submit", ErrInvalidTransition)
	}
	if m.index > 0 {
		m.index--
	}
	return nil
}

func (m *Machine) Submit() (int, error) {
	if m.completed {
		return 0, fmt.Errorf("%w: already submitted", ErrInvalidTransition)
	}
	m.completed = true
	return Score(m.questions, m.answers), nil
}

func (m *Machine) Reset() {
	m.index = 0
	m.answers = Answers{}
	m.completed = false
}

// Score counts questions whose recorded answer equals the correct one exactly.
func Score(questions []Question, answers Answers) int {
	n := 0
	for _, q := range questions {
		if a, ok := answers[q.ID]; ok && a == q.Answer {
			n++
		}
	}
	return n
}
