package session

import (
	"github.com/mind-engage/eduquiz/internal/grading"
	"github.com/mind-engage/eduquiz/internal/quiz"
)

// View is what a screen needs to render the current step.
type View struct {
	Index          int           `json:"index"`
	Total          int           `json:"total"`
	Question       quiz.Question `json:"question"`
	Progress       float64       `json:"progress"`
	HasAnswer      bool          `json:"has_answer"`
	SelectedAnswer string        `json:"selected_answer,omitempty"`
	IsFirst        bool          `json:"is_first"`
	IsLast         bool          `json:"is_last"`
	Completed      bool          `json:"completed"`
}

// Result is handed downstream once the quiz is submitted.
type Result struct {
	Score      int              `json:"score"`
	Total      int              `json:"total"`
	Percentage float64          `json:"percentage"`
	Feedback   grading.Feedback `json:"feedback"`
}

// Controller drives one quiz attempt. Callers must serialise calls.
type Controller struct {
	machine *quiz.Machine
	result  *Result
}

func NewController(questions []quiz.Question) (*Controller, error) {
	m, err := quiz.New(questions)
	if err != nil {
		return nil, err
	}
	return &Controller{machine: m}, nil
}

func fromMachine(m *quiz.Machine) *Controller {
	c := &Controller{machine: m}
	if m.Completed() {
		c.result = c.buildResult()
	}
	return c
}

func (c *Controller) View() View {
	q := c.machine.Current()
	sel, has := c.machine.Answer(q.ID)
	idx, total := c.machine.Index(), c.machine.Total()
	return View{
		Index:          idx,
		Total:          total,
		Question:       q,
		Progress:       float64(idx+1) / float64(total),
		HasAnswer:      has,
		SelectedAnswer: sel,
		IsFirst:        idx == 0,
		IsLast:         idx == total-1,
		Completed:      c.machine.Completed(),
	}
}

func (c *Controller) SelectAnswer(questionID int, answer string) error {
	return c.machine.SelectAnswer(questionID, answer)
}

// SelectCurrent answers the question on screen.
func (c *Controller) SelectCurrent(answer string) error {
	return c.machine.SelectAnswer(c.machine.Current().ID, answer)
}

func (c *Controller) Advance() error { return c.machine.Advance() }
func (c *Controller) Retreat() error { return c.machine.Retreat() }

// Submit completes the quiz. Once completed it keeps returning the first result.
func (c *Controller) Submit() (Result, error) {
	if c.result != nil {
		return *c.result, nil
	}
	if _, err := c.machine.Submit(); err != nil {
		return Result{}, err
	}
	c.result = c.buildResult()
	return *c.result, nil
}

// Result reports the cached result, if the quiz is completed.
func (c *Controller) Result() (Result, bool) {
	if c.result == nil {
		return Result{}, false
	}
	return *c.result, true
}

func (c *Controller) Reset() {
	c.machine.Reset()
	c.result = nil
}

// Review grades every question; only available after completion.
func (c *Controller) Review() (grading.Report, bool) {
	if !c.machine.Completed() {
		return grading.Report{}, false
	}
	return grading.Grade(c.machine.Questions(), c.machine.Answers()), true
}

func (c *Controller) Snapshot() quiz.Snapshot { return c.machine.Snapshot() }

func (c *Controller) buildResult() *Result {
	score, _ := c.machine.Score()
	total := c.machine.Total()
	pct := grading.Percentage(score, total)
	return &Result{
		Score:      score,
		Total:      total,
		Percentage: pct,
		Feedback:   grading.FeedbackFor(pct),
	}
}
