package riasec

import (
	"career-matching-workers/internal/common/errors"
)

type State string

const (
	StateNotStarted State = "not_started"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
)

// Session tracks one student's progress through a questionnaire. It is plain
// data so stores can serialise it; the questionnaire is passed to each call.
type Session struct {
	ID                string         `json:"id"`
	InstrumentVersion string         `json:"instrumentVersion"`
	State             State          `json:"state"`
	Answers           map[string]int `json:"answers"`
	Profile           *Profile       `json:"profile,omitempty"`
}

func NewSession(id string, q *Questionnaire) *Session {
	return &Session{
		ID:                id,
		InstrumentVersion: q.Version(),
		State:             StateNotStarted,
		Answers:           make(map[string]int),
	}
}

// Submit records one answer. Re-answering an item overwrites it. The session
// completes on its own once every item has an answer.
func (s *Session) Submit(q *Questionnaire, r Response) error {
	return s.SubmitBatch(q, []Response{r})
}

// SubmitBatch validates the whole batch before recording any of it.
func (s *Session) SubmitBatch(q *Questionnaire, responses []Response) error {
	if s.State == StateCompleted {
		return errors.NewSessionClosedError(s.ID)
	}
	if err := ValidateResponses(q, responses); err != nil {
		return err
	}

	if s.Answers == nil {
		s.Answers = make(map[string]int, q.Len())
	}
	for _, r := range responses {
		s.Answers[r.QuestionID] = r.Value
	}
	s.State = StateInProgress

	if len(s.Answers) == q.Len() {
		p := fromAnswers(q, s.Answers)
		s.Profile = &p
		s.State = StateCompleted
	}
	return nil
}

// Finish forces completion, producing a partial profile when items remain
// unanswered. Finishing a completed session returns its profile.
func (s *Session) Finish(q *Questionnaire) (Profile, error) {
	if s.State == StateCompleted && s.Profile != nil {
		return *s.Profile, nil
	}
	if len(s.Answers) == 0 {
		return Profile{}, errors.NewValidationError("assessment has no answers to score",
			map[string]interface{}{"sessionId": s.ID})
	}

	p := fromAnswers(q, s.Answers)
	s.Profile = &p
	s.State = StateCompleted
	return p, nil
}

// Progress reports answered and total item counts.
func (s *Session) Progress(q *Questionnaire) (answered, total int) {
	return len(s.Answers), q.Len()
}
