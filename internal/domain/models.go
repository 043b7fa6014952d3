package domain

import "time"

// Option represents a selectable answer for a question. Scores is a sparse
// map of category ID to points: categories the option does not award are
// simply absent and count as zero.
type Option struct {
	ID     string         `json:"id"`
	Text   string         `json:"text"`
	Scores map[string]int `json:"scores"`
}

// Question models a weighted personality question.
type Question struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Weight   int      `json:"weight"` // defaults to 1 if zero
	Position int      `json:"position"`
	Options  []Option `json:"options"`
}

// Option returns the option with the given ID, if it exists on the question.
func (q Question) Option(optionID string) (Option, bool) {
	for i := range q.Options {
		if q.Options[i].ID == optionID {
			return q.Options[i], true
		}
	}
	return Option{}, false
}

// EffectiveWeight returns the question weight, applying the default of 1.
func (q Question) EffectiveWeight() int {
	if q.Weight == 0 {
		return 1
	}
	return q.Weight
}

// Category holds the presentation metadata joined onto a verdict at fetch time.
type Category struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Traits      []string `json:"traits,omitempty"`
}

// Catalog is the full read-only question set plus category metadata.
type Catalog struct {
	Questions  []Question          `json:"questions"`
	Categories map[string]Category `json:"categories"`
}

// Question returns the catalog question with the given ID.
func (c Catalog) Question(questionID string) (Question, bool) {
	for i := range c.Questions {
		if c.Questions[i].ID == questionID {
			return c.Questions[i], true
		}
	}
	return Question{}, false
}

// Answer is a single (question, option) pair from a submission.
type Answer struct {
	QuestionID string `json:"questionId"`
	OptionID   string `json:"optionId"`
}

// ScoreBreakdown accumulates integer scores per category. Only categories
// that received at least one point appear.
type ScoreBreakdown map[string]int

// Result is the immutable verdict record created exactly once per user.
type Result struct {
	Token           string         `json:"token"`
	OwnerID         string         `json:"ownerId"`
	WinningCategory string         `json:"winningCategory"`
	Breakdown       ScoreBreakdown `json:"breakdown"`
	Answers         []Answer       `json:"answers"`
	CreatedAt       time.Time      `json:"createdAt"`
}

// Verdict is a result enriched with the winning category's metadata.
type Verdict struct {
	Result
	Category Category `json:"category"`
}
