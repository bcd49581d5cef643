package domain

import "fmt"

// Option is one answer choice; its Field is the domain the choice counts toward.
type Option struct {
	Text  string `json:"text" yaml:"text"`
	Field Field  `json:"field" yaml:"field"`
}

// Question is a multiple-choice prompt. Its ID is its position in the bank.
type Question struct {
	Text    string   `json:"text" yaml:"text"`
	Options []Option `json:"options" yaml:"options"`
}

// FindOption returns the first option whose text equals text.
func (q Question) FindOption(text string) (Option, bool) {
	for _, opt := range q.Options {
		if opt.Text == text {
			return opt, true
		}
	}
	return Option{}, false
}

// Bank is the immutable, ordered question list.
type Bank struct {
	ID        string     `json:"-" yaml:"-"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// Len returns the number of questions.
func (b Bank) Len() int {
	return len(b.Questions)
}

// Question returns the question with the given ID.
func (b Bank) Question(id int) (Question, bool) {
	if id < 0 || id >= len(b.Questions) {
		return Question{}, false
	}
	return b.Questions[id], true
}

// Validate checks the structural rules every loaded bank must satisfy.
func (b Bank) Validate() error {
	if len(b.Questions) == 0 {
		return ErrEmptyBank
	}
	for i, q := range b.Questions {
		if len(q.Options) == 0 {
			return fmt.Errorf("question %d has no options", i)
		}
		for j, opt := range q.Options {
			if opt.Text == "" {
				return fmt.Errorf("question %d option %d has no text", i, j)
			}
			if !opt.Field.Valid() {
				return fmt.Errorf("question %d option %d: %w", i, j, ErrUnknownField)
			}
		}
	}
	return nil
}

// FieldSlots counts how many option slots point at each domain.
func (b Bank) FieldSlots() [FieldCount]int {
	var slots [FieldCount]int
	for _, q := range b.Questions {
		for _, opt := range q.Options {
			if opt.Field.Valid() {
				slots[opt.Field]++
			}
		}
	}
	return slots
}

// NumberedQuestion pairs a question with its ID.
type NumberedQuestion struct {
	ID int `json:"id"`
	Question
}

// QuestionPage is one page of the bank as shown to a test taker.
type QuestionPage struct {
	Page       int                `json:"page"`
	TotalPages int                `json:"totalPages"`
	Questions  []NumberedQuestion `json:"questions"`
}

// Snapshot is the portable save-file form of a session's progress.
type Snapshot struct {
	Answers map[string]string `json:"answers"`
	Skipped []int             `json:"skipped"`
	Page    int               `json:"page"`
}

// PageStats summarizes one page of questions.
type PageStats struct {
	Page     int `json:"page"`
	Start    int `json:"start"`
	End      int `json:"end"`
	Answered int `json:"answered"`
	Skipped  int `json:"skipped"`
	Size     int `json:"size"`
}

// Ratio is the fraction of the page that is answered or skipped.
func (s PageStats) Ratio() float64 {
	if s.Size == 0 {
		return 0
	}
	return float64(s.Answered+s.Skipped) / float64(s.Size)
}

// SessionView is what a client needs to render the current state of a session.
type SessionView struct {
	SessionID  string         `json:"sessionId"`
	Page       int            `json:"page"`
	TotalPages int            `json:"totalPages"`
	PageStats  PageStats      `json:"pageStats"`
	PageRatio  float64        `json:"pageRatio"`
	Total      int            `json:"total"`
	Answered   int            `json:"answered"`
	Skipped    int            `json:"skipped"`
	Remaining  int            `json:"remaining"`
	Progress   float64        `json:"progress"`
	Completed  bool           `json:"completed"`
	Answers    map[int]string `json:"answers"`
	SkippedIDs []int          `json:"skippedIds"`
}

// DomainScore is one row of the report table.
type DomainScore struct {
	Field         Field   `json:"field"`
	Label         string  `json:"label"`
	AbsoluteScore int     `json:"absoluteScore"`
	AnsweredCount int     `json:"answeredCount"`
	Percentage    float64 `json:"percentage"`
}

// ScoreReport is derived from a completed session; it is never stored.
type ScoreReport struct {
	Domains     [FieldCount]DomainScore `json:"domains"`
	Strongest   []Field                 `json:"strongest"`
	Suggestions []string                `json:"suggestions"`
	Unresolved  int                     `json:"unresolved"`
}

// Domain returns the row for f.
func (r ScoreReport) Domain(f Field) DomainScore {
	return r.Domains[f]
}

// ResultExport is the downloadable result document.
type ResultExport struct {
	Scores      map[string]int     `json:"得分"`
	Percentages map[string]float64 `json:"得分率"`
	Strongest   []string           `json:"最强领域"`
}
