package app

import (
	"sort"

	"interest-quiz-service/internal/domain"
)

// Progress is the mutable state of one test-taking session.
// Answers and skipped question IDs are always disjoint.
type Progress struct {
	bank      domain.Bank
	pageSize  int
	answers   map[int]string
	skipped   map[int]struct{}
	page      int
	completed bool
}

// NewProgress returns an empty progress on page 0.
func NewProgress(bank domain.Bank, pageSize int) *Progress {
	mustPageSize(pageSize)
	return &Progress{
		bank:     bank,
		pageSize: pageSize,
		answers:  make(map[int]string),
		skipped:  make(map[int]struct{}),
	}
}

// RecordAnswer stores optionText as the answer for questionID, replacing any earlier answer.
func (p *Progress) RecordAnswer(questionID int, optionText string) error {
	if p.completed {
		return domain.ErrSessionCompleted
	}
	q, ok := p.bank.Question(questionID)
	if !ok {
		return domain.ErrInvalidQuestionID
	}
	if _, skipped := p.skipped[questionID]; skipped {
		return domain.ErrQuestionSkipped
	}
	if _, ok := q.FindOption(optionText); !ok {
		return domain.ErrInvalidOption
	}
	p.answers[questionID] = optionText
	return nil
}

// Skip marks questionID as skipped and drops its answer.
func (p *Progress) Skip(questionID int) error {
	if p.completed {
		return domain.ErrSessionCompleted
	}
	if _, ok := p.bank.Question(questionID); !ok {
		return domain.ErrInvalidQuestionID
	}
	delete(p.answers, questionID)
	p.skipped[questionID] = struct{}{}
	return nil
}

// Unskip reopens questionID. The answer dropped by Skip is not restored.
func (p *Progress) Unskip(questionID int) error {
	if p.completed {
		return domain.ErrSessionCompleted
	}
	if _, ok := p.bank.Question(questionID); !ok {
		return domain.ErrInvalidQuestionID
	}
	delete(p.skipped, questionID)
	return nil
}

// SetPage moves to page.
func (p *Progress) SetPage(page int) error {
	if page < 0 || page >= p.TotalPages() {
		return domain.ErrInvalidPage
	}
	p.page = page
	return nil
}

// Answer returns the recorded answer text for questionID.
func (p *Progress) Answer(questionID int) (string, bool) {
	text, ok := p.answers[questionID]
	return text, ok
}

// IsSkipped reports whether questionID is skipped.
func (p *Progress) IsSkipped(questionID int) bool {
	_, ok := p.skipped[questionID]
	return ok
}

// Total returns the number of questions in the bank.
func (p *Progress) Total() int {
	return p.bank.Len()
}

func (p *Progress) AnsweredCount() int {
	return len(p.answers)
}

func (p *Progress) SkippedCount() int {
	return len(p.skipped)
}

// Page returns the current page index.
func (p *Progress) Page() int {
	return p.page
}

func (p *Progress) PageSize() int {
	return p.pageSize
}

// Completed reports whether the session is in report mode.
func (p *Progress) Completed() bool {
	return p.completed
}

// TotalPages returns the number of pages for the bank.
func (p *Progress) TotalPages() int {
	return TotalPages(p.bank.Len(), p.pageSize)
}

// Remaining counts questions that are neither answered nor skipped.
func (p *Progress) Remaining() int {
	return p.bank.Len() - len(p.answers) - len(p.skipped)
}

// IsComplete reports whether every question is answered or skipped.
func (p *Progress) IsComplete() bool {
	return len(p.answers)+len(p.skipped) == p.bank.Len()
}

// PageStats scans the question IDs of page.
func (p *Progress) PageStats(page int) (domain.PageStats, error) {
	if page < 0 || page >= p.TotalPages() {
		return domain.PageStats{}, domain.ErrInvalidPage
	}
	start, end := PageRange(page, p.pageSize, p.bank.Len())
	stats := domain.PageStats{Page: page, Start: start, End: end, Size: end - start}
	for id := start; id < end; id++ {
		if _, ok := p.answers[id]; ok {
			stats.Answered++
		}
		if _, ok := p.skipped[id]; ok {
			stats.Skipped++
		}
	}
	return stats, nil
}

// Complete switches to report mode. It fails with *domain.IncompleteError
// while questions are still open.
func (p *Progress) Complete() error {
	if !p.IsComplete() {
		return &domain.IncompleteError{Remaining: p.Remaining()}
	}
	p.completed = true
	return nil
}

// Reopen leaves report mode so answers can be edited again.
func (p *Progress) Reopen() {
	p.completed = false
}

// Reset clears all answers and skips and returns to page 0.
func (p *Progress) Reset() {
	p.answers = make(map[int]string)
	p.skipped = make(map[int]struct{})
	p.page = 0
	p.completed = false
}

// View builds the client-facing summary of the progress.
func (p *Progress) View(sessionID string) domain.SessionView {
	stats, _ := p.PageStats(p.page)
	total := p.bank.Len()
	view := domain.SessionView{
		SessionID:  sessionID,
		Page:       p.page,
		TotalPages: p.TotalPages(),
		PageStats:  stats,
		PageRatio:  stats.Ratio(),
		Total:      total,
		Answered:   len(p.answers),
		Skipped:    len(p.skipped),
		Remaining:  p.Remaining(),
		Completed:  p.completed,
		Answers:    make(map[int]string, len(p.answers)),
		SkippedIDs: p.skippedIDs(),
	}
	if total > 0 {
		view.Progress = float64(view.Answered+view.Skipped) / float64(total)
	}
	for id, text := range p.answers {
		view.Answers[id] = text
	}
	return view
}

func (p *Progress) skippedIDs() []int {
	ids := make([]int, 0, len(p.skipped))
	for id := range p.skipped {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
