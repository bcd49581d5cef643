package app

import (
	"context"
	"sync"

	"interest-quiz-service/internal/domain"
)

// SessionRepository abstracts how quiz sessions are registered (in-memory, Redis, etc).
// GetOrCreate attaches a holder to the session and Release detaches one; the
// session is dropped once no holder is left.
type SessionRepository interface {
	GetOrCreate(sessionID string, init func() *Progress) *Session
	Get(sessionID string) (*Session, bool)
	Release(sessionID string) bool
}

// BankRepository loads question banks (from cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context, bankID string) (domain.Bank, error)
}

// QuizService contains the interest test use cases. Every session answers the
// same configured bank.
type QuizService struct {
	sessions SessionRepository
	banks    BankRepository
	bankID   string
	pageSize int
}

func NewQuizService(store SessionRepository, banks BankRepository, bankID string, pageSize int) *QuizService {
	mustPageSize(pageSize)
	return &QuizService{sessions: store, banks: banks, bankID: bankID, pageSize: pageSize}
}

// Start returns the session with the given ID, creating an empty one if needed.
func (s *QuizService) Start(ctx context.Context, sessionID string) (domain.SessionView, error) {
	// Users cannot start a session against a bank that does not load.
	bank, err := s.banks.GetBank(ctx, s.bankID)
	if err != nil {
		return domain.SessionView{}, err
	}
	session := s.sessions.GetOrCreate(sessionID, func() *Progress {
		return NewProgress(bank, s.pageSize)
	})
	return session.view(), nil
}

// Answer records the chosen option text for a question.
func (s *QuizService) Answer(_ context.Context, sessionID string, questionID int, optionText string) (domain.SessionView, error) {
	return s.apply(sessionID, func(p *Progress) error {
		return p.RecordAnswer(questionID, optionText)
	})
}

// Skip marks a question as skipped, discarding its answer.
func (s *QuizService) Skip(_ context.Context, sessionID string, questionID int) (domain.SessionView, error) {
	return s.apply(sessionID, func(p *Progress) error {
		return p.Skip(questionID)
	})
}

// Unskip makes a skipped question answerable again.
func (s *QuizService) Unskip(_ context.Context, sessionID string, questionID int) (domain.SessionView, error) {
	return s.apply(sessionID, func(p *Progress) error {
		return p.Unskip(questionID)
	})
}

// GoToPage changes the current page.
func (s *QuizService) GoToPage(_ context.Context, sessionID string, page int) (domain.SessionView, error) {
	return s.apply(sessionID, func(p *Progress) error {
		return p.SetPage(page)
	})
}

// Submit finishes the test and returns the report. Open questions reject the
// submission with *domain.IncompleteError and leave the session untouched.
func (s *QuizService) Submit(_ context.Context, sessionID string) (domain.ScoreReport, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.ScoreReport{}, domain.ErrSessionNotFound
	}
	return session.submit()
}

// Report returns the report of a completed session.
func (s *QuizService) Report(_ context.Context, sessionID string) (domain.ScoreReport, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.ScoreReport{}, domain.ErrSessionNotFound
	}
	return session.report()
}

// Result returns the downloadable result document of a completed session.
func (s *QuizService) Result(ctx context.Context, sessionID string) (domain.ResultExport, error) {
	report, err := s.Report(ctx, sessionID)
	if err != nil {
		return domain.ResultExport{}, err
	}
	return Export(report), nil
}

// Edit leaves report mode and returns to answering.
func (s *QuizService) Edit(_ context.Context, sessionID string) (domain.SessionView, error) {
	return s.apply(sessionID, func(p *Progress) error {
		p.Reopen()
		return nil
	})
}

// Retake discards all progress.
func (s *QuizService) Retake(_ context.Context, sessionID string) (domain.SessionView, error) {
	return s.apply(sessionID, func(p *Progress) error {
		p.Reset()
		return nil
	})
}

// Save returns the session's progress as a snapshot.
func (s *QuizService) Save(_ context.Context, sessionID string) (domain.Snapshot, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Snapshot{}, domain.ErrSessionNotFound
	}
	return session.snapshot(), nil
}

// Load replaces the session's progress with the decoded save file. A malformed
// file leaves the session unchanged.
func (s *QuizService) Load(_ context.Context, sessionID string, raw []byte) (domain.SessionView, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionView{}, domain.ErrSessionNotFound
	}
	snap, err := DecodeSnapshot(raw)
	if err != nil {
		return domain.SessionView{}, err
	}
	return session.restore(snap)
}

// Close detaches one caller from the session. The last Close drops it, so
// progress that should survive must be saved first.
func (s *QuizService) Close(_ context.Context, sessionID string) {
	s.sessions.Release(sessionID)
}

// Questions returns the questions shown on page.
func (s *QuizService) Questions(ctx context.Context, page int) (domain.QuestionPage, error) {
	bank, err := s.banks.GetBank(ctx, s.bankID)
	if err != nil {
		return domain.QuestionPage{}, err
	}
	totalPages := TotalPages(bank.Len(), s.pageSize)
	if page < 0 || page >= totalPages {
		return domain.QuestionPage{}, domain.ErrInvalidPage
	}
	start, end := PageRange(page, s.pageSize, bank.Len())
	out := domain.QuestionPage{Page: page, TotalPages: totalPages, Questions: make([]domain.NumberedQuestion, 0, end-start)}
	for id := start; id < end; id++ {
		out.Questions = append(out.Questions, domain.NumberedQuestion{ID: id, Question: bank.Questions[id]})
	}
	return out, nil
}

// ScoreSnapshot scores a save file without a session. Unlike Submit it does not
// require every question to be answered or skipped.
func (s *QuizService) ScoreSnapshot(ctx context.Context, raw []byte) (domain.ScoreReport, error) {
	bank, err := s.banks.GetBank(ctx, s.bankID)
	if err != nil {
		return domain.ScoreReport{}, err
	}
	snap, err := DecodeSnapshot(raw)
	if err != nil {
		return domain.ScoreReport{}, err
	}
	p, err := Restore(snap, bank, s.pageSize)
	if err != nil {
		return domain.ScoreReport{}, err
	}
	return p.Score(), nil
}

func (s *QuizService) apply(sessionID string, fn func(p *Progress) error) (domain.SessionView, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionView{}, domain.ErrSessionNotFound
	}
	return session.apply(fn)
}

// Session owns the progress of one test taker.
type Session struct {
	id       string
	mu       sync.Mutex
	progress *Progress
}

// NewSession is exported for infrastructure layers that need to seed sessions.
func NewSession(id string, progress *Progress) *Session {
	return &Session{id: id, progress: progress}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

func (s *Session) view() domain.SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress.View(s.id)
}

func (s *Session) apply(fn func(p *Progress) error) (domain.SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s.progress); err != nil {
		return domain.SessionView{}, err
	}
	return s.progress.View(s.id), nil
}

func (s *Session) submit() (domain.ScoreReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.progress.Complete(); err != nil {
		return domain.ScoreReport{}, err
	}
	return s.progress.Score(), nil
}

func (s *Session) report() (domain.ScoreReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.progress.Completed() {
		return domain.ScoreReport{}, domain.ErrNotCompleted
	}
	return s.progress.Score(), nil
}

func (s *Session) snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Serialize(s.progress)
}

func (s *Session) restore(snap domain.Snapshot) (domain.SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	restored, err := Restore(snap, s.progress.bank, s.progress.pageSize)
	if err != nil {
		return domain.SessionView{}, err
	}
	s.progress = restored
	return s.progress.View(s.id), nil
}
