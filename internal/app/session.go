package app

import (
	"sync"
	"time"

	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/timer"
)

// DefaultDurationSeconds is the countdown length of a session.
const DefaultDurationSeconds = 300

// SessionConfig carries everything a Session needs besides its questions.
type SessionConfig struct {
	ID              string
	DurationSeconds int
	CategoryID      int
	Difficulty      string
	// Scheduler delivers ticks once Start is called. Nil means ticks only
	// arrive through Tick.
	Scheduler    timer.Scheduler
	TickInterval time.Duration
	Now          func() time.Time
	// OnComplete runs under the session lock; it must not call back into the session.
	OnComplete func(domain.Result)
}

// Session is one attempt at a fixed, ordered list of questions.
//
// Completed is a one-way latch: every mutating call checks it first, so an
// answer racing the timer's expiry is dropped once expiry has won.
type Session struct {
	id         string
	categoryID int
	difficulty string
	now        func() time.Time
	onComplete func(domain.Result)

	sched    timer.Scheduler
	interval time.Duration

	mu           sync.Mutex
	questions    []domain.Question
	current      int
	status       domain.Status
	countdown    *timer.Countdown
	expired      bool
	started      bool
	closed       bool
	cancelTicks  func()
	tickGen      int
	createdAt    time.Time
	lastActivity time.Time
	completedAt  time.Time
	subscribers  map[chan domain.SessionView]struct{}
}

// NewSession builds an in-progress session. An empty question list yields
// domain.ErrNoQuestions instead of a session.
func NewSession(questions []domain.Question, cfg SessionConfig) (*Session, error) {
	if len(questions) == 0 {
		return nil, domain.ErrNoQuestions
	}
	if cfg.DurationSeconds <= 0 {
		cfg.DurationSeconds = DefaultDurationSeconds
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	owned := make([]domain.Question, len(questions))
	copy(owned, questions)
	for i := range owned {
		owned[i].SelectedAnswer = nil
		owned[i].IsCorrect = nil
	}

	now := cfg.Now()
	return &Session{
		id:           cfg.ID,
		categoryID:   cfg.CategoryID,
		difficulty:   cfg.Difficulty,
		now:          cfg.Now,
		onComplete:   cfg.OnComplete,
		sched:        cfg.Scheduler,
		interval:     cfg.TickInterval,
		questions:    owned,
		status:       domain.StatusInProgress,
		countdown:    timer.NewCountdown(cfg.DurationSeconds),
		createdAt:    now,
		lastActivity: now,
		subscribers:  make(map[chan domain.SessionView]struct{}),
	}, nil
}

func (s *Session) ID() string { return s.id }

// Start begins delivering ticks from the configured scheduler. It is a no-op
// without a scheduler or when already started.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.closed {
		return
	}
	s.started = true
	s.scheduleLocked()
}

// SubmitAnswer records selected for the current question. It reports false
// and changes nothing when the session is completed or the question already
// has an answer. Values outside the options are recorded and score as wrong.
func (s *Session) SubmitAnswer(selected string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.mutableLocked() {
		return false
	}
	q := &s.questions[s.current]
	if q.Answered() {
		return false
	}

	correct := selected == q.CorrectAnswer
	q.SelectedAnswer = &selected
	q.IsCorrect = &correct
	s.lastActivity = s.now()
	s.broadcastLocked()
	return true
}

// Advance moves past an answered question, completing the session after the
// last one. An unanswered current question is not skipped.
func (s *Session) Advance() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.mutableLocked() || !s.questions[s.current].Answered() {
		return false
	}

	s.lastActivity = s.now()
	if s.current < len(s.questions)-1 {
		s.current++
		s.broadcastLocked()
		return true
	}
	s.completeLocked(false)
	return true
}

// Tick consumes one second. The tick that reaches zero completes the session
// regardless of position; unanswered questions then count as incorrect.
func (s *Session) Tick() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tickLocked()
}

func (s *Session) tickFrom(gen int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.tickGen {
		return
	}
	s.tickLocked()
}

func (s *Session) tickLocked() bool {
	if !s.mutableLocked() || s.countdown.State() != timer.Running {
		return false
	}
	if s.countdown.Tick() {
		s.completeLocked(true)
		return true
	}
	s.broadcastLocked()
	return true
}

// TogglePause flips the paused flag. While paused no ticks are scheduled.
func (s *Session) TogglePause() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.mutableLocked() {
		return false
	}

	switch s.countdown.State() {
	case timer.Running:
		s.countdown.Pause()
		s.stopTicksLocked()
	case timer.Paused:
		s.countdown.Resume()
		s.scheduleLocked()
	default:
		return false
	}
	s.lastActivity = s.now()
	s.broadcastLocked()
	return true
}

// Close cancels the tick schedule and ends all subscriptions. The session
// accepts no further mutation afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.stopTicksLocked()
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
}

// Score is safe to call in any state.
func (s *Session) Score() domain.Score {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CalculateScore(s.questions)
}

func (s *Session) Status() domain.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Session) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Session) TimeRemaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countdown.Remaining()
}

func (s *Session) IsPaused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countdown.State() == timer.Paused
}

// Questions returns a copy of the questions with their answer state.
func (s *Session) Questions() []domain.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Question, len(s.questions))
	copy(out, s.questions)
	return out
}

// LastActivity is the time of creation, the last user action or completion.
func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

// Result returns the summary of a completed session.
func (s *Session) Result() (domain.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != domain.StatusCompleted {
		return domain.Result{}, false
	}
	return s.resultLocked(), true
}

func (s *Session) View() domain.SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// Subscribe returns a channel receiving a fresh view after every change,
// starting with the current one. The caller must invoke cancel to avoid leaks;
// the channel is also closed when the session closes.
func (s *Session) Subscribe() (<-chan domain.SessionView, func()) {
	ch := make(chan domain.SessionView, 8)

	s.mu.Lock()
	ch <- s.viewLocked()
	if s.closed {
		close(ch)
		s.mu.Unlock()
		return ch, func() {}
	}
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) mutableLocked() bool {
	return !s.closed && s.status == domain.StatusInProgress
}

func (s *Session) completeLocked(expired bool) {
	s.status = domain.StatusCompleted
	s.expired = expired
	s.completedAt = s.now()
	s.lastActivity = s.completedAt
	s.stopTicksLocked()
	if s.onComplete != nil {
		s.onComplete(s.resultLocked())
	}
	s.broadcastLocked()
}

func (s *Session) scheduleLocked() {
	if s.sched == nil || !s.started || s.cancelTicks != nil {
		return
	}
	if s.status != domain.StatusInProgress || s.countdown.State() != timer.Running {
		return
	}
	s.tickGen++
	gen := s.tickGen
	s.cancelTicks = s.sched.Every(s.interval, func() { s.tickFrom(gen) })
}

func (s *Session) stopTicksLocked() {
	s.tickGen++
	if s.cancelTicks != nil {
		s.cancelTicks()
		s.cancelTicks = nil
	}
}

func (s *Session) resultLocked() domain.Result {
	r := domain.Result{
		Score:            domain.CalculateScore(s.questions),
		SessionID:        s.id,
		TimeTakenSeconds: s.countdown.Elapsed(),
		CategoryID:       s.categoryID,
		Category:         s.questions[0].Category,
		Difficulty:       string(s.questions[0].Difficulty),
		Expired:          s.expired,
		CompletedAt:      s.completedAt,
	}
	if r.Difficulty == "" {
		r.Difficulty = s.difficulty
	}
	r.URL = ResultsURL(s.categoryID, s.difficulty, r)
	return r
}

func (s *Session) viewLocked() domain.SessionView {
	total := len(s.questions)
	score := domain.CalculateScore(s.questions)
	view := domain.SessionView{
		ID:                   s.id,
		Status:               s.status,
		CurrentIndex:         s.current,
		TotalQuestions:       total,
		ProgressPercentage:   (200*(s.current+1) + total) / (2 * total),
		TimeRemainingSeconds: s.countdown.Remaining(),
		Paused:               s.countdown.State() == timer.Paused,
		LiveScore:            score.Correct,
		IsLastQuestion:       s.current == total-1,
	}
	if s.status == domain.StatusCompleted {
		result := s.resultLocked()
		view.Result = &result
		return view
	}

	q := s.questions[s.current]
	qv := &domain.QuestionView{
		ID:         q.ID,
		Number:     s.current + 1,
		Category:   q.Category,
		Type:       q.Type,
		Difficulty: q.Difficulty,
		Text:       q.Text,
		Options:    append([]string(nil), q.Options...),
		Answered:   q.Answered(),
	}
	if q.Answered() {
		qv.SelectedAnswer = *q.SelectedAnswer
		correct := *q.IsCorrect
		qv.IsCorrect = &correct
		qv.CorrectAnswer = q.CorrectAnswer
	}
	view.Question = qv
	return view
}

func (s *Session) broadcastLocked() {
	if len(s.subscribers) == 0 {
		return
	}
	view := s.viewLocked()
	for ch := range s.subscribers {
		select {
		case ch <- view:
		default:
			// drop the oldest pending view so a slow reader never blocks a tick
			select {
			case <-ch:
			default:
			}
			ch <- view
		}
	}
}
