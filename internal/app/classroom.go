package app

import (
	"math/rand"
	"sort"
	"sync"
	"time"

	"classgroup-service/internal/domain"
	"classgroup-service/internal/grouping"
	"classgroup-service/internal/match"
)

// Settings carries the quiz tuning applied to every classroom.
type Settings struct {
	QuestionsPerGroup int
	TimeLimitSeconds  int
	DefaultTheme      string
}

// Classroom is the in-memory aggregate for one grouping session: the roster,
// the active question pool, the generated groups with their assignments and
// per-group quiz sessions, and the snapshot subscribers.
//
// All state behind mu; the countdown goroutine holds a generation token and
// stops as soon as the token goes stale, so switching or submitting never
// races a tick.
type Classroom struct {
	id           string
	settings     Settings
	now          func() time.Time
	tickInterval time.Duration
	rnd          *rand.Rand

	mu           sync.RWMutex
	names        []string
	pool         domain.QuestionPool
	groups       []domain.Group
	assignments  [][]domain.QAPair
	sessions     []*groupSession
	active       int
	theme        string
	countdownGen int
	subscribers  map[chan domain.ClassroomSnapshot]struct{}
}

// groupSession is the explicit per-group tri-state the sparse index maps of
// the rendering layer collapse into.
type groupSession struct {
	answers   []string
	phase     domain.SessionPhase
	score     int
	remaining int
}

// NewClassroom is exported for infrastructure layers that need to seed classrooms.
func NewClassroom(id string, settings Settings) *Classroom {
	return newClassroomWithClock(id, settings, time.Now)
}

// NewClassroomWithClock is test-only for deterministic timestamps and seeds.
func NewClassroomWithClock(id string, settings Settings, now func() time.Time) *Classroom {
	return newClassroomWithClock(id, settings, now)
}

func newClassroomWithClock(id string, settings Settings, now func() time.Time) *Classroom {
	if settings.QuestionsPerGroup <= 0 {
		settings.QuestionsPerGroup = 5
	}
	if settings.TimeLimitSeconds <= 0 {
		settings.TimeLimitSeconds = 60
	}
	if !domain.ValidTheme(settings.DefaultTheme) {
		settings.DefaultTheme = domain.ThemeLight
	}
	return &Classroom{
		id:           id,
		settings:     settings,
		now:          now,
		tickInterval: time.Second,
		rnd:          rand.New(rand.NewSource(now().UnixNano())),
		active:       -1,
		pool:         domain.DefaultPool(),
		theme:        settings.DefaultTheme,
		subscribers:  make(map[chan domain.ClassroomSnapshot]struct{}),
	}
}

func (c *Classroom) addParticipant(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, existing := range c.names {
		if existing == name {
			return domain.ErrDuplicateParticipant
		}
	}
	c.names = append(c.names, name)
	c.broadcastLocked()
	return nil
}

func (c *Classroom) removeParticipant(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, existing := range c.names {
		if existing == name {
			c.names = append(c.names[:i], c.names[i+1:]...)
			c.broadcastLocked()
			return nil
		}
	}
	return domain.ErrParticipantNotFound
}

// clearAll resets roster, pool and all quiz progress. The theme flag survives.
func (c *Classroom) clearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.names = nil
	c.pool = domain.DefaultPool()
	c.groups = nil
	c.assignments = nil
	c.sessions = nil
	c.active = -1
	c.countdownGen++
	c.broadcastLocked()
}

// setPool replaces the active pool wholesale. Prior quiz progress is kept;
// new assignments pick up the pool on the next grouping.
func (c *Classroom) setPool(pool domain.QuestionPool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pool = pool
	c.broadcastLocked()
}

// generateGroups partitions the roster and deals each group its questions,
// discarding every prior session.
func (c *Classroom) generateGroups(size int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.groups = grouping.Partition(c.rnd, c.names, size)
	c.assignments = make([][]domain.QAPair, len(c.groups))
	c.sessions = make([]*groupSession, len(c.groups))
	for i := range c.groups {
		c.assignments[i] = grouping.SamplePairs(c.rnd, c.pool.Pairs, c.settings.QuestionsPerGroup)
		c.sessions[i] = &groupSession{
			answers:   make([]string, len(c.assignments[i])),
			phase:     domain.PhaseUnopened,
			remaining: c.settings.TimeLimitSeconds,
		}
	}
	c.active = -1
	c.countdownGen++
	c.broadcastLocked()
}

// openGroup activates a group's questionnaire. Remaining time resumes from
// the last recorded value. A fresh countdown replaces any running one.
func (c *Classroom) openGroup(index int) error {
	c.mu.Lock()
	if index < 0 || index >= len(c.sessions) {
		c.mu.Unlock()
		return domain.ErrGroupNotFound
	}
	session := c.sessions[index]
	if session.phase == domain.PhaseSubmitted {
		c.mu.Unlock()
		return domain.ErrAlreadySubmitted
	}

	// At most one session may be active; demote the previous one the same
	// way back() does, keeping its remaining time.
	if c.active >= 0 && c.active < len(c.sessions) && c.active != index {
		if prev := c.sessions[c.active]; prev.phase == domain.PhaseActive {
			prev.phase = domain.PhaseUnopened
		}
	}

	c.countdownGen++
	gen := c.countdownGen
	c.active = index
	session.phase = domain.PhaseActive
	c.broadcastLocked()
	c.mu.Unlock()

	go c.runCountdown(gen, index)
	return nil
}

// back leaves the active questionnaire; remaining time is snapshotted, not lost.
func (c *Classroom) back() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active >= 0 && c.active < len(c.sessions) {
		if session := c.sessions[c.active]; session.phase == domain.PhaseActive {
			session.phase = domain.PhaseUnopened
		}
	}
	c.active = -1
	c.countdownGen++
	c.broadcastLocked()
}

func (c *Classroom) updateAnswer(group, question int, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if group < 0 || group >= len(c.sessions) {
		return domain.ErrGroupNotFound
	}
	session := c.sessions[group]
	if session.phase == domain.PhaseSubmitted {
		return domain.ErrAlreadySubmitted
	}
	if c.active != group || session.phase != domain.PhaseActive {
		return domain.ErrGroupNotActive
	}
	if question < 0 || question >= len(session.answers) {
		return domain.ErrGroupNotFound
	}
	session.answers[question] = text
	c.broadcastLocked()
	return nil
}

// submit locks the group's answers and scores them.
func (c *Classroom) submit(group int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if group < 0 || group >= len(c.sessions) {
		return domain.ErrGroupNotFound
	}
	session := c.sessions[group]
	if session.phase == domain.PhaseSubmitted {
		return domain.ErrAlreadySubmitted
	}
	if c.active != group || session.phase != domain.PhaseActive {
		return domain.ErrGroupNotActive
	}
	c.scoreAndSubmitLocked(group)
	c.countdownGen++
	c.broadcastLocked()
	return nil
}

// scoreAndSubmitLocked applies the submit transition: count matcher hits over
// the answers as they stand, then freeze the session. Used by both explicit
// submit and timeout so the two transitions score identically.
func (c *Classroom) scoreAndSubmitLocked(group int) {
	session := c.sessions[group]
	score := 0
	for i, pair := range c.assignments[group] {
		answer := ""
		if i < len(session.answers) {
			answer = session.answers[i]
		}
		if match.IsCorrect(answer, pair.Answer) {
			score++
		}
	}
	session.score = score
	session.phase = domain.PhaseSubmitted
}

func (c *Classroom) runCountdown(gen, group int) {
	ticker := time.NewTicker(c.tickInterval)
	defer ticker.Stop()
	for range ticker.C {
		if !c.tick(gen, group) {
			return
		}
	}
}

// tick advances the countdown one second. It reports whether the loop should
// keep running; a stale generation token means the active group changed and
// this loop must die without touching anything.
func (c *Classroom) tick(gen, group int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.countdownGen || c.active != group {
		return false
	}
	session := c.sessions[group]
	if session.phase != domain.PhaseActive {
		return false
	}

	if session.remaining > 0 {
		session.remaining--
	}
	if session.remaining == 0 {
		c.scoreAndSubmitLocked(group)
		c.countdownGen++
		c.broadcastLocked()
		return false
	}
	c.broadcastLocked()
	return true
}

func (c *Classroom) setTheme(theme string) error {
	if !domain.ValidTheme(theme) {
		return domain.ErrInvalidTheme
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.theme = theme
	c.broadcastLocked()
	return nil
}

func (c *Classroom) currentTheme() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.theme
}

var chartPalette = []string{
	"#22c55e", "#3b82f6", "#f59e0b", "#ef4444", "#8b5cf6",
	"#14b8a6", "#eab308", "#10b981", "#a855f7", "#f43f5e",
}

// chart tallies, per distinct question across submitted groups, how many
// groups matched correctly. Slices come back sorted by count descending;
// equal counts keep discovery order. Colors are fixed at discovery so a
// question keeps its wedge color regardless of rank.
func (c *Classroom) chart() []domain.ChartSlice {
	c.mu.RLock()
	defer c.mu.RUnlock()

	index := make(map[string]int)
	slices := []domain.ChartSlice{}
	for gi, assignment := range c.assignments {
		session := c.sessions[gi]
		if session.phase != domain.PhaseSubmitted {
			continue
		}
		for qi, pair := range assignment {
			answer := ""
			if qi < len(session.answers) {
				answer = session.answers[qi]
			}
			pos, seen := index[pair.Question]
			if !seen {
				pos = len(slices)
				index[pair.Question] = pos
				slices = append(slices, domain.ChartSlice{
					Label: pair.Question,
					Color: chartPalette[pos%len(chartPalette)],
				})
			}
			if match.IsCorrect(answer, pair.Answer) {
				slices[pos].Value++
			}
		}
	}

	sort.SliceStable(slices, func(i, j int) bool {
		return slices[i].Value > slices[j].Value
	})
	return slices
}

func (c *Classroom) subscribe() (<-chan domain.ClassroomSnapshot, func()) {
	ch := make(chan domain.ClassroomSnapshot, 8)

	c.mu.Lock()
	c.subscribers[ch] = struct{}{}
	initial := c.snapshotLocked()
	c.mu.Unlock()

	ch <- initial

	cancel := func() {
		c.mu.Lock()
		if _, ok := c.subscribers[ch]; ok {
			delete(c.subscribers, ch)
			close(ch)
		}
		c.mu.Unlock()
	}
	return ch, cancel
}

// IsIdle reports whether nobody is watching this classroom.
func (c *Classroom) IsIdle() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.subscribers) == 0
}

func (c *Classroom) broadcastLocked() domain.ClassroomSnapshot {
	snapshot := c.snapshotLocked()
	for ch := range c.subscribers {
		select {
		case ch <- snapshot:
		default:
			// Drop the stale snapshot so a slow subscriber never blocks the rest.
			select {
			case <-ch:
			default:
			}
			ch <- snapshot
		}
	}
	return snapshot
}

func (c *Classroom) snapshot() domain.ClassroomSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

func (c *Classroom) snapshotLocked() domain.ClassroomSnapshot {
	names := make([]string, len(c.names))
	copy(names, c.names)

	groups := make([]domain.GroupSessionView, len(c.groups))
	for i, group := range c.groups {
		session := c.sessions[i]
		questions := make([]string, len(c.assignments[i]))
		for qi, pair := range c.assignments[i] {
			questions[qi] = pair.Question
		}
		answers := make([]string, len(session.answers))
		copy(answers, session.answers)

		view := domain.GroupSessionView{
			Members:          append(domain.Group{}, group...),
			Questions:        questions,
			Answers:          answers,
			Phase:            session.phase.String(),
			Score:            session.score,
			RemainingSeconds: session.remaining,
		}
		if session.phase == domain.PhaseSubmitted {
			correct := make([]bool, len(c.assignments[i]))
			for qi, pair := range c.assignments[i] {
				correct[qi] = match.IsCorrect(answers[qi], pair.Answer)
			}
			view.Correct = correct
		}
		groups[i] = view
	}

	return domain.ClassroomSnapshot{
		ClassroomID: c.id,
		Names:       names,
		PoolSize:    len(c.pool.Pairs),
		Groups:      groups,
		ActiveGroup: c.active,
		Theme:       c.theme,
	}
}
