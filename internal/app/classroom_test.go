package app

import (
	"testing"
	"time"

	"classgroup-service/internal/domain"
)

func testClassroom(t *testing.T, settings Settings) *Classroom {
	t.Helper()
	c := NewClassroomWithClock("class-1", settings, time.Now)
	// Keep countdown goroutines inert so tests drive ticks directly.
	c.tickInterval = time.Hour
	return c
}

func populate(t *testing.T, c *Classroom, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := c.addParticipant(name); err != nil {
			t.Fatalf("add %q: %v", name, err)
		}
	}
}

func TestRosterRejectsDuplicates(t *testing.T) {
	c := testClassroom(t, Settings{})
	populate(t, c, "Alice", "Bob")

	if err := c.addParticipant("Alice"); err != domain.ErrDuplicateParticipant {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	// Case-sensitive roster: "alice" is a different participant.
	if err := c.addParticipant("alice"); err != nil {
		t.Fatalf("expected distinct name accepted, got %v", err)
	}
	if err := c.removeParticipant("Carol"); err != domain.ErrParticipantNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestGenerateGroupsAssignsQuestions(t *testing.T) {
	c := testClassroom(t, Settings{QuestionsPerGroup: 5, TimeLimitSeconds: 60})
	populate(t, c, "Alice", "Bob", "Carol", "Dave", "Eve")

	c.generateGroups(2)

	snap := c.snapshot()
	if len(snap.Groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(snap.Groups))
	}
	total := 0
	for i, g := range snap.Groups {
		total += len(g.Members)
		if len(g.Questions) != 5 {
			t.Fatalf("group %d: expected 5 questions from default pool, got %d", i, len(g.Questions))
		}
		if len(g.Answers) != len(g.Questions) {
			t.Fatalf("group %d: answers not aligned with questions", i)
		}
		if g.Phase != "unopened" {
			t.Fatalf("group %d: expected unopened, got %s", i, g.Phase)
		}
		if g.RemainingSeconds != 60 {
			t.Fatalf("group %d: expected 60s, got %d", i, g.RemainingSeconds)
		}
	}
	if total != 5 {
		t.Fatalf("expected 5 members across groups, got %d", total)
	}
	if snap.ActiveGroup != -1 {
		t.Fatalf("expected no active group, got %d", snap.ActiveGroup)
	}
}

func TestShortPoolAssignsFewerQuestions(t *testing.T) {
	c := testClassroom(t, Settings{QuestionsPerGroup: 5})
	populate(t, c, "Alice", "Bob")
	c.setPool(domain.QuestionPool{ID: "tiny", Pairs: []domain.QAPair{
		{Question: "q1", Answer: "a1"},
		{Question: "q2", Answer: "a2"},
	}})

	c.generateGroups(2)

	snap := c.snapshot()
	if len(snap.Groups[0].Questions) != 2 {
		t.Fatalf("expected 2 questions from a 2-pair pool, got %d", len(snap.Groups[0].Questions))
	}
}

func TestSubmitScoresWithMatcher(t *testing.T) {
	c := testClassroom(t, Settings{QuestionsPerGroup: 3})
	populate(t, c, "Alice", "Bob")
	c.setPool(domain.QuestionPool{ID: "science", Pairs: []domain.QAPair{
		{Question: "How much water?", Answer: "71%"},
		{Question: "Red planet?", Answer: "Mars"},
		{Question: "States of matter?", Answer: "Three"},
	}})
	c.generateGroups(2)

	if err := c.openGroup(0); err != nil {
		t.Fatalf("open: %v", err)
	}

	// Answer by question text so the pool's random order doesn't matter.
	snap := c.snapshot()
	for qi, question := range snap.Groups[0].Questions {
		var text string
		switch question {
		case "How much water?":
			text = "71" // tier 2: punctuation stripped
		case "Red planet?":
			text = "mars" // tier 1: case-insensitive
		case "States of matter?":
			text = "" // unanswered, never correct
		}
		if err := c.updateAnswer(0, qi, text); err != nil {
			t.Fatalf("answer %d: %v", qi, err)
		}
	}

	if err := c.submit(0); err != nil {
		t.Fatalf("submit: %v", err)
	}
	snap = c.snapshot()
	if snap.Groups[0].Phase != "submitted" {
		t.Fatalf("expected submitted, got %s", snap.Groups[0].Phase)
	}
	if snap.Groups[0].Score != 2 {
		t.Fatalf("expected score 2, got %d", snap.Groups[0].Score)
	}
	if len(snap.Groups[0].Correct) != 3 {
		t.Fatalf("expected per-answer correctness after submit, got %v", snap.Groups[0].Correct)
	}

	// Submitted answers are immutable.
	if err := c.updateAnswer(0, 0, "changed"); err != domain.ErrAlreadySubmitted {
		t.Fatalf("expected immutable answers, got %v", err)
	}
	if err := c.submit(0); err != domain.ErrAlreadySubmitted {
		t.Fatalf("expected double submit rejected, got %v", err)
	}
	if err := c.openGroup(0); err != domain.ErrAlreadySubmitted {
		t.Fatalf("expected reopen rejected, got %v", err)
	}
}

func TestCountdownResumesAcrossOpenAndBack(t *testing.T) {
	c := testClassroom(t, Settings{TimeLimitSeconds: 60})
	populate(t, c, "Alice", "Bob")
	c.generateGroups(1)

	if err := c.openGroup(0); err != nil {
		t.Fatalf("open: %v", err)
	}
	gen := c.countdownGen
	for i := 0; i < 10; i++ {
		if !c.tick(gen, 0) {
			t.Fatalf("tick %d stopped early", i)
		}
	}
	if got := c.snapshot().Groups[0].RemainingSeconds; got != 50 {
		t.Fatalf("expected 50s remaining, got %d", got)
	}

	c.back()
	// The old countdown token is dead; its ticks must not touch anything.
	if c.tick(gen, 0) {
		t.Fatalf("stale tick kept running after back")
	}
	snap := c.snapshot()
	if snap.Groups[0].RemainingSeconds != 50 {
		t.Fatalf("time lost on back: %d", snap.Groups[0].RemainingSeconds)
	}
	if snap.Groups[0].Phase != "unopened" {
		t.Fatalf("expected unopened after back, got %s", snap.Groups[0].Phase)
	}

	// Reopening resumes from the recorded value.
	if err := c.openGroup(0); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got := c.snapshot().Groups[0].RemainingSeconds; got != 50 {
		t.Fatalf("expected resume at 50s, got %d", got)
	}
}

func TestCountdownTimeoutForcesSubmission(t *testing.T) {
	c := testClassroom(t, Settings{TimeLimitSeconds: 60})
	populate(t, c, "Alice", "Bob")
	c.generateGroups(2)

	if err := c.openGroup(0); err != nil {
		t.Fatalf("open: %v", err)
	}
	gen := c.countdownGen
	for i := 0; i < 59; i++ {
		if !c.tick(gen, 0) {
			t.Fatalf("tick %d stopped early", i)
		}
	}
	// The 60th tick hits zero and forces submission.
	if c.tick(gen, 0) {
		t.Fatalf("expected countdown to stop at zero")
	}

	snap := c.snapshot()
	if snap.Groups[0].Phase != "submitted" {
		t.Fatalf("expected forced submission, got %s", snap.Groups[0].Phase)
	}
	if snap.Groups[0].RemainingSeconds != 0 {
		t.Fatalf("expected 0s remaining, got %d", snap.Groups[0].RemainingSeconds)
	}
	if snap.Groups[0].Score != 0 {
		t.Fatalf("empty answers must score 0, got %d", snap.Groups[0].Score)
	}
}

func TestSwitchingGroupsInvalidatesOldCountdown(t *testing.T) {
	c := testClassroom(t, Settings{TimeLimitSeconds: 30})
	populate(t, c, "Alice", "Bob", "Carol", "Dave")
	c.generateGroups(2)

	if err := c.openGroup(0); err != nil {
		t.Fatalf("open 0: %v", err)
	}
	oldGen := c.countdownGen
	if err := c.openGroup(1); err != nil {
		t.Fatalf("open 1: %v", err)
	}

	if c.tick(oldGen, 0) {
		t.Fatalf("old group's countdown survived the switch")
	}
	gen := c.countdownGen
	if !c.tick(gen, 1) {
		t.Fatalf("new group's countdown not running")
	}
	snap := c.snapshot()
	if snap.Groups[0].RemainingSeconds != 30 {
		t.Fatalf("inactive group lost time: %d", snap.Groups[0].RemainingSeconds)
	}
	if snap.Groups[1].RemainingSeconds != 29 {
		t.Fatalf("active group did not tick: %d", snap.Groups[1].RemainingSeconds)
	}
}

func TestSwitchingGroupsDemotesPreviousPhase(t *testing.T) {
	c := testClassroom(t, Settings{TimeLimitSeconds: 30})
	populate(t, c, "Alice", "Bob", "Carol", "Dave")
	c.generateGroups(2)

	if err := c.openGroup(0); err != nil {
		t.Fatalf("open 0: %v", err)
	}
	if err := c.openGroup(1); err != nil {
		t.Fatalf("open 1: %v", err)
	}

	snap := c.snapshot()
	if snap.ActiveGroup != 1 {
		t.Fatalf("expected group 1 active, got %d", snap.ActiveGroup)
	}
	if snap.Groups[0].Phase != "unopened" {
		t.Fatalf("previous group phase not demoted: %s", snap.Groups[0].Phase)
	}
	if snap.Groups[1].Phase != "active" {
		t.Fatalf("new group not active: %s", snap.Groups[1].Phase)
	}
	active := 0
	for _, g := range snap.Groups {
		if g.Phase == "active" {
			active++
		}
	}
	if active != 1 {
		t.Fatalf("expected exactly one active group, got %d", active)
	}

	// Reopening the demoted group works and flips the phases back.
	if err := c.openGroup(0); err != nil {
		t.Fatalf("reopen 0: %v", err)
	}
	snap = c.snapshot()
	if snap.Groups[0].Phase != "active" || snap.Groups[1].Phase != "unopened" {
		t.Fatalf("phases not swapped back: %s/%s", snap.Groups[0].Phase, snap.Groups[1].Phase)
	}
}

func TestRegenerateDiscardsQuizProgress(t *testing.T) {
	c := testClassroom(t, Settings{TimeLimitSeconds: 60})
	populate(t, c, "Alice", "Bob")
	c.generateGroups(1)

	if err := c.openGroup(0); err != nil {
		t.Fatalf("open: %v", err)
	}
	gen := c.countdownGen
	c.tick(gen, 0)
	if err := c.updateAnswer(0, 0, "something"); err != nil {
		t.Fatalf("answer: %v", err)
	}

	c.generateGroups(1)

	snap := c.snapshot()
	for i, g := range snap.Groups {
		if g.Phase != "unopened" || g.RemainingSeconds != 60 {
			t.Fatalf("group %d kept stale session state: %+v", i, g)
		}
		for _, a := range g.Answers {
			if a != "" {
				t.Fatalf("group %d kept stale answers: %v", i, g.Answers)
			}
		}
	}
	if c.tick(gen, 0) {
		t.Fatalf("old countdown survived regeneration")
	}
}

func TestChartCountsSubmittedGroupsOnly(t *testing.T) {
	c := testClassroom(t, Settings{QuestionsPerGroup: 1, TimeLimitSeconds: 60})
	populate(t, c, "Alice", "Bob")
	c.setPool(domain.QuestionPool{ID: "one", Pairs: []domain.QAPair{
		{Question: "Red planet?", Answer: "Mars"},
	}})
	c.generateGroups(1)

	if chart := c.chart(); len(chart) != 0 {
		t.Fatalf("expected empty chart before submission, got %v", chart)
	}

	if err := c.openGroup(0); err != nil {
		t.Fatalf("open 0: %v", err)
	}
	if err := c.updateAnswer(0, 0, "mars"); err != nil {
		t.Fatalf("answer: %v", err)
	}
	if err := c.submit(0); err != nil {
		t.Fatalf("submit 0: %v", err)
	}
	if err := c.openGroup(1); err != nil {
		t.Fatalf("open 1: %v", err)
	}
	if err := c.submit(1); err != nil {
		t.Fatalf("submit 1: %v", err)
	}

	chart := c.chart()
	if len(chart) != 1 {
		t.Fatalf("expected one distinct question, got %d", len(chart))
	}
	if chart[0].Label != "Red planet?" || chart[0].Value != 1 {
		t.Fatalf("unexpected tally: %+v", chart[0])
	}
	if chart[0].Color == "" {
		t.Fatalf("expected a palette color")
	}
}

func TestClearAllKeepsTheme(t *testing.T) {
	c := testClassroom(t, Settings{})
	populate(t, c, "Alice")
	if err := c.setTheme(domain.ThemeDark); err != nil {
		t.Fatalf("set theme: %v", err)
	}
	c.setPool(domain.QuestionPool{ID: "tiny", Pairs: []domain.QAPair{{Question: "q", Answer: "a"}}})
	c.generateGroups(1)

	c.clearAll()

	snap := c.snapshot()
	if len(snap.Names) != 0 || len(snap.Groups) != 0 {
		t.Fatalf("expected cleared state, got %+v", snap)
	}
	if snap.PoolSize != len(domain.DefaultPool().Pairs) {
		t.Fatalf("expected default pool restored, got %d pairs", snap.PoolSize)
	}
	if snap.Theme != domain.ThemeDark {
		t.Fatalf("theme must survive clearAll, got %q", snap.Theme)
	}
}
