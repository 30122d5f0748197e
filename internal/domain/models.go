package domain

// QAPair is a single question with its canonical answer.
type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// QuestionPool is the ordered set of pairs available for assignment.
// Pools are replaced wholesale, never merged.
type QuestionPool struct {
	ID    string   `json:"id"`
	Pairs []QAPair `json:"pairs"`
}

// Group is an ordered slice of participant names. Membership only; names are
// value-equal strings owned by the roster.
type Group []string

// SessionPhase tracks where a group's quiz sits in its lifecycle.
type SessionPhase int

const (
	PhaseUnopened SessionPhase = iota
	PhaseActive
	PhaseSubmitted
)

func (p SessionPhase) String() string {
	switch p {
	case PhaseActive:
		return "active"
	case PhaseSubmitted:
		return "submitted"
	default:
		return "unopened"
	}
}

// GroupSessionView is a snapshot-friendly view of one group's quiz state.
type GroupSessionView struct {
	Members          Group    `json:"members"`
	Questions        []string `json:"questions"`
	Answers          []string `json:"answers"`
	Phase            string   `json:"phase"`
	Score            int      `json:"score"`
	RemainingSeconds int      `json:"remainingSeconds"`
	// Correct is populated only once the group has submitted; it is
	// index-aligned with Questions and drives answer highlighting.
	Correct []bool `json:"correct,omitempty"`
}

// ClassroomSnapshot captures everything the rendering layer needs.
type ClassroomSnapshot struct {
	ClassroomID string             `json:"classroomId"`
	Names       []string           `json:"names"`
	PoolSize    int                `json:"poolSize"`
	Groups      []GroupSessionView `json:"groups"`
	ActiveGroup int                `json:"activeGroup"` // -1 when no questionnaire is open
	Theme       string             `json:"theme"`
}

// ChartSlice is one wedge of the per-question tally consumed by the chart
// collaborator: for a distinct question, how many submitted groups matched.
type ChartSlice struct {
	Label string `json:"label"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// Themes accepted by the preference store.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// ValidTheme reports whether s is a storable theme value.
func ValidTheme(s string) bool {
	return s == ThemeDark || s == ThemeLight
}

// DefaultPool returns the built-in question pool used until a file upload
// replaces it. Callers receive a fresh copy; the defaults are never mutated.
func DefaultPool() QuestionPool {
	pairs := make([]QAPair, len(defaultPairs))
	copy(pairs, defaultPairs)
	return QuestionPool{ID: "default", Pairs: pairs}
}

var defaultPairs = []QAPair{
	{Question: "How much of the Earth is covered in water?", Answer: "71%"},
	{Question: "What gas do animals need to breathe to survive?", Answer: "Oxygen"},
	{Question: "What is the largest star in our solar system?", Answer: "The sun"},
	{Question: "What kind of blood cells fight infections?", Answer: "White blood cells"},
	{Question: "How many states of matter are there?", Answer: "Three"},
	{Question: "What planet is known as the “Red Planet”?", Answer: "Mars"},
	{Question: "How many bones are in the human body?", Answer: "206"},
	{Question: "What gas do plants absorb from the atmosphere?", Answer: "Carbon Dioxide"},
	{Question: "What is the largest organ in the human body?", Answer: "The skin"},
	{Question: "Name the powerhouse of the cell.", Answer: "The mitochondria"},
}
