package domain

import "errors"

var (
	// ErrClassroomNotFound is returned when a classroom has not been initialized.
	ErrClassroomNotFound = errors.New("classroom not found")
	// ErrDuplicateParticipant is returned when a name is already on the roster.
	ErrDuplicateParticipant = errors.New("participant already added")
	// ErrParticipantNotFound is returned when removing a name that is not on the roster.
	ErrParticipantNotFound = errors.New("participant not found")
	// ErrGroupNotFound indicates a group index outside the current grouping.
	ErrGroupNotFound = errors.New("group not found")
	// ErrAlreadySubmitted indicates the group's answers are locked.
	ErrAlreadySubmitted = errors.New("group already submitted")
	// ErrGroupNotActive indicates an answer or submit for a group whose questionnaire is not open.
	ErrGroupNotActive = errors.New("group questionnaire not open")
	// ErrNoGroups indicates an operation that requires groups before any were generated.
	ErrNoGroups = errors.New("no groups generated")
	// ErrPoolNotFound indicates the named question pool could not be loaded.
	ErrPoolNotFound = errors.New("question pool not found")
	// ErrEmptyName rejects blank participant names.
	ErrEmptyName = errors.New("participant name is empty")
	// ErrInvalidTheme rejects theme values other than "dark" or "light".
	ErrInvalidTheme = errors.New("invalid theme")
)
