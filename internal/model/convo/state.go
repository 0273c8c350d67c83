package convo

// State tags the multi-turn flow a session is currently inside. Exactly one
// state is active per session; StateIdle means no flow is in progress.
type State int

const (
	StateIdle State = iota
	StateRegisterAwaitEmail
	StateLoginAwaitEmail
	StateTutorSelectSubject
	StateTutorAskQuestion
	StateTutoring
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRegisterAwaitEmail:
		return "register-await-email"
	case StateLoginAwaitEmail:
		return "login-await-email"
	case StateTutorSelectSubject:
		return "tutor-select-subject"
	case StateTutorAskQuestion:
		return "tutor-ask-question"
	case StateTutoring:
		return "tutoring"
	default:
		return "unknown"
	}
}
