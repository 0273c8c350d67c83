package conversation

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/edventure/tutorbot/internal/model/convo"
	"github.com/edventure/tutorbot/internal/model/user"
)

// handlerFunc processes one event against the caller's (locked) session and
// produces the outbound replies. Failures never escape as errors; every
// failure path resolves to a user-visible reply.
type handlerFunc func(ctx context.Context, ev convo.Inbound, sess *Session) []convo.Reply

// Engine sequences the multi-turn conversation flows. All transitions are
// driven from three entry points: commands, free text, and selections.
type Engine struct {
	users      user.Store
	ai         CompletionService
	sessions   *Sessions
	catalog    []string
	curriculum string

	commands     map[convo.Command]handlerFunc
	textHandlers map[convo.State]handlerFunc
	selections   map[convo.Action]selectionHandler
}

// New assembles the engine and its routing tables. The authentication gate
// is composed here, at table-construction time, so a reader can see exactly
// which operations are protected. A nil CompletionService degrades tutoring
// and quizzes to "service unavailable" replies.
func New(users user.Store, ai CompletionService, catalog []string, curriculum string) *Engine {
	e := &Engine{
		users:      users,
		ai:         ai,
		sessions:   NewSessions(),
		catalog:    append([]string(nil), catalog...),
		curriculum: curriculum,
	}

	e.commands = map[convo.Command]handlerFunc{
		convo.CmdStart:      e.handleStart,
		convo.CmdRegister:   e.handleRegister,
		convo.CmdLogin:      e.handleLogin,
		convo.CmdLogout:     e.handleLogout,
		convo.CmdCancel:     e.handleCancel,
		convo.CmdDone:       e.handleDone,
		convo.CmdMySubjects: gated(e.handleMySubjects),
		convo.CmdAddSubject: gated(e.handleAddSubject),
		convo.CmdQuizMe:     gated(e.handleQuizMe),
		convo.CmdTutor:      gated(e.handleTutor),
	}

	// Transition table for free text: which handler owns the next message
	// depends only on the current flow state.
	e.textHandlers = map[convo.State]handlerFunc{
		convo.StateRegisterAwaitEmail: e.registerEmail,
		convo.StateLoginAwaitEmail:    e.loginEmail,
		convo.StateTutorAskQuestion:   e.tutorFirstQuestion,
		convo.StateTutoring:           e.tutorFollowUp,
	}

	e.selections = map[convo.Action]selectionHandler{
		convo.ActionAdd:    gatedSelection(e.selectAdd),
		convo.ActionRemove: gatedSelection(e.selectRemove),
		convo.ActionTutor:  gatedSelection(e.selectTutorSubject),
		convo.ActionQuiz:   gatedSelection(e.selectQuiz),
	}

	return e
}

// Sessions exposes the session registry for surfaces and tests.
func (e *Engine) Sessions() *Sessions {
	return e.sessions
}

// HandleCommand dispatches a named command for the given user.
func (e *Engine) HandleCommand(ctx context.Context, ev convo.Inbound, cmd convo.Command) []convo.Reply {
	sess := e.sessions.Acquire(ev.UserID)
	defer sess.Release()

	h, ok := e.commands[cmd]
	if !ok {
		return []convo.Reply{{Text: msgUnknownCommand}}
	}
	return h(ctx, ev, sess)
}

// HandleText dispatches free text according to the session's current state.
func (e *Engine) HandleText(ctx context.Context, ev convo.Inbound) []convo.Reply {
	sess := e.sessions.Acquire(ev.UserID)
	defer sess.Release()

	if h, ok := e.textHandlers[sess.State]; ok {
		return h(ctx, ev, sess)
	}
	if sess.Authenticated {
		return []convo.Reply{{Text: msgIdleHintAuthed, MainMenu: true}}
	}
	return []convo.Reply{{Text: msgIdleHintAnonymous}}
}

// gated wraps a protected handler. When the session is not authenticated it
// terminates the current flow and prompts for login without invoking the
// wrapped handler.
func gated(next handlerFunc) handlerFunc {
	return func(ctx context.Context, ev convo.Inbound, sess *Session) []convo.Reply {
		if !sess.Authenticated {
			sess.EndFlow()
			return []convo.Reply{{Text: msgLoginRequired, ClearMenu: true}}
		}
		return next(ctx, ev, sess)
	}
}

// handleStart greets according to auth state and profile existence.
func (e *Engine) handleStart(ctx context.Context, ev convo.Inbound, sess *Session) []convo.Reply {
	if sess.Authenticated {
		return []convo.Reply{{Text: msgWelcomeBack, MainMenu: true}}
	}

	profile, err := e.users.GetByID(ctx, ev.UserID)
	if err != nil {
		log.Printf("[conversation] start: fetch profile for %s: %v", ev.UserID, err)
		return []convo.Reply{{Text: msgStoreFetchFail}}
	}
	if profile != nil {
		return []convo.Reply{{Text: msgWelcomeLogin, ClearMenu: true}}
	}
	return []convo.Reply{{Text: msgWelcomeRegister, ClearMenu: true}}
}

func (e *Engine) handleRegister(_ context.Context, _ convo.Inbound, sess *Session) []convo.Reply {
	sess.State = convo.StateRegisterAwaitEmail
	return []convo.Reply{{Text: msgRegisterPrompt, ClearMenu: true}}
}

// registerEmail completes the registration flow with the supplied email.
func (e *Engine) registerEmail(ctx context.Context, ev convo.Inbound, sess *Session) []convo.Reply {
	sess.State = convo.StateIdle
	email := strings.ToLower(strings.TrimSpace(ev.Text))

	existing, err := e.users.FindByEmail(ctx, email)
	if err != nil {
		log.Printf("[conversation] register: lookup %s: %v", email, err)
		return []convo.Reply{{Text: msgStoreFetchFail}}
	}
	if existing != nil {
		return []convo.Reply{{Text: msgAlreadyRegistered}}
	}

	username := ev.Username
	if username == "" {
		username = "N/A"
	}
	profile := &user.Profile{
		ID:       ev.UserID,
		Email:    email,
		Username: username,
		Subjects: []string{},
	}
	if err := e.users.Create(ctx, profile); err != nil {
		log.Printf("[conversation] register: save profile for %s: %v", ev.UserID, err)
		return []convo.Reply{{Text: msgRegisterSaveFail}}
	}
	return []convo.Reply{{Text: msgRegisterSaved}}
}

func (e *Engine) handleLogin(_ context.Context, _ convo.Inbound, sess *Session) []convo.Reply {
	if sess.Authenticated {
		return []convo.Reply{{Text: msgAlreadyLoggedIn, MainMenu: true}}
	}
	sess.State = convo.StateLoginAwaitEmail
	return []convo.Reply{{Text: msgLoginPrompt, ClearMenu: true}}
}

// loginEmail authenticates the caller against their own profile. Login
// succeeds only when a profile exists for the caller's identifier and its
// stored email matches the supplied one case-insensitively.
func (e *Engine) loginEmail(ctx context.Context, ev convo.Inbound, sess *Session) []convo.Reply {
	sess.State = convo.StateIdle
	email := strings.ToLower(strings.TrimSpace(ev.Text))

	profile, err := e.users.GetByID(ctx, ev.UserID)
	if err != nil {
		log.Printf("[conversation] login: fetch profile for %s: %v", ev.UserID, err)
		return []convo.Reply{{Text: msgStoreFetchFail}}
	}
	if profile != nil && profile.Email == email {
		sess.Authenticated = true
		return []convo.Reply{{Text: msgLoginSuccess, MainMenu: true}}
	}
	return []convo.Reply{{Text: msgLoginFailure}}
}

func (e *Engine) handleLogout(_ context.Context, _ convo.Inbound, sess *Session) []convo.Reply {
	sess.Reset()
	return []convo.Reply{{Text: msgLoggedOut, ClearMenu: true}}
}

// handleCancel is the fallback available in every flow: it discards
// in-progress flow state and acknowledges according to auth state.
func (e *Engine) handleCancel(_ context.Context, _ convo.Inbound, sess *Session) []convo.Reply {
	sess.EndFlow()
	if sess.Authenticated {
		return []convo.Reply{{Text: msgCancelAuthed, MainMenu: true}}
	}
	return []convo.Reply{{Text: msgCancelAnonymous}}
}

// handleDone explicitly ends the tutor flow, discarding the chat handle and
// selected subject.
func (e *Engine) handleDone(_ context.Context, _ convo.Inbound, sess *Session) []convo.Reply {
	inTutorFlow := sess.Chat != nil || sess.TutorSubject != "" ||
		sess.State == convo.StateTutorSelectSubject ||
		sess.State == convo.StateTutorAskQuestion ||
		sess.State == convo.StateTutoring
	if !inTutorFlow {
		return []convo.Reply{{Text: msgNoTutorSession, MainMenu: sess.Authenticated}}
	}
	sess.EndFlow()
	return []convo.Reply{{Text: msgTutorDone, MainMenu: true}}
}

func (e *Engine) handleMySubjects(ctx context.Context, ev convo.Inbound, sess *Session) []convo.Reply {
	subjects, ok, reply := e.subjects(ctx, ev.UserID)
	if !ok {
		return reply
	}
	if len(subjects) == 0 {
		return []convo.Reply{{Text: msgNoSubjects, MainMenu: true}}
	}
	return []convo.Reply{{Text: msgSubjectsHeader, Options: removeRows(subjects)}}
}

func (e *Engine) handleAddSubject(ctx context.Context, ev convo.Inbound, sess *Session) []convo.Reply {
	subjects, ok, reply := e.subjects(ctx, ev.UserID)
	if !ok {
		return reply
	}

	var rows [][]convo.Option
	for _, name := range e.catalog {
		if containsSubject(subjects, name) {
			continue
		}
		rows = append(rows, []convo.Option{{
			Label: name,
			Data:  convo.Selection{Action: convo.ActionAdd, Subject: name},
		}})
	}
	if len(rows) == 0 {
		return []convo.Reply{{Text: msgAllSubjectsAdded, MainMenu: true}}
	}
	return []convo.Reply{{Text: msgChooseSubjectAdd, Options: rows}}
}

func (e *Engine) handleQuizMe(ctx context.Context, ev convo.Inbound, sess *Session) []convo.Reply {
	subjects, ok, reply := e.subjects(ctx, ev.UserID)
	if !ok {
		return reply
	}
	if len(subjects) == 0 {
		return []convo.Reply{{Text: msgAddSubjectFirst, MainMenu: true}}
	}

	// Quiz options carry their own tag namespace so they can coexist with
	// tutor options on the same dispatch surface.
	rows := make([][]convo.Option, 0, len(subjects))
	for _, name := range subjects {
		rows = append(rows, []convo.Option{{
			Label: name,
			Data:  convo.Selection{Action: convo.ActionQuiz, Subject: name},
		}})
	}
	return []convo.Reply{{Text: msgQuizChooseSubject, Options: rows}}
}

// handleTutor enters the tutor flow: with no subjects it short-circuits,
// otherwise it offers the caller's subjects and awaits a selection.
func (e *Engine) handleTutor(ctx context.Context, ev convo.Inbound, sess *Session) []convo.Reply {
	subjects, ok, reply := e.subjects(ctx, ev.UserID)
	if !ok {
		return reply
	}
	if len(subjects) == 0 {
		return []convo.Reply{{Text: msgAddSubjectFirst, MainMenu: true}}
	}

	rows := make([][]convo.Option, 0, len(subjects))
	for _, name := range subjects {
		rows = append(rows, []convo.Option{{
			Label: name,
			Data:  convo.Selection{Action: convo.ActionTutor, Subject: name},
		}})
	}
	sess.State = convo.StateTutorSelectSubject
	return []convo.Reply{{Text: msgTutorChooseSubject, Options: rows}}
}

// tutorFirstQuestion primes the tutor persona, opens the chat session and
// submits the caller's actual first question to it.
func (e *Engine) tutorFirstQuestion(ctx context.Context, ev convo.Inbound, sess *Session) []convo.Reply {
	subject := sess.TutorSubject
	if subject == "" {
		sess.EndFlow()
		return []convo.Reply{{Text: msgNoTutorSession, MainMenu: true}}
	}
	if e.ai == nil {
		sess.EndFlow()
		return []convo.Reply{{Text: msgAIUnavailable, MainMenu: true}}
	}

	replies := []convo.Reply{{Text: fmt.Sprintf(msgTutorInitializingFmt, e.curriculum)}}

	handle, err := e.ai.StartChat(ctx, tutorPrimer(e.curriculum, subject))
	if err != nil {
		log.Printf("[conversation] tutor: start chat for %s: %v", ev.UserID, err)
		sess.EndFlow()
		return append(replies, convo.Reply{Text: msgTutorConnectFail, MainMenu: true})
	}

	answer, err := e.ai.Send(ctx, handle, ev.Text)
	if err != nil {
		// Discard the partial handle; the flow restarts from /tutor.
		log.Printf("[conversation] tutor: first question for %s: %v", ev.UserID, err)
		sess.EndFlow()
		return append(replies, convo.Reply{Text: msgTutorConnectFail, MainMenu: true})
	}

	sess.Chat = handle
	sess.State = convo.StateTutoring
	return append(replies,
		convo.Reply{Text: answer, ClearMenu: true},
		convo.Reply{Text: fmt.Sprintf(msgTutorChattingFmt, e.curriculum)},
	)
}

// tutorFollowUp is the steady-state loop: forward the text to the stored
// chat session and relay the reply verbatim.
func (e *Engine) tutorFollowUp(ctx context.Context, ev convo.Inbound, sess *Session) []convo.Reply {
	if sess.Chat == nil || e.ai == nil {
		sess.EndFlow()
		return []convo.Reply{{Text: msgNoTutorSession, MainMenu: true}}
	}

	answer, err := e.ai.Send(ctx, sess.Chat, ev.Text)
	if err != nil {
		log.Printf("[conversation] tutor: send for %s: %v", ev.UserID, err)
		sess.EndFlow()
		return []convo.Reply{{Text: msgTutorSendFail, MainMenu: true}}
	}
	return []convo.Reply{{Text: answer}}
}

// subjects fetches the caller's subject list. On a store failure it returns
// ok=false along with the reply to emit.
func (e *Engine) subjects(ctx context.Context, userID string) ([]string, bool, []convo.Reply) {
	profile, err := e.users.GetByID(ctx, userID)
	if err != nil {
		log.Printf("[conversation] fetch subjects for %s: %v", userID, err)
		return nil, false, []convo.Reply{{Text: msgStoreFetchFail}}
	}
	if profile == nil {
		return nil, true, nil
	}
	return profile.Subjects, true, nil
}

func containsSubject(subjects []string, name string) bool {
	for _, s := range subjects {
		if s == name {
			return true
		}
	}
	return false
}

// removeRows renders the subject list with a removal control per subject.
func removeRows(subjects []string) [][]convo.Option {
	rows := make([][]convo.Option, 0, len(subjects))
	for _, name := range subjects {
		rows = append(rows, []convo.Option{
			{Label: name, Data: convo.Selection{Action: convo.ActionNoop}},
			{Label: msgRemoveLabel, Data: convo.Selection{Action: convo.ActionRemove, Subject: name}},
		})
	}
	return rows
}
