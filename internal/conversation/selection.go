package conversation

import (
	"context"
	"fmt"
	"log"

	"github.com/edventure/tutorbot/internal/model/convo"
)

// selectionHandler processes one decoded selection event. Each action
// declares its own continuation: only the tutor-subject handler advances the
// tutor flow, the others leave conversation state untouched.
type selectionHandler func(ctx context.Context, ev convo.Inbound, sel convo.Selection, sess *Session) []convo.Reply

// HandleSelection demultiplexes a button-click event by its action tag.
func (e *Engine) HandleSelection(ctx context.Context, ev convo.Inbound, sel convo.Selection) []convo.Reply {
	sess := e.sessions.Acquire(ev.UserID)
	defer sess.Release()

	if sel.Action == convo.ActionNoop {
		return nil
	}
	h, ok := e.selections[sel.Action]
	if !ok {
		return []convo.Reply{{Text: msgUnknownCommand, Edit: true}}
	}
	return h(ctx, ev, sel, sess)
}

// gatedSelection applies the authentication gate to a selection handler.
func gatedSelection(next selectionHandler) selectionHandler {
	return func(ctx context.Context, ev convo.Inbound, sel convo.Selection, sess *Session) []convo.Reply {
		if !sess.Authenticated {
			sess.EndFlow()
			return []convo.Reply{{Text: msgLoginRequired, Edit: true}}
		}
		return next(ctx, ev, sel, sess)
	}
}

// selectAdd appends the chosen catalog subject to the caller's profile.
func (e *Engine) selectAdd(ctx context.Context, ev convo.Inbound, sel convo.Selection, _ *Session) []convo.Reply {
	if !containsSubject(e.catalog, sel.Subject) {
		return []convo.Reply{{Text: msgUnknownSubject, Edit: true}}
	}
	if err := e.users.AddSubject(ctx, ev.UserID, sel.Subject); err != nil {
		log.Printf("[conversation] add subject %q for %s: %v", sel.Subject, ev.UserID, err)
		return []convo.Reply{{Text: msgRegisterSaveFail, Edit: true}}
	}
	return []convo.Reply{{Text: fmt.Sprintf("✅ Added '%s'!", sel.Subject), Edit: true}}
}

// selectRemove removes the subject and re-renders the updated list.
func (e *Engine) selectRemove(ctx context.Context, ev convo.Inbound, sel convo.Selection, _ *Session) []convo.Reply {
	if err := e.users.RemoveSubject(ctx, ev.UserID, sel.Subject); err != nil {
		log.Printf("[conversation] remove subject %q for %s: %v", sel.Subject, ev.UserID, err)
		return []convo.Reply{{Text: msgRegisterSaveFail, Edit: true}}
	}

	subjects, ok, reply := e.subjects(ctx, ev.UserID)
	if !ok {
		return reply
	}
	if len(subjects) == 0 {
		return []convo.Reply{{
			Text: fmt.Sprintf("✅ Removed '%s'. You have no subjects left.", sel.Subject),
			Edit: true,
		}}
	}
	return []convo.Reply{{
		Text:    fmt.Sprintf("✅ Removed '%s'. Your updated list:", sel.Subject),
		Edit:    true,
		Options: removeRows(subjects),
	}}
}

// selectTutorSubject records the chosen subject and advances the tutor flow
// to await the first question. The subject must be on the caller's own list.
func (e *Engine) selectTutorSubject(ctx context.Context, ev convo.Inbound, sel convo.Selection, sess *Session) []convo.Reply {
	subjects, ok, reply := e.subjects(ctx, ev.UserID)
	if !ok {
		return reply
	}
	if !containsSubject(subjects, sel.Subject) {
		sess.EndFlow()
		return []convo.Reply{{Text: msgTutorNotYours, Edit: true}}
	}

	sess.TutorSubject = sel.Subject
	sess.State = convo.StateTutorAskQuestion
	return []convo.Reply{{
		Text: fmt.Sprintf("Great! Ask your question about %s:", sel.Subject),
		Edit: true,
	}}
}

// selectQuiz issues the one-shot quiz completion for the chosen subject. The
// subject must come from the fixed catalog.
func (e *Engine) selectQuiz(ctx context.Context, ev convo.Inbound, sel convo.Selection, _ *Session) []convo.Reply {
	if !containsSubject(e.catalog, sel.Subject) {
		return []convo.Reply{{Text: msgUnknownSubject, Edit: true}}
	}

	replies := []convo.Reply{{
		Text: fmt.Sprintf("⏳ Generating a quiz for '%s'... Please wait.", sel.Subject),
		Edit: true,
	}}

	if e.ai == nil {
		return append(replies, convo.Reply{Text: msgAIUnavailable, MainMenu: true})
	}

	quiz, err := e.ai.Complete(ctx, quizPrompt(e.curriculum, sel.Subject))
	if err != nil {
		log.Printf("[conversation] quiz for %s subject %q: %v", ev.UserID, sel.Subject, err)
		return append(replies, convo.Reply{Text: msgQuizFail, MainMenu: true})
	}

	return append(replies,
		convo.Reply{Text: quiz, MainMenu: true},
		convo.Reply{Text: fmt.Sprintf("✅ Your quiz for '%s' is ready!", sel.Subject), Edit: true},
	)
}
