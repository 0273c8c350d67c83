package convo

import (
	"fmt"
	"strings"
)

// Command is a named bot command issued by the user, without the leading "/".
type Command string

const (
	CmdStart      Command = "start"
	CmdRegister   Command = "register"
	CmdLogin      Command = "login"
	CmdLogout     Command = "logout"
	CmdCancel     Command = "cancel"
	CmdMySubjects Command = "mysubjects"
	CmdAddSubject Command = "addsubject"
	CmdQuizMe     Command = "quizme"
	CmdTutor      Command = "tutor"
	CmdDone       Command = "done"
)

var knownCommands = map[Command]struct{}{
	CmdStart:      {},
	CmdRegister:   {},
	CmdLogin:      {},
	CmdLogout:     {},
	CmdCancel:     {},
	CmdMySubjects: {},
	CmdAddSubject: {},
	CmdQuizMe:     {},
	CmdTutor:      {},
	CmdDone:       {},
}

// ParseCommand normalizes raw command text ("/Login", "login") into a Command.
func ParseCommand(raw string) (Command, bool) {
	name := strings.ToLower(strings.TrimSpace(raw))
	name = strings.TrimPrefix(name, "/")
	cmd := Command(name)
	_, ok := knownCommands[cmd]
	return cmd, ok
}

// Action identifies what a selection control does when pressed.
type Action string

const (
	ActionAdd    Action = "add"
	ActionRemove Action = "remove"
	ActionTutor  Action = "tutor"
	ActionQuiz   Action = "quiz"
	// ActionNoop labels inert controls, such as the subject name next to
	// its remove button.
	ActionNoop Action = "n"
)

var knownActions = map[Action]struct{}{
	ActionAdd:    {},
	ActionRemove: {},
	ActionTutor:  {},
	ActionQuiz:   {},
	ActionNoop:   {},
}

// Selection is a button-click event: an action tag plus a subject payload.
type Selection struct {
	Action  Action `json:"action"`
	Subject string `json:"subject"`
}

// ParseSelection decodes the wire form "action_payload" produced by Encode.
// Decoding happens once at the boundary; everything past it works with the
// typed event.
func ParseSelection(data string) (Selection, error) {
	tag, payload, found := strings.Cut(data, "_")
	if !found {
		return Selection{}, fmt.Errorf("malformed selection data %q", data)
	}
	action := Action(tag)
	if _, ok := knownActions[action]; !ok {
		return Selection{}, fmt.Errorf("unknown selection action %q", tag)
	}
	return Selection{Action: action, Subject: payload}, nil
}

// Encode renders the selection in its wire form.
func (s Selection) Encode() string {
	return string(s.Action) + "_" + s.Subject
}

// Inbound carries the identity attached to every incoming event.
type Inbound struct {
	UserID   string
	Username string
	Text     string
}
