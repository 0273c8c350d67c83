package convo

// Option is one selectable control offered to the user.
type Option struct {
	Label string    `json:"label"`
	Data  Selection `json:"data"`
}

// Reply is an outbound message plus its abstract keyboard. Rendering is left
// to the transport surface.
type Reply struct {
	Text string `json:"text"`
	// MainMenu attaches the persistent main-menu keyboard.
	MainMenu bool `json:"mainMenu,omitempty"`
	// ClearMenu removes any persistent keyboard.
	ClearMenu bool `json:"clearMenu,omitempty"`
	// Edit replaces the originating selection control instead of sending a
	// fresh message. Only meaningful when answering a selection event.
	Edit bool `json:"edit,omitempty"`
	// Options renders rows of inline selection controls.
	Options [][]Option `json:"options,omitempty"`
}

// Main-menu labels, one row per slice. Surfaces render these as a reply
// keyboard and translate presses back into commands.
var MainMenuRows = [][]string{
	{"🧑‍🏫 Tutor", "❓ Quiz Me"},
	{"📚 My Subjects", "➕ Add Subject"},
}

var menuCommands = map[string]Command{
	"🧑‍🏫 Tutor":     CmdTutor,
	"❓ Quiz Me":     CmdQuizMe,
	"📚 My Subjects": CmdMySubjects,
	"➕ Add Subject": CmdAddSubject,
}

// CommandForLabel resolves a main-menu button label to its command.
func CommandForLabel(label string) (Command, bool) {
	cmd, ok := menuCommands[label]
	return cmd, ok
}
