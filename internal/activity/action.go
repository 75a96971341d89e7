package activity

import "strings"

// Action is the uppercase event token written in the ACTION column.
type Action string

// Canonical actions, one per kind of task mutation.
const (
	ActionAdd          Action = "ADD"
	ActionEdit         Action = "EDIT"
	ActionComplete     Action = "COMPLETE"
	ActionDelete       Action = "DELETE"
	ActionMoveUp       Action = "MOVE_UP"
	ActionMoveDown     Action = "MOVE_DOWN"
	ActionHighlight    Action = "HIGHLIGHT"
	ActionUnhighlight  Action = "UNHIGHLIGHT"
	ActionNotiOn       Action = "NOTI_ON"
	ActionNotiOff      Action = "NOTI_OFF"
	ActionStatusChange Action = "STATUS_CHANGE"
)

// Actions lists the canonical actions.
var Actions = []Action{
	ActionAdd, ActionEdit, ActionComplete, ActionDelete,
	ActionMoveUp, ActionMoveDown, ActionHighlight, ActionUnhighlight,
	ActionNotiOn, ActionNotiOff, ActionStatusChange,
}

// aliases maps lowercase, underscore-joined spellings to canonical tokens.
var aliases = map[string]Action{
	"add":              ActionAdd,
	"create":           ActionAdd,
	"edit":             ActionEdit,
	"update":           ActionEdit,
	"complete":         ActionComplete,
	"completed":        ActionComplete,
	"done":             ActionComplete,
	"delete":           ActionDelete,
	"remove":           ActionDelete,
	"move_up":          ActionMoveUp,
	"moveup":           ActionMoveUp,
	"move_down":        ActionMoveDown,
	"movedown":         ActionMoveDown,
	"highlight":        ActionHighlight,
	"unhighlight":      ActionUnhighlight,
	"noti_on":          ActionNotiOn,
	"notification_on":  ActionNotiOn,
	"noti_off":         ActionNotiOff,
	"notification_off": ActionNotiOff,
	"status_change":    ActionStatusChange,
	"statuschange":     ActionStatusChange,
}

var aliasReplacer = strings.NewReplacer("-", "_", " ", "_")

// NormalizeAction maps a known spelling to its canonical token.
// Unrecognized actions pass through unchanged.
func NormalizeAction(s string) Action {
	key := aliasReplacer.Replace(strings.ToLower(strings.TrimSpace(s)))
	if a, ok := aliases[key]; ok {
		return a
	}
	return Action(s)
}

// Known reports whether a is one of the canonical actions.
func (a Action) Known() bool {
	for _, c := range Actions {
		if a == c {
			return true
		}
	}
	return false
}
