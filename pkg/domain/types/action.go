package types

import "fmt"

// Action is what the decision engine chose to do in one tick
type Action string

const (
	ActionPost  Action = "post"
	ActionReply Action = "reply"
	ActionIdle  Action = "idle"
)

// AllActions returns all valid actions
func AllActions() []Action {
	return []Action{
		ActionPost,
		ActionReply,
		ActionIdle,
	}
}

// IsValid checks if the action is valid
func (a Action) IsValid() bool {
	switch a {
	case ActionPost, ActionReply, ActionIdle:
		return true
	default:
		return false
	}
}

// String returns the string representation of the action
func (a Action) String() string {
	return string(a)
}

// ParseAction parses a string into an Action
func ParseAction(s string) (Action, error) {
	action := Action(s)
	if !action.IsValid() {
		return "", fmt.Errorf("invalid action: %s", s)
	}
	return action, nil
}
