package models

import (
	"errors"
	"fmt"
)

// Action is the kind of resolution applied to the duplicates of a group.
type Action int

const (
	// ActionReport surfaces the group without touching the filesystem.
	ActionReport Action = iota
	// ActionDelete removes every duplicate, keeping only the keeper.
	ActionDelete
	// ActionMove relocates every duplicate into a target directory.
	ActionMove
	// ActionHardLink links every duplicate's name in the target directory
	// to the keeper, then removes the duplicate.
	ActionHardLink
)

// String returns the action name as used on the command line.
func (a Action) String() string {
	switch a {
	case ActionReport:
		return "report"
	case ActionDelete:
		return "delete"
	case ActionMove:
		return "move"
	case ActionHardLink:
		return "link"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// ParseAction maps a command-line action name to an Action.
func ParseAction(s string) (Action, error) {
	switch s {
	case "report", "":
		return ActionReport, nil
	case "delete":
		return ActionDelete, nil
	case "move":
		return ActionMove, nil
	case "link", "hardlink":
		return ActionHardLink, nil
	default:
		return ActionReport, fmt.Errorf("unknown action %q", s)
	}
}

// ErrTargetRequired is returned by Policy.Validate when a policy that
// relocates files was built without a target directory.
var ErrTargetRequired = errors.New("policy requires a target directory")

// Policy selects how the duplicates of a group are resolved. Move and
// HardLink carry a required destination directory; the other actions
// ignore TargetDir.
type Policy struct {
	Action    Action
	TargetDir string
}

// Validate checks that the policy is internally consistent.
func (p Policy) Validate() error {
	if (p.Action == ActionMove || p.Action == ActionHardLink) && p.TargetDir == "" {
		return fmt.Errorf("%s: %w", p.Action, ErrTargetRequired)
	}
	return nil
}

// Outcome is the per-file result of applying a policy to one duplicate.
// A failed outcome never stops the processing of the remaining members
// of the group.
type Outcome struct {
	Path    string `json:"path" yaml:"path"`
	Action  Action `json:"-" yaml:"-"`
	NewPath string `json:"new_path,omitempty" yaml:"new_path,omitempty"`
	Err     error  `json:"-" yaml:"-"`
}

// OK reports whether the action succeeded for this file.
func (o Outcome) OK() bool {
	return o.Err == nil
}
