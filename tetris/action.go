package tetris

import (
	"fmt"
	"strings"
)

// Action is a single input applied to the current piece
type Action int

const (
	Rotate Action = iota
	Left
	Right
	// Continue terminates a sequence without moving the piece
	Continue
	// AdvanceToNextPiece hard drops the current piece and brings in the next one
	AdvanceToNextPiece
)

var actionNames = map[Action]string{
	Rotate:             "ROTATE",
	Left:               "LEFT",
	Right:              "RIGHT",
	Continue:           "CONTINUE",
	AdvanceToNextPiece: "ADVANCE_TO_NEXT_PIECE",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

func (a Action) MarshalText() ([]byte, error) {
	name, ok := actionNames[a]
	if !ok {
		return nil, fmt.Errorf("unknown action: %d", int(a))
	}
	return []byte(name), nil
}

func (a *Action) UnmarshalText(text []byte) error {
	for action, name := range actionNames {
		if name == string(text) {
			*a = action
			return nil
		}
	}
	return fmt.Errorf("unknown action: %s", string(text))
}

// Sequence is the ordered list of actions applied to one piece before it locks
type Sequence []Action

func (s Sequence) String() string {
	names := make([]string, len(s))
	for i, a := range s {
		names[i] = a.String()
	}
	return "[" + strings.Join(names, ",") + "]"
}

func (s Sequence) Equal(other Sequence) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Plan is a lookahead pair: the sequence for the current piece and,
// optionally, the sequence for the next piece.
type Plan struct {
	First  Sequence `json:"first"`
	Second Sequence `json:"second,omitempty"`
}

// IsLookahead is true when the plan includes a sequence for the next piece
func (p Plan) IsLookahead() bool {
	return p.Second != nil
}

// Flatten renders the plan as a single sequence, separating the two pieces
// with AdvanceToNextPiece
func (p Plan) Flatten() Sequence {
	if !p.IsLookahead() {
		out := make(Sequence, len(p.First))
		copy(out, p.First)
		return out
	}
	out := make(Sequence, 0, len(p.First)+len(p.Second)+1)
	out = append(out, p.First...)
	out = append(out, AdvanceToNextPiece)
	out = append(out, p.Second...)
	return out
}

func (p Plan) String() string {
	return p.Flatten().String()
}
