// Package responder implements the scripted assistant that lives in the room.
// Two engines exist and a deployment runs exactly one of them.
package responder

import (
	"fmt"
	"math/rand/v2"
	"time"

	"jamp-chat/internal/msgcat"
	"jamp-chat/pkg/logger"
)

const (
	ModeTemplate = "template"
	ModeKeyword  = "keyword"
)

// Responder produces reply text. Category selection is deterministic for a given
// input; the wording inside a category comes from the Picker.
type Responder interface {
	// Directed answers "@bot question". deferred is false only for the usage hint.
	Directed(sender, question string) (reply string, deferred bool)
	// Mentioned answers a message that mentions the bot anywhere.
	Mentioned(sender, text string) string
	// Greeting is sent privately to a user right after they join.
	Greeting(sender string) string
}

// Forgetter is implemented by engines that remember senders; the room calls it when
// a sender leaves.
type Forgetter interface {
	Forget(sender string)
}

// Picker chooses an index in [0, n).
type Picker interface {
	Pick(n int) int
}

type PickerFunc func(n int) int

func (f PickerFunc) Pick(n int) int { return f(n) }

// RandomPicker draws uniformly from math/rand/v2.
var RandomPicker Picker = PickerFunc(func(n int) int { return rand.IntN(n) })

// Names are the reserved display names templates refer to.
type Names struct {
	Bot   string
	Movie string
}

// Vars is the data every reply template is rendered with.
type Vars struct {
	Sender string
	Bot    string
	Movie  string
	Now    string
}

// New builds the engine selected by mode.
func New(mode string, cat *msgcat.Catalog, names Names, picker Picker, clock func() time.Time) (Responder, error) {
	switch mode {
	case ModeTemplate, "":
		return NewTemplate(cat, names, picker), nil
	case ModeKeyword:
		return NewKeyword(cat, names, picker, clock), nil
	default:
		return nil, fmt.Errorf("unknown responder mode %q", mode)
	}
}

type renderer struct {
	cat    *msgcat.Catalog
	names  Names
	picker Picker
}

func (r renderer) vars(sender string) Vars {
	return Vars{Sender: sender, Bot: r.names.Bot, Movie: r.names.Movie}
}

// pick renders a random entry of the pool under key. A broken template is logged
// and replaced by a neutral line so the room still gets an answer.
func (r renderer) pick(key string, v Vars) string {
	n := r.cat.Len(key)
	if n == 0 {
		logger.Error("Reply pool %s is empty", key)
		return "收到。"
	}
	i := r.picker.Pick(n)
	out, err := r.cat.RenderAt(key, i, v)
	if err != nil {
		logger.Error("Error rendering reply %s[%d]: %v", key, i, err)
		return "收到。"
	}
	return out
}
