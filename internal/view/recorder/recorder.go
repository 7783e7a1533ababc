// Package recorder provides a View that remembers what it was told to
// render. The HTTP transport returns the recording as its response body.
package recorder

import (
	"sync"

	"github.com/idilsaglam/todomvc/internal/view"
)

// Call is one render command with its params.
type Call struct {
	Command view.Command `json:"command"`
	Params  any          `json:"params,omitempty"`
}

type View struct {
	view.Registry

	mu    sync.Mutex
	calls []Call
}

func New() *View { return &View{} }

func (v *View) Render(cmd view.Command, params any) {
	v.mu.Lock()
	v.calls = append(v.calls, Call{Command: cmd, Params: params})
	v.mu.Unlock()
}

// Calls returns a copy of the recorded renders in order.
func (v *View) Calls() []Call {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]Call{}, v.calls...)
}

// Commands returns just the command names, in order.
func (v *View) Commands() []view.Command {
	calls := v.Calls()
	out := make([]view.Command, len(calls))
	for i, c := range calls {
		out[i] = c.Command
	}
	return out
}

// Rendered reports whether cmd was rendered at least once.
func (v *View) Rendered(cmd view.Command) bool {
	for _, c := range v.Calls() {
		if c.Command == cmd {
			return true
		}
	}
	return false
}

func (v *View) Reset() {
	v.mu.Lock()
	v.calls = nil
	v.mu.Unlock()
}
