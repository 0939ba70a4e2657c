// Package transcript merges incremental speech-recognition fragments into
// final input text. The accumulator is an explicit state machine so that
// cancellation and concurrent-start handling are testable without any
// timing-dependent engine mocks.
package transcript

import (
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrUnavailable is returned when the host environment offers no
	// speech-recognition capability. Surfaced as a notice, never a crash.
	ErrUnavailable = errors.New("speech recognition is not available")

	// ErrAlreadyListening rejects a second start while recording.
	ErrAlreadyListening = errors.New("already listening")
)

// State of the accumulator.
type State int

const (
	StateIdle State = iota
	StateListening
)

// Fragment is one piece of recognized speech. Only final fragments are ever
// committed; interim fragments are display-only.
type Fragment struct {
	Text  string
	Final bool
}

// Accumulator folds recognition fragments into a text buffer. All methods
// are called from a single goroutine (the UI update loop).
type Accumulator struct {
	state     State
	committed string
	interim   string
}

// NewAccumulator seeds the buffer with whatever the user has already typed,
// so recognized speech appends rather than replaces.
func NewAccumulator(seed string) *Accumulator {
	return &Accumulator{committed: seed}
}

// State returns the current state.
func (a *Accumulator) State() State { return a.state }

// Listening reports whether a recording is in progress.
func (a *Accumulator) Listening() bool { return a.state == StateListening }

// Start transitions idle -> listening. Starting while already listening is
// rejected without any state change.
func (a *Accumulator) Start() error {
	if a.state == StateListening {
		return ErrAlreadyListening
	}
	a.state = StateListening
	a.interim = ""
	return nil
}

// Result folds a recognition event into the accumulator. Final fragments are
// appended to the committed buffer with a single separating space; interim
// fragments replace the display-only interim text. Events arriving while
// idle are discarded.
func (a *Accumulator) Result(fragments ...Fragment) {
	if a.state != StateListening {
		return
	}
	var interim []string
	for _, f := range fragments {
		if f.Text == "" {
			continue
		}
		if f.Final {
			a.committed = Fold(a.committed, f.Text)
			continue
		}
		interim = append(interim, f.Text)
	}
	a.interim = strings.Join(interim, " ")
}

// Stop transitions back to idle. Explicit stop, engine error and natural
// end-of-speech all converge here: committed text is kept, interim text is
// discarded.
func (a *Accumulator) Stop() {
	a.state = StateIdle
	a.interim = ""
}

// Committed returns the buffer of finalized text.
func (a *Accumulator) Committed() string { return a.committed }

// Interim returns the display-only text of the fragment in progress.
func (a *Accumulator) Interim() string { return a.interim }

// Preview returns what the input box should display while listening:
// committed text plus the in-flight interim fragment.
func (a *Accumulator) Preview() string {
	if a.interim == "" {
		return a.committed
	}
	return Fold(a.committed, a.interim)
}

// Fold appends text to a buffer with a single separating space when the
// buffer is non-empty.
func Fold(buffer, text string) string {
	if buffer == "" {
		return text
	}
	return buffer + " " + text
}
