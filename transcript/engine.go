package transcript

import (
	"bufio"
	"context"
	"os/exec"
	"strings"
)

// Event is one emission from a recognition engine.
type Event struct {
	Fragments []Fragment
	// Err is a fatal engine error; the engine emits nothing after it.
	Err error
	// End signals natural end-of-speech.
	End bool
}

// Engine is the speech-to-text boundary. Start begins a recording and
// returns the event stream; Stop ends it. Implementations close the channel
// once the recording is over.
type Engine interface {
	Start(ctx context.Context, locale string) (<-chan Event, error)
	Stop()
}

// CommandEngine adapts an external transcriber command (for example a
// whisper CLI in streaming mode) into an Engine. Every line the command
// prints to stdout is treated as a finalized fragment. The locale is passed
// as the command's final argument.
type CommandEngine struct {
	command string
	cancel  context.CancelFunc
}

// NewCommandEngine builds an engine around the configured command. An empty
// command means the environment offers no speech capability.
func NewCommandEngine(command string) *CommandEngine {
	return &CommandEngine{command: command}
}

// Start launches the transcriber. Fails fast with ErrUnavailable when no
// command is configured.
func (e *CommandEngine) Start(ctx context.Context, locale string) (<-chan Event, error) {
	if strings.TrimSpace(e.command) == "" {
		return nil, ErrUnavailable
	}

	runCtx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(runCtx, "sh", "-c", e.command+" "+locale)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, err
	}
	e.cancel = cancel

	events := make(chan Event)
	go func() {
		defer close(events)
		defer cancel()

		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			select {
			case events <- Event{Fragments: []Fragment{{Text: line, Final: true}}}:
			case <-runCtx.Done():
				_ = cmd.Wait()
				return
			}
		}

		err := cmd.Wait()
		if runCtx.Err() != nil {
			// Stopped by the user; closing the channel is the end signal.
			return
		}
		if err != nil {
			events <- Event{Err: err}
			return
		}
		events <- Event{End: true}
	}()
	return events, nil
}

// Stop terminates the transcriber process, if one is running.
func (e *CommandEngine) Stop() {
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}
