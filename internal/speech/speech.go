// Package speech wraps a platform text-to-speech command as a two-state
// resource: idle or speaking. Starting while speaking cancels the prior
// utterance; the observer for the canceled turn fires so its UI toggle
// resets.
package speech

import (
	"context"
	"os/exec"
	"sync"
)

// State of the speaker.
type State int

const (
	Idle State = iota
	Speaking
)

// Runner executes one utterance and blocks until it finishes or the
// context is canceled. The default runner shells out to the first
// available platform TTS command.
type Runner interface {
	Speak(ctx context.Context, text, lang string) error
}

// Speaker serializes utterances: at most one is in flight.
type Speaker struct {
	mu         sync.Mutex
	runner     Runner
	state      State
	generation int
	cancel     context.CancelFunc
	onDone     func()
}

// New builds a Speaker. A nil runner selects the platform default.
func New(runner Runner) *Speaker {
	if runner == nil {
		runner = &execRunner{}
	}
	return &Speaker{runner: runner}
}

// Available reports whether a TTS backend exists on this system.
func (s *Speaker) Available() bool {
	if r, ok := s.runner.(*execRunner); ok {
		return r.command() != ""
	}
	return true
}

// State returns the current speaker state.
func (s *Speaker) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start begins speaking text, canceling any utterance already in flight.
// done runs exactly once when this utterance finishes, fails, or is
// canceled by a later Start or Cancel.
func (s *Speaker) Start(text, lang string, done func()) {
	s.mu.Lock()
	displaced := s.cancelLocked()
	s.generation++
	generation := s.generation
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.state = Speaking
	s.onDone = done
	s.mu.Unlock()
	if displaced != nil {
		displaced()
	}

	go func() {
		s.runner.Speak(ctx, text, lang)
		s.mu.Lock()
		var notify func()
		if s.generation == generation {
			s.state = Idle
			s.cancel = nil
			notify = s.onDone
			s.onDone = nil
		}
		s.mu.Unlock()
		if notify != nil {
			notify()
		}
	}()
}

// Cancel stops the current utterance, if any, and resets to idle.
func (s *Speaker) Cancel() {
	s.mu.Lock()
	notify := s.cancelLocked()
	s.mu.Unlock()
	if notify != nil {
		notify()
	}
}

// cancelLocked tears down the in-flight utterance and returns its
// observer so the caller can fire it outside the lock.
func (s *Speaker) cancelLocked() func() {
	if s.state != Speaking {
		return nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.generation++
	s.state = Idle
	notify := s.onDone
	s.onDone = nil
	return notify
}

// execRunner speaks through whichever TTS command the system provides.
type execRunner struct {
	once sync.Once
	cmd  string
}

func (r *execRunner) command() string {
	r.once.Do(func() {
		for _, candidate := range []string{"say", "espeak-ng", "espeak"} {
			if path, err := exec.LookPath(candidate); err == nil {
				r.cmd = path
				break
			}
		}
	})
	return r.cmd
}

func (r *execRunner) Speak(ctx context.Context, text, lang string) error {
	cmd := r.command()
	if cmd == "" || text == "" {
		return nil
	}
	var args []string
	switch {
	case lang != "" && lang != "en":
		// espeak takes a voice flag; the macOS say command picks voices
		// itself, so the flag is only added for espeak variants.
		if cmd != "say" {
			args = append(args, "-v", lang)
		}
	}
	args = append(args, text)
	return exec.CommandContext(ctx, cmd, args...).Run()
}
