package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a one-line status on stderr while a pack runs. Once a
// run passes a second the elapsed time is appended, since large sheets can
// take a while and a frozen frame looks like a hang.
type Spinner struct {
	out     io.Writer
	message string
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once
	started time.Time
	width   int // widest line drawn, for clearing
}

// newSpinner returns a spinner that also stops when ctx is done.
func newSpinner(ctx context.Context, message string) *Spinner {
	ctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		out:     os.Stderr,
		message: message,
		ctx:     ctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
}

// Start begins drawing frames every 80ms.
func (s *Spinner) Start() {
	s.started = time.Now()
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clear()
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

func (s *Spinner) draw(frame string) {
	line := s.message
	if elapsed := time.Since(s.started); elapsed >= time.Second {
		line += fmt.Sprintf(" %ds", int(elapsed.Seconds()))
	}
	s.width = max(s.width, len(line)+2)
	fmt.Fprintf(s.out, "\r%s %s", styleSpinner.Render(frame), StyleDim.Render(line))
}

func (s *Spinner) clear() {
	fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", s.width))
}

// Stop ends the animation and clears the line. It may be called more than
// once and before Start.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		if !s.started.IsZero() {
			<-s.stopped
		}
	})
}

// StopWithError stops the spinner and prints message as a failure.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}
