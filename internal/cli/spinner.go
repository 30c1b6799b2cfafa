package cli

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// spinner animates a label on a terminal line until stopped.
type spinner struct {
	w     io.Writer
	label string
	stop  chan struct{}
	done  chan struct{}
	once  sync.Once
}

// startSpinner starts a spinner on w when w is a terminal and silent is
// false. The returned function stops it and clears the line; it is safe to
// call more than once.
func startSpinner(w io.Writer, label string, silent bool) func() {
	if silent || !isTerminal(w) {
		return func() {}
	}
	s := &spinner{
		w:     w,
		label: label,
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go s.run()
	return s.Stop
}

func (s *spinner) run() {
	defer close(s.done)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for frame := 0; ; frame = (frame + 1) % len(spinnerFrames) {
		fmt.Fprintf(s.w, "\r%s %s", spinnerFrames[frame], s.label)
		select {
		case <-s.stop:
			fmt.Fprint(s.w, "\r\033[K")
			return
		case <-ticker.C:
		}
	}
}

// Stop halts the animation and waits for the line to be cleared.
func (s *spinner) Stop() {
	s.once.Do(func() {
		close(s.stop)
		<-s.done
	})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
