package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/matzehuels/modlaunch/pkg/observability"
)

// spinnerOut is where spinners draw. Tests replace it.
var spinnerOut io.Writer = os.Stderr

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a status line while a long step runs. It draws only when
// its writer is a terminal; otherwise every method is a no-op apart from
// the final success or error line.
type Spinner struct {
	w       io.Writer
	enabled bool
	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	started atomic.Bool
	once    sync.Once

	mu      sync.Mutex
	message string
	width   int
}

// newSpinner creates a spinner on spinnerOut that stops when ctx is done.
func newSpinner(ctx context.Context, message string) *Spinner {
	return newSpinnerOn(ctx, spinnerOut, isTerminal(spinnerOut), message)
}

func newSpinnerOn(ctx context.Context, w io.Writer, enabled bool, message string) *Spinner {
	sctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		w:       w,
		enabled: enabled,
		parent:  ctx,
		ctx:     sctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
		message: message,
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Start begins the animation.
func (s *Spinner) Start() {
	if s.started.Swap(true) {
		return
	}
	if !s.enabled {
		close(s.stopped)
		return
	}
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

// SetMessage replaces the text shown next to the animation.
func (s *Spinner) SetMessage(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

func (s *Spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := styleIconSpinner.Render(frame) + " " + StyleDim.Render(s.message)
	n := len(s.message) + 2
	pad := ""
	if s.width > n {
		pad = strings.Repeat(" ", s.width-n)
	}
	s.width = max(s.width, n)
	fmt.Fprintf(s.w, "\r%s%s", line, pad)
}

func (s *Spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
	}
}

// Stop ends the animation and clears the line. It may be called more than once.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		if s.started.Load() {
			<-s.stopped
		}
	})
}

// StopWithSuccess stops the spinner and prints a success line.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops the spinner and prints an error line.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the context the spinner was created with ended.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}

// =============================================================================
// Scan progress
// =============================================================================

// scanProgress counts archives as the scanner reports them and shows the
// count on a spinner.
type scanProgress struct {
	observability.NoopScanHooks
	sp       *Spinner
	archives atomic.Int64
}

func (p *scanProgress) OnArchive(ctx context.Context, path string, err error) {
	n := p.archives.Add(1)
	p.sp.SetMessage(fmt.Sprintf("Scanning modules (%d archives)", n))
}

// trackScan shows a spinner while fn scans, when stderr is a terminal.
func trackScan(ctx context.Context, fn func() error) error {
	sp := newSpinner(ctx, "Scanning modules")
	if !sp.enabled {
		return fn()
	}
	prev := observability.Scan()
	observability.SetScanHooks(&scanProgress{sp: sp})
	defer observability.SetScanHooks(prev)

	sp.Start()
	defer sp.Stop()
	return fn()
}
