//go:build !windows

// Package stderr captures output that C libraries (ALSA, faad2) write
// directly to file descriptor 2, bypassing Go's os.Stderr, and forwards each
// line to a logger so it cannot corrupt the terminal UI.
package stderr

import (
	"bufio"
	"io"
	"os"
	"strings"
	"sync"
	"syscall"

	"github.com/rs/zerolog"
)

// Capture redirects fd 2 until Stop is called.
type Capture struct {
	orig      int
	pipeRead  *os.File
	pipeWrite *os.File
	done      chan struct{}
	stopOnce  sync.Once
}

// Start begins capturing stderr output into log at Warn level.
// Must be called early in main(), before any C library initialization.
// On error the program can continue; output then goes to the original stderr.
func Start(log zerolog.Logger) (*Capture, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}

	orig, err := syscall.Dup(int(os.Stderr.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return nil, err
	}

	if err := syscall.Dup2(int(w.Fd()), int(os.Stderr.Fd())); err != nil {
		syscall.Close(orig)
		r.Close()
		w.Close()
		return nil, err
	}

	c := &Capture{orig: orig, pipeRead: r, pipeWrite: w, done: make(chan struct{})}
	go c.forward(r, log)
	return c, nil
}

func (c *Capture) forward(r io.Reader, log zerolog.Logger) {
	defer close(c.done)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			log.Warn().Str("source", "stderr").Msg(line)
		}
	}
}

// Stop restores the original stderr and waits for buffered lines to be logged.
func (c *Capture) Stop() {
	if c == nil {
		return
	}
	c.stopOnce.Do(func() {
		_ = syscall.Dup2(c.orig, int(os.Stderr.Fd()))
		_ = syscall.Close(c.orig)
		// fd 2 no longer references the pipe, so closing the write end ends the scan
		c.pipeWrite.Close()
		<-c.done
		c.pipeRead.Close()
	})
}
