package utils

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// HandleInterrupt exits the process with status 1 on SIGINT or SIGTERM.
// Nothing is cleaned up: an interrupted run has to start over from the wipe.
// The returned stop can be called any number of times.
func HandleInterrupt(exit func(int)) (stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		select {
		case sig := <-ch:
			Log.Warn().Str("signal", sig.String()).Msg("Interrupted, the target disk may be left half provisioned")
			exit(1)
		case <-done:
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(ch)
			close(done)
		})
	}
}
