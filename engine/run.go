package engine

import (
	"errors"
	"os"
	"os/signal"
	"syscall"
)

// Main drives app through the whole lifecycle. SIGINT and SIGTERM raise the
// quit flag so the run loop ends and the application is destroyed.
func Main(app *Application, opts ...Option) error {
	e, err := New(app, opts...)
	if err != nil {
		return err
	}
	if err := e.Initialize(); err != nil {
		return err
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigCh)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-sigCh:
			e.Quit()
		case <-done:
		}
	}()

	if err := e.Prepare(); err != nil {
		return errors.Join(err, e.Stop())
	}
	runErr := e.Run()
	return errors.Join(runErr, e.Stop())
}
