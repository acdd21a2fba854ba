package testbed

import (
	"fmt"
	"io"

	"github.com/spaghettifunk/landan/engine"
)

// NewHelloApplication builds the basic demo: one update that writes a
// greeting to out.
func NewHelloApplication(out io.Writer) *engine.Application {
	app := engine.NewBasicApplication("Landan Hello")
	app.FnUpdate = func(deltaTime float64) error {
		_, err := fmt.Fprintf(out, "hello from %s\n", app.Name)
		return err
	}
	return app
}
