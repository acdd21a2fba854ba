/*
This is an example of application that will use the
engine package to test things out
*/
package main

import (
	"flag"
	"os"

	"github.com/spaghettifunk/landan/engine"
	"github.com/spaghettifunk/landan/engine/core"
	"github.com/spaghettifunk/landan/engine/platform"
	"github.com/spaghettifunk/landan/testbed"
)

func main() {
	basic := flag.Bool("basic", false, "Run the windowless hello application instead of the windowed testbed.")
	configPath := flag.String("config", "", "TOML file overlaid on the application defaults.")
	watch := flag.Bool("watch", false, "Reload frame_rate and log_level when the config file changes.")
	runFor := flag.Float64("run-for", 0, "Quit the windowed testbed after this many milliseconds (0 = until closed).")
	flag.Parse()

	var opts []engine.Option
	if *configPath != "" {
		opts = append(opts, engine.WithConfigFile(*configPath))
		if *watch {
			opts = append(opts, engine.WithConfigWatch())
		}
	}

	var app *engine.Application
	if *basic {
		app = testbed.NewHelloApplication(os.Stdout)
	} else {
		app = testbed.NewTestGame(*runFor).Application
		opts = append(opts, engine.WithWindowBackend(platform.New()))
	}

	if err := engine.Main(app, opts...); err != nil {
		core.LogFatal("%s", err)
	}
}
