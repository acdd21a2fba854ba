//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Test mg.Namespace

// Runs the unit tests of every package except the glfw backend, which
// needs a display.
func (Test) Unit() error {
	pkgs := []string{
		"./engine",
		"./engine/core/...",
		"./engine/containers/...",
		"./engine/window/...",
		"./engine/telemetry/...",
		"./testbed/...",
	}
	_, err := executeCmd("go", withArgs(append([]string{"test", "-race", "-count=1"}, pkgs...)...), withStream())
	return err
}
