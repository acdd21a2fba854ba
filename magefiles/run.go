//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Runs the windowed testbed with the sample config.
func (Run) Testbed() error {
	fmt.Println("Run testbed...")
	if _, err := executeCmd("go", withArgs("run", ".", "-config", "assets/config/testbed.toml", "-watch"), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs the windowless hello application.
func (Run) Hello() error {
	if _, err := executeCmd("go", withArgs("run", ".", "-basic"), withStream()); err != nil {
		return err
	}
	return nil
}
