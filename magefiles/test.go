//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

type Test mg.Namespace

// Runs the unit tests.
func (Test) Unit() error {
	return sh.RunV("go", "test", "./...")
}

// Runs the tests with invariant assertions turned into panics.
func (Test) Debug() error {
	return sh.RunV("go", "test", "-tags", "meshdebug", "./...")
}

// Runs the tests with the race detector.
func (Test) Race() error {
	return sh.RunV("go", "test", "-race", "./internal/batch/...")
}

// Runs go vet.
func Lint() error {
	return sh.RunV("go", "vet", "./...")
}

// Runs vet and every test target.
func All() {
	mg.SerialDeps(Lint, Test.Unit, Test.Debug)
}
