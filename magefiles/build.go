//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

var Default = Build.Meshtool

type Build mg.Namespace

// Builds the meshtool binary into bin/.
func (Build) Meshtool() error {
	if err := os.MkdirAll("bin", 0755); err != nil {
		return err
	}
	fmt.Println("Building meshtool...")
	return sh.RunV("go", "build", "-o", filepath.Join("bin", "meshtool"), "./cmd/meshtool")
}

// Removes build output.
func Clean() error {
	return sh.Rm("bin")
}
