//go:build mage

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

// run invokes the built CLI binary with the given arguments.
func run(args ...string) error {
	cmd := exec.Command(filepath.Join(binDir, binName), args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Classify maps a dataset's raw identifiers to CURIEs and writes compendia.
func Classify(dataset, nodesFile string) error {
	mg.Deps(Build)
	return run("classify", dataset, nodesFile, "--out-dir", "compendia")
}

// Normalize resolves a compendia file through the normalization service.
func Normalize(dataset string) error {
	mg.Deps(Build)
	return run("normalize",
		filepath.Join("compendia", dataset+"_compendia.jsonl"),
		"--out", filepath.Join("normalized", dataset+".json"))
}

// Combine merges two normalized collections under the union strategy.
func Combine(left, right string) error {
	mg.Deps(Build)
	return run("combine",
		fmt.Sprintf("%s=%s", left, filepath.Join("normalized", left+".json")),
		fmt.Sprintf("%s=%s", right, filepath.Join("normalized", right+".json")),
		"--out", filepath.Join("combined", "combined.json"),
		"--stats")
}

// Validate checks the combined collection for structural problems.
func Validate() error {
	mg.Deps(Build)
	return run("validate", filepath.Join("combined", "combined.json"))
}
