// Mapmem - map node core for appearance-based visual SLAM.
//
// Mapmem models the signatures (pose-graph nodes) of a visual SLAM map
// and ships a small CLI for inspecting persisted map databases.
package main

import (
	"fmt"
	"os"

	"github.com/roverlab/mapmem/cmd"
)

func main() {
	cli := cmd.NewCLI()

	if err := cli.Execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
