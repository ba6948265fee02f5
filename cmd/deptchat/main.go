// Command deptchat mirrors a department's document bucket, keeps a
// vector index over it, and answers questions grounded in the documents.
package main

import (
	"fmt"
	"os"

	"github.com/campus-labs/deptchat/internal/adapters/driving/cli"
)

// version is injected at build time via -ldflags.
var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
