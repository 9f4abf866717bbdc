// cmd/tlmbench/main.go
package main

import (
	cmd "tlmbench/internal/cli"
)

// main starts the tlmbench CLI by delegating to the cobra root command
// defined in the cli package.
func main() {
	cmd.Execute()
}
