// Command postdeploy encrypts the Slack webhook settings under the stack's
// KMS key and writes them into the deployed function's environment.
package main

import (
	"context"
	"os"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stderr))
}
