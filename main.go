package main

import (
	"os"

	"github.com/chris-regnier/daybook/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
