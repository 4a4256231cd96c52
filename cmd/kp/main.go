package main

import (
	"os"

	"github.com/pengelbrecht/keypad/cmd/kp/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
