package main

import (
	"github.com/RyanBlaney/sonido-scribe/cmd"
)

func main() {
	cmd.Execute()
}
