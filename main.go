package main

import "github.com/jfmyers9/brainzbot/cmd"

func main() {
	cmd.Execute()
}
