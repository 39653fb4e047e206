package main

import "github.com/fakeyudi/devpulse/cmd"

func main() {
	cmd.Execute()
}
