package main

import "github.com/okian/vaxtrack/cmd/snapshot/commands"

func main() {
	commands.Execute()
}
