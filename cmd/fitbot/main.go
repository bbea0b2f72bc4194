// Command fitbot is a terminal client and web proxy for the FitBot answer service.
package main

import "github.com/diogo/fitbot/internal/commands"

func main() {
	commands.Execute()
}
