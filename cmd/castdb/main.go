package main

import "github.com/deppfellow/castdb/cmd/castdb/commands"

func main() {
	commands.Execute()
}
