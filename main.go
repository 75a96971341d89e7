package main

import "github.com/planyist/tasktory/cmd"

func main() {
	cmd.Execute()
}
