package main

import "pianostore/cmd/storectl/cmd"

func main() {
	cmd.Execute()
}
