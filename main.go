package main

import "github.com/ridgeline-games/terrain-builder/cmd"

func main() {
	cmd.Execute()
}
