package main

import "github.com/TaniaZeidan/NutriTrackAI/internal/cli"

func main() {
	cli.Execute()
}
