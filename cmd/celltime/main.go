package main

import "github.com/MeKo-Tech/celltime/cmd/celltime/cmd"

func main() {
	cmd.Execute()
}
