package main

import "github.com/courtside-app/courtside/cli/internal/cmd"

func main() {
	cmd.Execute()
}
