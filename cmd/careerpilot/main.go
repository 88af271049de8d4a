package main

import "careerpilot/internal/cli"

func main() {
	cli.Execute()
}
