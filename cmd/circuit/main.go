package main

import "circuitcore/cmd/circuit/cmd"

func main() {
	cmd.Execute()
}
