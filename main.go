package main

import (
	"github.com/AvaProtocol/userop-gas/cmd"
)

func main() {
	cmd.Execute()
}
