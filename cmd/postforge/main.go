package main

import (
	"postforge/cmd/cmd"
)

func main() {
	cmd.Execute()
}
