package main

import "cloudtrail-explorer/internal/cmd"

func main() {
	cmd.Execute()
}
