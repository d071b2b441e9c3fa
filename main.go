/*
	Copyright 2025 Markus Papenbrock
*/

package main

import "github.com/mpapenbr/garage61-mcp-go/cmd"

func main() {
	cmd.Execute()
}
