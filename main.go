package main

import "github.com/mrds-es/minedist/cmd"

func main() {
	cmd.Execute()
}
