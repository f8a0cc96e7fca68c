package main

import "github.com/twiced-technology-gmbh/notnow/cmd"

func main() {
	cmd.Execute()
}
