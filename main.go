package main

import "matchboard/cmd"

func main() {
	cmd.Execute()
}
