package main

import "github.com/pitchlens/pitchlens/cmd"

func main() {
	cmd.Execute()
}
