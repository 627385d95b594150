package main

import "github.com/huey-app/huey/cmd"

func main() {
	cmd.Execute()
}
