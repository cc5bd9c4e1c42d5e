package main

import "notion-sync/cmd"

func main() {
	cmd.Execute()
}
