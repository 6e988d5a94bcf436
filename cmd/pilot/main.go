package main

import "pilot/cmd/pilot/root"

func main() {
	root.Execute()
}
