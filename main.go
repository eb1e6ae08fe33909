package main

import "matcha/cmd"

func main() {
	cmd.Execute()
}
