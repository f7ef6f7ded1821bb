package main

import "recipe-pipeline/cmd"

func main() {
	cmd.Execute()
}
