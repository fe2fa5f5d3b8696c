package main

import "github.com/jsphweid/ornamentum/cmd"

func main() {
	cmd.Execute()
}
