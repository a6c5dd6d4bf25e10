package main

import "github.com/papapumpkin/cepheid/cmd"

func main() {
	cmd.Execute()
}
