package main

import "github.com/papapumpkin/sysarch/cmd"

func main() {
	cmd.Execute()
}
