package main

import "github.com/pulumi/json-equals/cmd"

func main() {
	cmd.Execute()
}
