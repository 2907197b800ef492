package main

import "github.com/josephlewis42/ash/cmd"

func main() {
	cmd.Execute()
}
