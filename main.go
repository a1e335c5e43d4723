package main

import "payqr/cmd"

func main() {
	cmd.Execute()
}
