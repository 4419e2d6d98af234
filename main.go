package main

import "github.com/quocvuong92/shell-ai/cmd"

func main() {
	cmd.Execute()
}
