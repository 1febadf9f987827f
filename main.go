package main

import "github.com/vendapainel/vendapainel/cmd"

func main() {
	cmd.Execute()
}
