package main

import "github.com/lapeyrade/portfolio/cmd"

func main() {
	cmd.Execute()
}
