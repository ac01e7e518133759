package main

import "github.com/actionsum/hostprobe/internal/cli"

func main() {
	cli.Execute()
}
