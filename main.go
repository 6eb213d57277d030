package main

import "github.com/kinetix/kx-console/cmd"

func main() {
	cmd.Execute()
}
