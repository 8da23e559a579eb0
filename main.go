package main

import "github.com/illarion/lockfs/cmd"

func main() {
	cmd.Execute()
}
