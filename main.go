package main

import "github.com/frahmantamala/spendwise/cmd"

func main() {
	cmd.Execute()
}
