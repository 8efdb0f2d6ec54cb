package main

import "github.com/maxrep/maxrep-cli/cmd/maxrep"

func main() {
	maxrep.Execute()
}
