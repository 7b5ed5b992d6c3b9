package main

import (
	"github.com/paul-soporan/relmon/cmd/relmon/cmd"
)

func main() {
	cmd.Execute()
}
