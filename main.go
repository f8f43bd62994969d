package main

import (
	"github.com/tieubaoca/feasibility-be/cmd"
)

func main() {
	cmd.Execute()
}
