package main

import (
	"github.com/robotalks/truetouch/pkg/cli/sh"
	env "github.com/robotalks/truetouch/pkg/env/connector"
)

//go-build: CGO_ENABLED=0

func init() {
	env.SetupFlags()
}

func main() {
	sh.Main()
}
