package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/gompdf/img2pdf/internal/cli"
)

var version = "0.1.0"

func main() {
	cli.Version = version
	root := cli.NewRootCmd()

	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, os.Kill),
	); err != nil {
		os.Exit(1)
	}
}
