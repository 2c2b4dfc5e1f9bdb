package main

import (
	"context"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
)

var (
	GitCommit string
	GitTag    string
	BuildTime string
)

// @title           Bookshelf API
// @version         1.0
// @description     Personal book collection tracker.
// @host            localhost:8080
// @BasePath        /
func main() {
	version := GitTag
	if version == "" {
		version = "dev"
	}

	if err := fang.Execute(
		context.Background(),
		NewRootCmd(),
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	); err != nil {
		os.Exit(1)
	}
}
