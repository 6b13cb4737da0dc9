package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/5w1tchy/storyshelf/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		logrus.WithError(err).Error("storyshelf exited")
		os.Exit(1)
	}
}
