package main

import (
	"os"

	"github.com/yeremiapane/waitlist-app/cli"
	"github.com/yeremiapane/waitlist-app/utils"
)

func main() {
	if err := cli.Execute(); err != nil {
		utils.ErrorLogger.Error(err)
		os.Exit(1)
	}
}
