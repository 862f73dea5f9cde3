package commands

import (
	"github.com/meshworks/beacon/src/config"
	"github.com/spf13/cobra"
)

var _config = config.NewDefaultConfig()

// RootCmd is the root command for beacon
var RootCmd = &cobra.Command{
	Use:              "beacon",
	Short:            "gossip status dissemination for broadcast radio nodes",
	TraverseChildren: true,
}
