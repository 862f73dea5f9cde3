package commands

import (
	"fmt"

	"github.com/meshworks/beacon/src/identity"
	"github.com/spf13/cobra"
)

var idInterface string

// NewIDCmd returns the command that prints the identity a node would run
// under, resolved from a network interface's hardware address. Useful for
// authoring peers.json.
func NewIDCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "id",
		Short: "Show the local identity",
		RunE:  showID,
	}

	cmd.Flags().StringVar(&idInterface, "interface", "", "Network interface to read the hardware address from")

	return cmd
}

func showID(cmd *cobra.Command, args []string) error {
	id, err := identity.Local(idInterface)
	if err != nil {
		return err
	}

	fmt.Println(id.String())

	return nil
}
