package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/quizforge/quizforge/internal/campaign"
)

func init() {
	rootCmd.AddCommand(floorCmd)
}

var floorCmd = &cobra.Command{
	Use:   "floor <number>",
	Short: "Show the derived topology of a campaign floor",
	Args:  cobra.ExactArgs(1),
	RunE:  runFloor,
}

func runFloor(cmd *cobra.Command, args []string) error {
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("floor must be an integer, got %q", args[0])
	}

	topo, err := campaign.ResolveFloor(n)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(topo)
}
