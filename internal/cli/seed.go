package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/quizforge/quizforge/internal/rng"
)

func init() {
	seedCmd.Flags().BoolVar(&seedDaily, "daily", false, "Derive the shared daily-challenge seed")
	seedCmd.Flags().StringVar(&seedDate, "date", "", "Date for the daily seed (YYYY-MM-DD, default today)")
	seedCmd.Flags().StringVar(&seedCategory, "category", "", "Category for the daily seed")
	rootCmd.AddCommand(seedCmd)
}

var (
	seedDaily    bool
	seedDate     string
	seedCategory string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate a random seed, or derive the daily seed",
	RunE:  runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	if seedDaily {
		date := seedDate
		if date == "" {
			date = time.Now().UTC().Format("2006-01-02")
		} else if _, err := time.Parse("2006-01-02", date); err != nil {
			return fmt.Errorf("date must be formatted YYYY-MM-DD, got %q", date)
		}
		fmt.Println(rng.DailySeed(date, seedCategory))
		return nil
	}

	seed, err := rng.NewSeed()
	if err != nil {
		return err
	}
	fmt.Println(seed)
	return nil
}
