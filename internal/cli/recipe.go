package cli

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/quizforge/quizforge/internal/recipe"
)

func init() {
	recipeCmd.Flags().IntVar(&recipeQuestions, "questions", 0, "Pin the question count (5 or 10)")
	recipeCmd.Flags().StringVar(&recipeDifficulty, "difficulty", "", "Pin every question's difficulty (easy, medium, hard)")
	rootCmd.AddCommand(recipeCmd)
}

var (
	recipeQuestions  int
	recipeDifficulty string
)

var recipeCmd = &cobra.Command{
	Use:   "recipe <seed>",
	Short: "Derive the generation recipe for a seed",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecipe,
}

func runRecipe(cmd *cobra.Command, args []string) error {
	rec, err := recipe.Build(args[0], &recipe.Options{
		FixedNumQuestions: recipeQuestions,
		Difficulty:        recipeDifficulty,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}
