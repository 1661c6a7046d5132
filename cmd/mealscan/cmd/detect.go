package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"meal_backend/internal/app/di"
	"meal_backend/internal/feature/mealdetection/domain/entity"
	"meal_backend/internal/feature/mealdetection/transport/handler"
)

var detectCmd = &cobra.Command{
	Use:   "detect <image>",
	Short: "Detect the foods in a meal photo",
	Long: `Run the detection pipeline on a local image and print the same JSON
envelope that POST /v1/meals/detect returns.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		imageData, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}
		mode, _ := cmd.Flags().GetString("mode")

		meal, err := di.NewMealDetection(cmd.Context(), globalConfig, nil, nil)
		if err != nil {
			return err
		}
		defer meal.Close()

		res, err := meal.Usecase.Detect(cmd.Context(), imageData, entity.Mode(mode))
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(handler.ToDetectResponse(res))
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
	detectCmd.Flags().String("mode", "", "primary-first or secondary-first (default from detection.secondary_first)")
}
