package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var recognizeCmd = &cobra.Command{
	Use:   "recognize <photo>",
	Short: "Identify foods in a photo",
	Long:  `Sends a photo to the configured recognizer and lists candidate foods by confidence.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runRecognize,
}

func init() {
	rootCmd.AddCommand(recognizeCmd)
}

func runRecognize(cmd *cobra.Command, args []string) error {
	image, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading photo: %w", err)
	}

	a, err := openApp(context.Background())
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.GetRecognizerTimeout())
	defer cancel()

	fmt.Println("Analyzing photo...")
	candidates, err := a.recognizer().Recognize(ctx, image)
	if err != nil {
		return fmt.Errorf("recognizing photo: %w", err)
	}

	fmt.Printf("%-20s  %5s  %6s  %6s  %6s  %6s\n", "Food", "Conf", "kcal", "Carbs", "Prot", "Fat")
	fmt.Println("------------------------------------------------------------")
	for _, c := range candidates {
		fmt.Printf("%-20s  %4.0f%%  %6.0f  %6.0f  %6.0f  %6.0f\n",
			c.Name, c.Confidence*100, c.Macros.Calories, c.Macros.Carbs, c.Macros.Protein, c.Macros.Fat)
	}
	return nil
}
