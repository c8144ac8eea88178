package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"gosleuth/internal/config"
	"gosleuth/internal/container"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gosleuth-cli",
		Short: "GoSleuth CLI for analyzing images from the command line",
	}

	rootCmd.AddCommand(newScanCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newScanCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "scan [image-file]",
		Short: "Run the full detection ensemble against one image file",
		Long: `Scan decodes one JPEG/PNG/WEBP file, fans it out to both classifier
agents and all forensic modules, and prints the fused verdict with the
analysis log.

Example: gosleuth-cli scan ./suspect.jpg --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			c, err := container.New(cfg)
			if err != nil {
				return err
			}

			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			result, err := c.Analysis.Analyze(cmd.Context(), raw)
			if err != nil {
				return fmt.Errorf("analyze %s: %w", args[0], err)
			}

			if asJSON {
				out, err := json.MarshalIndent(result.Wire(), "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(out))
				return nil
			}

			fmt.Printf("Verdict: %s (%s)\n\n", result.Verdict, result.ConfidenceScore)
			for _, line := range result.Analysis {
				fmt.Println(line)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the wire-format JSON instead of the log")
	return cmd
}
