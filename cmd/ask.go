package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"repowiki/internal/config"
)

var askSessionID string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a one-shot question about the repository",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.Join(args, " ")

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		c, err := buildCore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer c.database.Close()

		out, err := c.engine.Ask(cmd.Context(), question, askSessionID, func(stage string) {
			if verbose {
				fmt.Printf("[%s]\n", stage)
			}
		})
		if err != nil {
			return fmt.Errorf("answering: %w", err)
		}

		a := c.assembler.Assemble(cmd.Context(), out)

		fmt.Println(a.Answer)
		fmt.Println()
		if len(a.Citations) > 0 {
			fmt.Println("Sources:")
			for _, cit := range a.Citations {
				line := "  - " + cit.Path
				if cit.Lines != "" {
					line += ":" + cit.Lines
				}
				fmt.Println(line)
			}
		}
		fmt.Printf("\nConfidence: %s (%d pass(es), %d result(s) used)\n",
			a.Confidence, out.Passes, a.Quality.ResultsUsed)
		fmt.Println(a.Disclaimer)
		if verbose {
			fmt.Printf("Session: %s\n", a.SessionID)
		}
		return nil
	},
}

func init() {
	askCmd.Flags().StringVar(&askSessionID, "session", "", "continue an existing conversation")
	rootCmd.AddCommand(askCmd)
}
