package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "repowiki",
	Short: "Cited, confidence-scored answers to questions about a repository",
	Long: `Repowiki answers natural-language questions about a codebase by fusing
three artifacts the indexing pipeline persists: a structural call graph,
a semantic embedding index, and a keyword index. An iterative retrieval
loop decides, pass by pass, what evidence is still missing and fetches
exactly that before answering with citations.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".repowiki.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
