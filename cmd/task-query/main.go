// cmd/task-query/main.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"task-query-workers/internal/common/config"
)

// Version is set at build time.
var Version = "dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "task-query",
	Short: "Natural-language questions over tasks, workloads and project risk",
	Long: `task-query answers free-text questions such as "show Bob's overdue tasks"
against the task directory. It runs as a Zeebe job worker and MCP tool server
(serve) or answers a single question from the command line (ask).`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./configs/config.yaml)")
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newAskCmd())
}

func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.LoadFromFile(cfgFile)
	}
	return config.Load()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
