package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/pakt/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [projects...]",
		Short: "Build configured projects",
		Long: "Build resolves each project's lockfile into a dependency graph, " +
			"flattens it into an installable tree and runs every package's " +
			"lifecycle scripts in dependency order. A project whose invalidation " +
			"key is unchanged since the last successful build is skipped.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			jobs, _ := cmd.Flags().GetInt("jobs")
			noCache, _ := cmd.Flags().GetBool("no-cache")
			failFast, _ := cmd.Flags().GetBool("fail-fast")
			return c.app.Run(cmd.Context(), app.RunOptions{
				Projects: args,
				Config:   configPath,
				Jobs:     jobs,
				NoCache:  noCache,
				FailFast: failFast,
			})
		},
	}
	cmd.Flags().IntP("jobs", "j", 0, "Number of parallel package builds (default: one per CPU)")
	cmd.Flags().BoolP("no-cache", "n", false, "Bypass the invalidation key check and force a rebuild")
	cmd.Flags().Bool("fail-fast", false, "Stop launching new package builds after the first failure")
	return cmd
}
