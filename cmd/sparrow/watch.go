package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"sparrow-backend/internal/workdir"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Rebuild preview.html whenever a project file changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		out := cmd.OutOrStdout()

		rebuild := func() {
			p, err := workdir.LoadDir(dir)
			if err == nil {
				err = workdir.WritePreview(dir, p)
			}
			if err != nil {
				fmt.Fprintf(out, "Error rebuilding preview: %v\n", err)
				return
			}
			fmt.Fprintf(out, "[%s] rebuilt %s (%d files)\n", time.Now().Format("15:04:05"), filepath.Join(dir, workdir.PreviewFile), len(p.Files))
		}
		rebuild()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", dir)
		return workdir.Watch(ctx, dir, watchDebounce, rebuild)
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 300*time.Millisecond, "Quiet period before rebuilding")
}
