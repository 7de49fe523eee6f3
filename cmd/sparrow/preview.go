package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"sparrow-backend/internal/preview"
	"sparrow-backend/internal/workdir"
)

var (
	previewDeploy bool
	previewOut    string
)

var previewCmd = &cobra.Command{
	Use:   "preview <project.json|dir>",
	Short: "Print the assembled preview of a project",
	Long: `Assemble an exported project file or a directory of source files into a
single HTML document with styles and scripts inlined.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := workdir.Load(args[0])
		if err != nil {
			return err
		}

		opts := preview.ForEditor()
		if previewDeploy {
			opts = preview.ForDeploy()
		}
		doc := preview.Assemble(p.Files, opts)
		if doc == "" {
			return fmt.Errorf("%s has no HTML file", args[0])
		}

		if previewOut != "" {
			return os.WriteFile(previewOut, []byte(doc), 0o644)
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), doc)
		return err
	},
}

func init() {
	previewCmd.Flags().BoolVar(&previewDeploy, "deploy", false, "Render the published variant with attribution")
	previewCmd.Flags().StringVarP(&previewOut, "out", "o", "", "Write to a file instead of stdout")
}
