package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"sparrow-backend/internal/config"
	"sparrow-backend/internal/llm"
	"sparrow-backend/internal/services"
	"sparrow-backend/internal/session"
	"sparrow-backend/internal/workdir"
)

var (
	generateOut   string
	generateName  string
	generateImage string
)

var generateCmd = &cobra.Command{
	Use:   "generate <prompt>",
	Short: "Run one chat turn and write the resulting project to disk",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		completer, err := llm.NewCompleter(cfg)
		if err != nil {
			return err
		}
		describer, _ := completer.(llm.Describer)

		svc := services.NewWorkspaceService(services.Options{
			Completer: completer,
			Describer: describer,
			Backoff:   llm.Backoff{MaxRetries: cfg.LLMMaxRetries, BaseDelay: cfg.LLMBaseDelay},
		})

		in := session.Input{Text: strings.Join(args, " ")}
		if generateImage != "" {
			data, err := os.ReadFile(generateImage)
			if err != nil {
				return err
			}
			in.Image = &llm.Image{MimeType: http.DetectContentType(data), Data: data}
		}

		chat, _, err := svc.CreateSession(cmd.Context(), generateName)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Generating...")

		turn, project, err := svc.SendMessage(cmd.Context(), chat.ID, in)
		if err != nil {
			return err
		}
		for _, n := range turn.Notices {
			fmt.Fprintln(out, n.Content)
		}
		if turn.Outcome != session.Success {
			return errors.New(turn.Reply.Content)
		}

		if err := workdir.Write(generateOut, project); err != nil {
			return err
		}
		if reply := strings.TrimSpace(turn.Reply.Content); reply != "" {
			fmt.Fprintf(out, "\n%s\n\n", reply)
		}
		fmt.Fprintf(out, "Wrote %d files to %s\n", len(project.Files), generateOut)
		for _, f := range project.Files {
			fmt.Fprintf(out, "  %s\n", f.Name)
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVarP(&generateOut, "out", "o", "sparrow-site", "Directory to write the project into")
	generateCmd.Flags().StringVarP(&generateName, "name", "n", "", "Project name")
	generateCmd.Flags().StringVar(&generateImage, "image", "", "Attach an image to the prompt")
}
