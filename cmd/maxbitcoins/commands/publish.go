package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"maxbitcoins/internal/budget"
	"maxbitcoins/internal/services/publish"
)

// publish [text]: sign and send a note, generating it when no text is given.
func publishCmd(c *cli) *cobra.Command {
	var (
		action string
		prompt string
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "publish [text]",
		Short: "Publish a kind 1 note if the posting budget allows",
		Long: "Publish a kind 1 note to the configured relays. Without text, the note is " +
			"generated by the configured Ollama model from --prompt or the configured prompt.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			a := c.app

			if dryRun {
				if len(args) == 0 {
					return fmt.Errorf("--dry-run needs the note text as an argument")
				}
				ev, err := a.Publish.SignNote(args[0])
				if err != nil {
					return err
				}
				enc := json.NewEncoder(out)
				enc.SetEscapeHTML(false)
				enc.SetIndent("", "  ")
				return enc.Encode(ev)
			}

			var res publish.Outcome
			if len(args) == 1 {
				res = a.Publish.AttemptPublish(cmd.Context(), action, args[0])
			} else {
				if prompt == "" {
					prompt = a.Config.Ollama.Prompt
				}
				res = a.Publish.Compose(cmd.Context(), action, a.Generator(), prompt, a.Config.Ollama.MaxTokens)
			}
			printOutcome(out, res)

			switch res.Status {
			case publish.StatusPublished, publish.StatusSkipped:
				return nil
			default:
				return fmt.Errorf("%s: %w", res.Status, res.Err)
			}
		},
	}
	cmd.Flags().StringVar(&action, "action", budget.ActionNostrPost, "budget action type to charge")
	cmd.Flags().StringVar(&prompt, "prompt", "", "prompt for generated notes")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "sign and print the event without publishing or touching the budget")
	return cmd
}

func printOutcome(w io.Writer, o publish.Outcome) {
	fmt.Fprintf(w, "attempt %s: %s\n", o.AttemptID, o.Status)
	if o.Event.ID != "" {
		fmt.Fprintf(w, "event: %s\n", o.Event.ID)
	}
	for _, r := range o.Result.Outcomes {
		switch {
		case r.Accepted:
			fmt.Fprintf(w, "  %-32s accepted %s\n", r.Relay, r.Message)
		case r.Err != nil:
			fmt.Fprintf(w, "  %-32s %v\n", r.Relay, r.Err)
		}
	}
	if o.Status == publish.StatusSkipped && o.Err != nil {
		fmt.Fprintf(w, "reason: %s\n", strings.TrimSpace(o.Err.Error()))
	}
}
