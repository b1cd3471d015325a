package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"maxbitcoins/internal/domain"
	"maxbitcoins/internal/event"
)

// verify <event.json>: check an event's id and signature.
func verifyCmd(_ *cli) *cobra.Command {
	return &cobra.Command{
		Use:         "verify <event.json|->",
		Short:       "Verify the id and signature of a signed event",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{skipApp: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			var ev domain.Event
			if err := json.NewDecoder(r).Decode(&ev); err != nil {
				return fmt.Errorf("decode event: %w", err)
			}
			if err := event.Verify(ev); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok %s\n", ev.ID)
			return nil
		},
	}
}
