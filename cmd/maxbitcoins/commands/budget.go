package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// budget [action...]: show quota usage and breaker state.
func budgetCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget [action...]",
		Short: "Show posting budget per action type",
		RunE: func(cmd *cobra.Command, args []string) error {
			b := c.app.Budget
			actions := args
			if len(actions) == 0 {
				actions = b.Actions()
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ACTION\tPERIOD\tUSED\tQUOTA\tFAILURES\tSTATE")
			for _, action := range actions {
				s, err := b.Status(action)
				if err != nil {
					tw.Flush()
					return err
				}
				state := "ok"
				if s.Blocked != nil {
					state = s.Blocked.Error()
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\n",
					s.Action, s.Policy.Period, s.Count, s.Policy.Quota, s.FailedCount, state)
			}
			return tw.Flush()
		},
	}
	cmd.AddCommand(budgetResetCmd(c))
	return cmd
}

// budget reset <action>: close an open circuit breaker.
func budgetResetCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "reset <action>",
		Short: "Clear the consecutive-failure count of an action type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Budget.ResetBreaker(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: breaker reset\n", args[0])
			return nil
		},
	}
}
