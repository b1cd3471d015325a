package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"maxbitcoins/internal/app"
	"maxbitcoins/internal/services/identity"
)

// key: print the public identity of NOSTR_PRIVATE_KEY, or make a new key.
func keyCmd(c *cli) *cobra.Command {
	var (
		generate bool
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:         "key",
		Short:       "Show the npub for " + app.EnvSecretKey + ", or generate a new key",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipApp: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := identity.New(nil)
			out := cmd.OutOrStdout()

			if generate {
				g, err := svc.Generate()
				if err != nil {
					return err
				}
				if asJSON {
					return json.NewEncoder(out).Encode(g)
				}
				fmt.Fprintf(out, "nsec:   %s\nnpub:   %s\npubkey: %s\n", g.Nsec, g.Npub, g.PubKeyHex)
				fmt.Fprintf(cmd.ErrOrStderr(), "store the nsec in %s; it is not saved anywhere\n", app.EnvSecretKey)
				return nil
			}

			secret := c.getenv(app.EnvSecretKey)
			if secret == "" {
				var err error
				if secret, err = promptSecret(); err != nil {
					return err
				}
			}
			id, err := svc.Describe(secret)
			if err != nil {
				return err
			}
			if asJSON {
				return json.NewEncoder(out).Encode(id)
			}
			fmt.Fprintf(out, "npub:   %s\npubkey: %s\n", id.Npub, id.PubKeyHex)
			return nil
		},
	}
	cmd.Flags().BoolVar(&generate, "generate", false, "generate a new key pair")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

// promptSecret reads a secret from the terminal without echo.
func promptSecret() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("%s is not set and stdin is not a terminal", app.EnvSecretKey)
	}
	fmt.Fprint(os.Stderr, "secret key (nsec or hex): ")
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
