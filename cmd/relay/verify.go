package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/idraxiom/contact-relay/internal/config"
	"github.com/idraxiom/contact-relay/internal/email"
	"github.com/idraxiom/contact-relay/internal/http/server"
)

func newVerifyCmd(cfg func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Verifica cada perfil SMTP (connect + auth), sin enviar mail",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cfg()
			relay, err := server.NewRelay(c)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			results := relay.VerifyAll(ctx)
			return printVerify(cmd.OutOrStdout(), server.Profiles(c), results)
		},
	}
}

// printVerify imprime una fila por perfil y cuál usaría el relay.
// Devuelve error si ninguno verificó.
func printVerify(out io.Writer, profiles []email.Profile, results []email.VerifyResult) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TRANSPORT\tENDPOINT\tRESULT\tDIAG\tELAPSED")

	selected := ""
	for i, r := range results {
		endpoint := "-"
		if i < len(profiles) {
			p := profiles[i]
			endpoint = fmt.Sprintf("%s:%d/%s", p.Host, p.Port, p.TLSMode)
		}
		result, diag := "ok", "-"
		if r.Err != nil {
			result, diag = "error", r.Diag.Code
		} else if selected == "" {
			selected = r.Transport
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Transport, endpoint, result, diag, r.Elapsed.Round(time.Millisecond))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(out, "  %s: %v\n", r.Transport, r.Err)
		}
	}

	if selected == "" {
		return fmt.Errorf("no transport available: %w", email.ErrTransportUnavailable)
	}
	fmt.Fprintf(out, "relay would use: %s\n", selected)
	return nil
}
