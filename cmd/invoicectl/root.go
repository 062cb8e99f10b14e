package main

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/sangkips/invoice-desk/internal/client"
	"github.com/sangkips/invoice-desk/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultAPIURL = "http://localhost:3001/api"

// cliOptions are resolved from flags first, then INVOICE_* env vars
type cliOptions struct {
	v *viper.Viper
}

func (o *cliOptions) apiURL() string { return o.v.GetString("api_url") }

func (o *cliOptions) flash() time.Duration { return o.v.GetDuration("flash") }

func (o *cliOptions) timeout() time.Duration { return o.v.GetDuration("timeout") }

func (o *cliOptions) client() *client.Client {
	return client.New(o.apiURL(), client.WithTimeout(o.timeout()))
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	opts := &cliOptions{v: viper.New()}

	root := &cobra.Command{
		Use:   "invoicectl",
		Short: "Manage invoices on an invoice-desk server",
		Long: `invoicectl talks to the invoice-desk REST API.

Run "invoicectl ui" for the interactive screen, or use the one-shot
subcommands for scripting. The server address comes from --api-url or
the INVOICE_API_URL environment variable.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logger.Setup(logger.LogConfig{
				Level:  opts.v.GetString("log_level"),
				Format: "console",
				Output: os.Stderr,
			})
		},
	}
	root.SetIn(in)
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.String("api-url", defaultAPIURL, "base URL of the invoice API")
	flags.Duration("flash", 2*time.Second, "how long status messages stay on screen")
	flags.Duration("timeout", 10*time.Second, "HTTP request timeout")
	flags.String("log-level", "warn", "log level (trace, debug, info, warn, error)")

	opts.v.SetEnvPrefix("INVOICE")
	opts.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	opts.v.AutomaticEnv()
	_ = opts.v.BindPFlag("api_url", flags.Lookup("api-url"))
	_ = opts.v.BindPFlag("flash", flags.Lookup("flash"))
	_ = opts.v.BindPFlag("timeout", flags.Lookup("timeout"))
	_ = opts.v.BindPFlag("log_level", flags.Lookup("log-level"))

	root.AddCommand(
		newUICmd(opts),
		newListCmd(opts),
		newCreateCmd(opts),
		newPayCmd(opts),
		newCardCmd(opts),
		newAutoBillCmd(opts),
		newToggleRecurringCmd(opts),
		newDeleteCmd(opts),
	)
	return root
}
