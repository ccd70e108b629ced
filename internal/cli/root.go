package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aryankumar/tabmon/internal/auth"
	"github.com/aryankumar/tabmon/internal/config"
	"github.com/aryankumar/tabmon/internal/connector"
	"github.com/aryankumar/tabmon/internal/poll"
	"github.com/aryankumar/tabmon/internal/transport"
)

// Execute runs the root command with the provided context
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

// app carries state shared by the commands of one invocation
type app struct {
	cfgFile string
	manager *config.Manager
	logger  *slog.Logger
	logFile io.Closer
}

// newRootCmd creates the root command
func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "tabmon",
		Short: "Tableau Server monitoring for Telegraf execd",
		Long: `tabmon reports the health of a Tableau Server cluster to Telegraf.

Run without a subcommand it is an execd input: every line received on stdin
triggers one collection of the TSM cluster status and the systeminfo.xml
process list, written to stdout as InfluxDB line protocol. A check that fails
writes a single record with status_code=3 instead.`,
		Example: `  # telegraf.conf
  [[inputs.execd]]
    command = ["tabmon", "--passwordless"]
    signal = "STDIN"
    data_format = "influx"`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runExecd(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", fmt.Sprintf("config file (default is the first of %s)",
		strings.Join(config.DefaultConfigPaths(), ", ")))
	flags.StringP("tsm-user", "u", "", "username for TSM authentication [TME_TSM_USER]")
	flags.StringP("tsm-password", "p", "", "password for TSM authentication [TME_TSM_PASSWORD]")
	flags.String("tsm-hostname", "https://localhost:8850/", "TSM base URL [TME_TSM_HOSTNAME]")
	flags.StringP("si-hostname", "s", "https://localhost/", "Tableau Server base URL serving systeminfo.xml [TME_SI_HOSTNAME]")
	flags.StringP("checks", "c", config.ChecksAll, "checks to run: all, tsm or systeminfo [TME_CHECKS]")
	flags.BoolP("passwordless", "l", false, "log in to TSM through the controller socket [TME_TSM_PASSWORDLESS]")
	flags.String("tsm-socket", auth.DefaultSocketPath, "TSM controller login socket [TME_TSM_SOCKET]")
	flags.Duration("timeout", transport.DefaultTimeout, "timeout for every login, fetch and socket call [TME_TIMEOUT]")
	flags.Bool("insecure-skip-verify", true, "skip TLS certificate verification [TME_INSECURE_SKIP_VERIFY]")
	flags.String("ca-file", "", "PEM bundle of additional trusted CAs [TME_CA_FILE]")
	flags.BoolP("verbose", "v", false, "verbose output with debug logging")
	flags.String("log-format", config.LogFormatText, "log format on stderr: text or json")
	flags.String("log-file", "", "write logs to this file, rotated by size, instead of stderr")

	_ = rootCmd.RegisterFlagCompletionFunc("checks", cobra.FixedCompletions(
		[]string{config.ChecksAll, config.ChecksTSM, config.ChecksSystemInfo}, cobra.ShellCompDirectiveNoFileComp))
	_ = rootCmd.RegisterFlagCompletionFunc("log-format", cobra.FixedCompletions(
		[]string{config.LogFormatText, config.LogFormatJSON}, cobra.ShellCompDirectiveNoFileComp))

	rootCmd.AddCommand(newStatusCmd(a))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// init sets up logging from the flags and prepares the config manager
func (a *app) init(cmd *cobra.Command) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	logFormat, _ := cmd.Flags().GetString("log-format")
	a.logger = setupLogging(cmd.ErrOrStderr(), verbose, logFormat)

	a.manager = config.NewManager(a.cfgFile)
	if err := a.manager.BindFlags(cmd.Flags()); err != nil {
		return err
	}

	return nil
}

// load resolves the configuration and rebuilds the logger from it, since
// the config file or environment may set verbose or log-format
func (a *app) load(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := a.manager.Load()
	if err != nil {
		return nil, err
	}

	w := cmd.ErrOrStderr()
	if cfg.LogFile != "" {
		file := newLogFile(cfg.LogFile)
		a.logFile = file
		w = file
	}

	a.logger = setupLogging(w, cfg.Verbose, cfg.LogFormat)
	if used := a.manager.ConfigFileUsed(); used != "" {
		a.logger.Debug("loaded configuration", "file", used)
	}

	return cfg, nil
}

// runExecd serves trigger lines from stdin until end of input or a signal
func (a *app) runExecd(cmd *cobra.Command) error {
	cfg, err := a.load(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	conn, err := connector.New(cfg, a.logger)
	if err != nil {
		return err
	}
	defer conn.Close()

	out := bufio.NewWriter(cmd.OutOrStdout())
	defer out.Flush()

	loop, err := poll.NewLoop(conn.Checks(), out, a.logger)
	if err != nil {
		return err
	}

	a.logger.Debug("starting execd loop", "checks", conn.CheckNames(), "auth", conn.AuthMethod())

	if err := loop.Run(cmd.Context(), cmd.InOrStdin()); err != nil {
		return fmt.Errorf("execd loop: %w", err)
	}
	return nil
}
