// Package cli implements the ftpmib command line.
//
// Every command builds the same runtime from the configuration file: an
// in-memory value store, the PROFTPD-MIB registry initialized with the
// configured server modules, and a request handler. Values can be seeded
// from a YAML file with --values, so the query commands answer the way a
// running agent would.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Build information, injected with -ldflags.
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	valuesPath string
	features   []string
	output     string
}

// NewRootCommand returns the ftpmib command tree.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "ftpmib",
		Short: "Query and serve the PROFTPD-MIB object registry",
		Long: `ftpmib resolves OIDs against the PROFTPD-MIB registry and answers SNMP
requests for it.

Objects of optional server modules (mod_tls, mod_sftp) are only visible
when the module is enabled in the configuration file or with --feature.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOutput(opts.output)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", os.Getenv("FTPMIB_CONFIG"), "configuration file (YAML or JSON)")
	flags.StringVar(&opts.valuesPath, "values", "", "YAML file of object values to load into the store")
	flags.StringSliceVar(&opts.features, "feature", nil, "additionally enable a server module (mod_tls, mod_sftp)")
	flags.StringVarP(&opts.output, "output", "o", outputTable, "output format: table, json or yaml")

	root.AddCommand(
		newListCommand(opts),
		newGetCommand(opts),
		newNextCommand(opts),
		newWalkCommand(opts),
		newTranslateCommand(opts),
		newResetCommand(opts),
		newMetricsCommand(opts),
		newServeCommand(opts),
	)
	return root
}

// Execute runs the command tree with the process arguments.
func Execute() int {
	return run(NewRootCommand(), os.Args[1:], os.Stdout, os.Stderr)
}

func run(root *cobra.Command, args []string, stdout, stderr io.Writer) int {
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}
