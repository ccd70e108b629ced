package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aryankumar/tabmon/internal/output"
	"github.com/aryankumar/tabmon/pkg/version"
)

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Display detailed version information for tabmon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion(cmd)
		},
	}

	cmd.Flags().StringP("output", "o", "", "output format (json, yaml, table)")

	return cmd
}

func runVersion(cmd *cobra.Command) error {
	info := version.Get()
	outputFormat, _ := cmd.Flags().GetString("output")
	w := cmd.OutOrStdout()

	switch outputFormat {
	case "json":
		return output.NewJSONFormatter(nil).Format(w, info)
	case "yaml":
		return output.NewYAMLFormatter(nil).Format(w, info)
	case "table":
		return output.NewTableFormatter(&output.Options{NoColor: true}).Format(w, info.Map())
	case "":
		fmt.Fprintln(w, info.String())
		return nil
	default:
		return fmt.Errorf("unknown output format %q (valid: json, yaml, table)", outputFormat)
	}
}
