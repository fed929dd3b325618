package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/mongoexpr/internal/mapping"
)

// OperatorListing is one operator table row.
type OperatorListing struct {
	Token   string `json:"token" yaml:"token"`
	Target  string `json:"target,omitempty" yaml:"target,omitempty"`
	Allowed bool   `json:"allowed" yaml:"allowed"`
}

// MethodListing is one method table row.
type MethodListing struct {
	Name      string `json:"name" yaml:"name"`
	Signature string `json:"signature" yaml:"signature"`
	Target    string `json:"target" yaml:"target"`
	Shape     string `json:"shape" yaml:"shape"`
	Option    string `json:"option,omitempty" yaml:"option,omitempty"`
}

// TablesListing is the payload of the tables command.
type TablesListing struct {
	Operators []OperatorListing `json:"operators" yaml:"operators"`
	Methods   []MethodListing   `json:"methods" yaml:"methods"`
}

// NewTablesCommand creates the tables command.
func NewTablesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the operator and method tables",
		Long: `List the binary operators and field methods expressions may use.

Pass --tables to inspect a custom table file instead of the built-in one.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTables(rootOpts, cmd)
		},
	}
}

func runTables(opts *RootOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	t, err := opts.loadTables()
	if err != nil {
		return formatter.fail(err)
	}
	listing := listTables(t)

	switch formatter.Format {
	case FormatJSON:
		return formatter.Success(listing)
	case FormatYAML:
		out, err := yaml.Marshal(listing)
		if err != nil {
			return formatter.fail(err)
		}
		_, err = formatter.Writer.Write(out)
		return err
	default:
		return formatter.Success(formatTablesText(listing))
	}
}

func listTables(t *mapping.Tables) *TablesListing {
	listing := &TablesListing{}
	for _, op := range t.Operators() {
		listing.Operators = append(listing.Operators, OperatorListing{
			Token:   op.Token,
			Target:  op.Target,
			Allowed: op.Allowed,
		})
	}
	for _, m := range t.Methods() {
		listing.Methods = append(listing.Methods, MethodListing{
			Name:      m.Name,
			Signature: m.Signature(),
			Target:    m.Target,
			Shape:     m.Shape.String(),
			Option:    m.Option,
		})
	}
	return listing
}

func formatTablesText(l *TablesListing) string {
	var b strings.Builder
	b.WriteString("Operators:\n")
	for _, op := range l.Operators {
		if op.Allowed {
			fmt.Fprintf(&b, "  %-4s %s\n", op.Token, op.Target)
		} else {
			fmt.Fprintf(&b, "  %-4s (not supported)\n", op.Token)
		}
	}
	b.WriteString("\nMethods:\n")
	for _, m := range l.Methods {
		target := m.Target
		if m.Option != "" {
			target += ", " + m.Option
		}
		fmt.Fprintf(&b, "  %-18s %s\n", m.Signature, target)
	}
	return strings.TrimSuffix(b.String(), "\n")
}
