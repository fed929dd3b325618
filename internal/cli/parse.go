package cli

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/mongoexpr/internal/ast"
	"github.com/roach88/mongoexpr/internal/compiler"
)

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <expression>",
		Short: "Print the node tree of an expression",
		Long: `Parse an expression and print its node tree as JSON.

The output is accepted by "mongoexpr compile --tree".

Examples:
  mongoexpr parse 'a == 1 && b.exists()'
  mongoexpr parse 'a = 1' > tree.json && mongoexpr compile --tree tree.json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runParse(opts *RootOptions, src string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	prog, err := compiler.Parse(src)
	if err != nil {
		return formatter.fail(err)
	}
	opts.log().Debug("parsed", "statements", len(prog.Body))

	tree, err := ast.EncodeJSON(prog)
	if err != nil {
		return formatter.fail(err)
	}

	switch formatter.Format {
	case FormatJSON:
		return formatter.Success(json.RawMessage(tree))
	case FormatYAML:
		out, err := jsonToYAML(tree)
		if err != nil {
			return formatter.fail(err)
		}
		_, err = formatter.Writer.Write(out)
		return err
	default:
		var buf bytes.Buffer
		if err := json.Indent(&buf, tree, "", "  "); err != nil {
			return formatter.fail(err)
		}
		return formatter.Success(buf.String())
	}
}

// jsonToYAML re-renders a JSON document as block YAML, keeping key order.
func jsonToYAML(data []byte) ([]byte, error) {
	var n yaml.Node
	if err := yaml.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("convert tree: %w", err)
	}
	clearStyle(&n)
	return yaml.Marshal(&n)
}

func clearStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		clearStyle(c)
	}
}
