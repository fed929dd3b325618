package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/roach88/mongoexpr/internal/ast"
	"github.com/roach88/mongoexpr/internal/doc"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Tree    string // JSON tree file, "-" for stdin
	ExtJSON bool   // render through the driver as relaxed Extended JSON
}

// CompileResult is the JSON payload of a successful compile.
type CompileResult struct {
	Document    json.RawMessage `json:"document"`
	Fingerprint string          `json:"fingerprint"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile [expression]",
		Short: "Compile an expression to a filter or update document",
		Long: `Compile an expression, or a JSON node tree, to a MongoDB document.

Examples:
  mongoexpr compile 'age >= 18 && name.regex("^a", "i")'
  mongoexpr compile 'name = "x", visits += 1' --format yaml
  mongoexpr compile --tree tree.json --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Tree, "tree", "", "compile a JSON node tree from file (- for stdin)")
	cmd.Flags().BoolVar(&opts.ExtJSON, "extjson", false, "render the document as MongoDB Extended JSON")

	return cmd
}

func runCompile(opts *CompileOptions, args []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	log := opts.log()

	c, err := opts.compiler()
	if err != nil {
		return formatter.fail(err)
	}

	var d *doc.Document
	switch {
	case opts.Tree != "" && len(args) > 0:
		return formatter.fail(errors.New("give either an expression or --tree, not both"))
	case opts.Tree != "":
		data, err := readInput(opts.Tree, cmd.InOrStdin())
		if err != nil {
			return formatter.fail(fmt.Errorf("read tree: %w", err))
		}
		tree, err := ast.DecodeJSON(data)
		if err != nil {
			return formatter.fail(err)
		}
		log.Debug("compiling tree", "path", opts.Tree, "kind", tree.Kind().String())
		d, err = c.CompileTree(tree)
		if err != nil {
			return formatter.fail(err)
		}
	case len(args) == 1:
		log.Debug("compiling expression", "source", args[0])
		d, err = c.CompileString(args[0])
		if err != nil {
			return formatter.fail(err)
		}
	default:
		return formatter.fail(errors.New("compile needs an expression or --tree"))
	}

	fingerprint, err := doc.Fingerprint(d)
	if err != nil {
		return formatter.fail(err)
	}
	log.Debug("compiled", "keys", d.Len(), "fingerprint", fingerprint)

	if formatter.Format == FormatYAML {
		out, err := doc.MarshalYAML(d)
		if err != nil {
			return formatter.fail(err)
		}
		_, err = formatter.Writer.Write(out)
		return err
	}

	rendered, err := renderDocument(d, opts.ExtJSON)
	if err != nil {
		return formatter.fail(err)
	}

	if formatter.Format == FormatJSON {
		return formatter.Success(CompileResult{Document: rendered, Fingerprint: fingerprint})
	}
	return formatter.Success(string(rendered))
}

// renderDocument renders d as compact JSON, or as relaxed Extended JSON of
// its driver form.
func renderDocument(d *doc.Document, extJSON bool) ([]byte, error) {
	if !extJSON {
		return doc.Marshal(d)
	}
	bd, err := doc.ToBSON(d)
	if err != nil {
		return nil, err
	}
	out, err := bson.MarshalExtJSON(bd, false, false)
	if err != nil {
		return nil, fmt.Errorf("render extended json: %w", err)
	}
	return out, nil
}

// readInput reads path, or r when path is "-".
func readInput(path string, r io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(r)
	}
	return os.ReadFile(path)
}
