package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gtreader/pkg/gt"
	"github.com/matzehuels/gtreader/pkg/pipeline"
	"github.com/matzehuels/gtreader/pkg/source"
)

// loadFlags are shared by every command that decodes a <source>.
type loadFlags struct {
	refresh bool
	noCache bool
	strict  bool
}

func (f *loadFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "re-download even if cached")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the download cache")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "reject neighbor ids outside the vertex range")
}

// load decodes ref through a fresh runner, showing a spinner for remote
// sources.
func (c *CLI) load(ctx context.Context, ref string, flags loadFlags) (*pipeline.Result, error) {
	r, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	opts, err := c.loadOptions(ref, flags.refresh)
	if err != nil {
		return nil, err
	}
	opts.Strict = opts.Strict || flags.strict

	var spinner *Spinner
	if isRemote(ref) {
		spinner = newSpinner(os.Stderr, "Fetching "+ref)
		spinner.Start(ctx)
	}
	prog := newProgress(c.Logger)
	res, err := r.Load(ctx, opts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return nil, err
	}
	prog.done("decoded", "source", ref, "vertices", res.Graph.VertexCount(), "edges", res.Graph.EdgeCount())
	return res, nil
}

func isRemote(ref string) bool {
	kind, _, err := source.ParseRef(ref)
	return err == nil && kind != source.KindFile
}

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		flags  loadFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <source>",
		Short: "Show the header, counts and properties of a graph",
		Long: `Decode a gt file and print its header fields, vertex and edge counts and
property descriptors. Summaries are cached by content hash.

Examples:
  gtreader inspect graph.gt.zst
  gtreader inspect ns:karate/77
  gtreader inspect https://example.org/g.gt --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return err
			}
			defer r.Close()

			opts, err := c.loadOptions(args[0], flags.refresh)
			if err != nil {
				return err
			}
			opts.Strict = opts.Strict || flags.strict

			summary, cached, err := r.Summarize(ctx, opts)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}
			printSummary(opts.Source, summary, cached)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	return cmd
}

func printSummary(ref string, s gt.Summary, cached bool) {
	fmt.Println(StyleTitle.Render(ref))
	printKeyValue("version", strconv.Itoa(int(s.Version)))
	printKeyValue("directed", strconv.FormatBool(s.Directed))
	printKeyValue("vertices", strconv.FormatUint(s.VertexCount, 10))
	printKeyValue("edges", strconv.FormatUint(s.EdgeCount, 10))
	if s.Comment != "" {
		printKeyValue("comment", s.Comment)
	}
	printStats(s.VertexCount, s.EdgeCount, fmt.Sprintf("%d properties", len(s.Properties)), cached)
	if len(s.Properties) > 0 {
		fmt.Println(propertyTable(s.Properties))
	}
}
