package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gtreader/pkg/errors"
	"github.com/matzehuels/gtreader/pkg/pipeline"
)

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		flags  loadFlags
		render pipeline.RenderOptions
		output string
	)

	cmd := &cobra.Command{
		Use:   "export <source>",
		Short: "Export a graph as JSON, DOT, SVG or PNG",
		Long: `Export the decoded graph. JSON is node-link form with every property
attached to its graph, node or edge. DOT, SVG and PNG draw the graph with
Graphviz, optionally labelling vertices and edges with property values.

Examples:
  gtreader export ns:karate/77 -o karate.json
  gtreader export g.gt.zst --format svg --vertex-label name -o g.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFormat(render.Format); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "%s", err.Error())
			}
			res, err := c.load(cmd.Context(), args[0], flags)
			if err != nil {
				return err
			}
			data, err := pipeline.Render(cmd.Context(), res.Graph, render)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", output)
			}
			printSuccess("Exported %s", render.Format)
			printFile(output)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&render.Format, "format", "f", pipeline.FormatJSON, "output format: json, dot, svg or png")
	cmd.Flags().StringVar(&render.VertexLabel, "vertex-label", "", "vertex property used as DOT label")
	cmd.Flags().StringVar(&render.EdgeLabel, "edge-label", "", "edge property used as DOT label")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}
