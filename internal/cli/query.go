package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gtreader/pkg/errors"
	"github.com/matzehuels/gtreader/pkg/gt"
	gtio "github.com/matzehuels/gtreader/pkg/io"
)

// edgesCommand creates the edges command.
func (c *CLI) edgesCommand() *cobra.Command {
	var (
		flags  loadFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "edges <source>",
		Short: "Print the edge list, one \"source target\" pair per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.load(cmd.Context(), args[0], flags)
			if err != nil {
				return err
			}
			edges := res.Graph.Edges()
			if asJSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(edges)
			}
			w := cmd.OutOrStdout()
			for _, e := range edges {
				fmt.Fprintf(w, "%d %d\n", e.Source, e.Target)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print a JSON array")
	return cmd
}

// neighborsCommand creates the neighbors command.
func (c *CLI) neighborsCommand() *cobra.Command {
	var (
		flags loadFlags
		in    bool
	)

	cmd := &cobra.Command{
		Use:   "neighbors <source> <vertex>",
		Short: "Print the out-neighbors (or in-neighbors) of a vertex",
		Long: `Print the neighbors of one vertex, separated by spaces.

Out-neighbors come straight from the adjacency list. In-neighbors (--in)
require a scan over every edge; a source with parallel edges is listed once.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return errors.New(errors.ErrCodeInvalidInput, "invalid vertex %q", args[1])
			}
			res, err := c.load(cmd.Context(), args[0], flags)
			if err != nil {
				return err
			}

			neighbors, err := res.Graph.OutNeighbors(v)
			if in {
				neighbors, err = res.Graph.InNeighbors(v)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), joinUints(neighbors))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&in, "in", false, "list in-neighbors instead")
	return cmd
}

// propsCommand creates the props command.
func (c *CLI) propsCommand() *cobra.Command {
	var (
		flags   loadFlags
		mapType string
	)

	cmd := &cobra.Command{
		Use:   "props <source> [name]",
		Short: "List properties, or print the values of one",
		Long: `Without a name, list the property descriptors of the graph. With a name,
print that property's values, one "index<TAB>value" line each. When several
properties share a name the first one declared wins; use --map to pick the
graph, vertex or edge map.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := gt.ParseMapFilter(mapType)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "%s", err.Error())
			}
			res, err := c.load(cmd.Context(), args[0], flags)
			if err != nil {
				return err
			}
			g := res.Graph

			if len(args) == 1 {
				var infos []gt.PropertyInfo
				for _, p := range g.Properties() {
					if filter.Match(p.MapType()) {
						infos = append(infos, p.Info())
					}
				}
				if len(infos) == 0 {
					printInfo("No %s properties", filter)
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), propertyTable(infos))
				return nil
			}

			p, ok := g.Property(args[1], filter)
			if !ok {
				return errors.New(errors.ErrCodeNotFound, "no %s property named %q", filter, args[1])
			}
			return writeValues(cmd.OutOrStdout(), p)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&mapType, "map", "", "restrict to graph, vertex or edge properties")
	return cmd
}

func writeValues(w io.Writer, p *gt.Property) error {
	for i, v := range gtio.PropertyValues(p) {
		if _, err := fmt.Fprintf(w, "%d\t%s\n", i, formatValue(v)); err != nil {
			return err
		}
	}
	return nil
}

// formatValue renders one property value on a single line.
func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return strconv.Quote(x)
	case []byte:
		return fmt.Sprintf("<%d bytes>", len(x))
	case []string:
		q := make([]string, len(x))
		for i, s := range x {
			q[i] = strconv.Quote(s)
		}
		return "[" + strings.Join(q, " ") + "]"
	}
	return fmt.Sprint(v)
}

func joinUints(ids []uint64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(id, 10)
	}
	return strings.Join(parts, " ")
}
