package cli

import (
	"fmt"

	"github.com/alexanderramin/journeyctl/internal/cli/formatter"
	"github.com/alexanderramin/journeyctl/internal/domain"
	"github.com/alexanderramin/journeyctl/internal/journey"
	"github.com/spf13/cobra"
)

func resolveNodeID(app *App, input string) (string, error) {
	return resolveID("node", input, ids(app.Store.Canvas().Nodes, func(n domain.Node) string { return n.ID }))
}

func resolveEdgeID(app *App, input string) (string, error) {
	return resolveID("edge", input, ids(app.Store.Canvas().Edges, func(e domain.Edge) string { return e.ID }))
}

func newNodeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Manage canvas nodes",
	}

	cmd.AddCommand(
		newNodeAddCmd(app),
		newNodeUpdateCmd(app),
		newNodeMoveCmd(app),
		newNodeRemoveCmd(app),
		newNodeListCmd(app),
	)

	return cmd
}

func newNodeAddCmd(app *App) *cobra.Command {
	var typ, label string
	var x, y float64
	var data []string

	cmd := &cobra.Command{
		Use:   "add SUBTYPE",
		Short: "Add a node (entry, decision, wait, loop, decision-point, goal, milestone, merge)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subtype := domain.NodeSubtype(args[0])
			if !domain.ValidNodeSubtypes[subtype] {
				return fmt.Errorf("invalid node subtype %q", args[0])
			}
			d, err := parseData(data)
			if err != nil {
				return err
			}
			if d == nil {
				d = map[string]any{}
			}
			if label != "" {
				d["label"] = label
			}
			if typ == "" {
				typ = "custom"
			}
			n := app.Store.AddNode(domain.Node{
				Type:     typ,
				Subtype:  subtype,
				Position: domain.Position{X: x, Y: y},
				Data:     d,
			})
			success(cmd, "Added %s node %s", subtype, n.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&typ, "type", "", "Renderer type (default custom)")
	cmd.Flags().StringVar(&label, "label", "", "Node label")
	cmd.Flags().Float64Var(&x, "x", 0, "X position")
	cmd.Flags().Float64Var(&y, "y", 0, "Y position")
	cmd.Flags().StringArrayVar(&data, "data", nil, "Data entry key=value (repeatable)")
	return cmd
}

func newNodeUpdateCmd(app *App) *cobra.Command {
	var typ, label string
	var data []string

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Merge data into a node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveNodeID(app, args[0])
			if err != nil {
				return err
			}
			d, err := parseData(data)
			if err != nil {
				return err
			}
			var p domain.NodePatch
			if cmd.Flags().Changed("type") {
				p.Type = &typ
			}
			if cmd.Flags().Changed("label") {
				if d == nil {
					d = map[string]any{}
				}
				d["label"] = label
			}
			p.Data = d
			if !app.Store.UpdateNode(id, p) {
				return fmt.Errorf("node not found: %q", id)
			}
			success(cmd, "Updated node %s", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&typ, "type", "", "Renderer type")
	cmd.Flags().StringVar(&label, "label", "", "Node label")
	cmd.Flags().StringArrayVar(&data, "data", nil, "Data entry key=value (repeatable)")
	return cmd
}

func newNodeMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move ID X Y",
		Short: "Move a node (not a content change)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveNodeID(app, args[0])
			if err != nil {
				return err
			}
			x, err := parseFloat("x", args[1])
			if err != nil {
				return err
			}
			y, err := parseFloat("y", args[2])
			if err != nil {
				return err
			}
			app.Store.UpdateNodePosition(id, domain.Position{X: x, Y: y})
			success(cmd, "Moved node %s to (%g, %g)", id, x, y)
			return nil
		},
	}
}

func newNodeRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID",
		Short: "Remove a node and its connected edges",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveNodeID(app, args[0])
			if err != nil {
				return err
			}
			edges := len(app.Store.ConnectedEdges(id))
			app.Store.RemoveNode(id)
			success(cmd, "Removed node %s and %d edge(s)", id, edges)
			return nil
		},
	}
}

func newNodeListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List nodes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			nodes := app.Store.Canvas().Nodes
			return render(cmd, nodes, func() string { return formatter.FormatNodes(nodes) })
		},
	}
}

func newEdgeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edge",
		Short: "Manage canvas edges",
	}

	cmd.AddCommand(
		newEdgeConnectCmd(app),
		newEdgeRemoveCmd(app),
		newEdgeListCmd(app),
	)

	return cmd
}

func newEdgeConnectCmd(app *App) *cobra.Command {
	var sourceHandle, targetHandle string

	cmd := &cobra.Command{
		Use:   "connect SOURCE TARGET",
		Short: "Connect two nodes; the label is derived from the source handle",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := resolveNodeID(app, args[0])
			if err != nil {
				return err
			}
			target, err := resolveNodeID(app, args[1])
			if err != nil {
				return err
			}
			e := app.Store.Connect(journey.ConnectParams{
				Source:       source,
				Target:       target,
				SourceHandle: sourceHandle,
				TargetHandle: targetHandle,
			})
			if label := e.Label(); label != "" {
				success(cmd, "Connected %s → %s (%s) as %s", source, target, label, e.ID)
			} else {
				success(cmd, "Connected %s → %s as %s", source, target, e.ID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceHandle, "source-handle", "", "Source handle, e.g. yes, no, branch-0")
	cmd.Flags().StringVar(&targetHandle, "target-handle", "", "Target handle")
	return cmd
}

func newEdgeRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID",
		Short: "Remove an edge",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveEdgeID(app, args[0])
			if err != nil {
				return err
			}
			app.Store.RemoveEdge(id)
			success(cmd, "Removed edge %s", id)
			return nil
		},
	}
}

func newEdgeListCmd(app *App) *cobra.Command {
	var node string

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List edges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if node == "" {
				edges := app.Store.Canvas().Edges
				return render(cmd, edges, func() string { return formatter.FormatEdges(edges) })
			}
			id, err := resolveNodeID(app, node)
			if err != nil {
				return err
			}
			c := app.Store.NodeConnections(id)
			return render(cmd, c, func() string {
				return formatter.Header("incoming") + "\n" + formatter.FormatEdges(c.Incoming) + "\n" +
					formatter.Header("outgoing") + "\n" + formatter.FormatEdges(c.Outgoing)
			})
		},
	}

	cmd.Flags().StringVar(&node, "node", "", "Only edges connected to this node")
	return cmd
}
