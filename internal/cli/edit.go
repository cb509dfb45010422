package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	ltree "github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"

	"github.com/matzehuels/arbor/pkg/config"
	"github.com/matzehuels/arbor/pkg/editor"
	"github.com/matzehuels/arbor/pkg/errors"
	"github.com/matzehuels/arbor/pkg/tree"
)

// editCommand groups the commands that modify a tree file in place.
//
// Node ids are assigned in pre-order every time a file is loaded, so the ids
// printed by "edit show" stay valid until the next structural change.
func (c *CLI) editCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit a tree file from the command line",
		Long: `Edit a tree file from the command line.

Every edit re-computes the layout and writes the file back with updated
positions. Use 'edit show' to see the node ids.`,
	}

	cmd.AddCommand(c.editNewCommand())
	cmd.AddCommand(c.editShowCommand())
	cmd.AddCommand(c.editAddCommand())
	cmd.AddCommand(c.editDeleteCommand())
	cmd.AddCommand(c.editTextCommand())
	cmd.AddCommand(c.editHighlightCommand())

	return cmd
}

func (c *CLI) editNewCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "new [file]",
		Short: "Create a file holding a single-node tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err == nil && !force {
				return errors.New(errors.ErrCodeInvalidInput, "%s already exists (use --force to overwrite)", path)
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := saveDocument(path, editor.New(), cfg); err != nil {
				return err
			}
			printSuccess("Created %s", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func (c *CLI) editShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [file]",
		Short: "Print the tree with node ids",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			fmt.Println(outline(ed.Export()))
			return nil
		},
	}
}

func (c *CLI) editAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add [file] [parent-id]",
		Short: "Add a child node",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			parent, err := parseID(args[1])
			if err != nil {
				return err
			}
			var id int
			if err := c.editFile(args[0], func(ed *editor.Document) error {
				var err error
				id, err = ed.AddChild(parent)
				return err
			}); err != nil {
				return err
			}
			printSuccess("Added node %d under %d", id, parent)
			return nil
		},
	}
}

func (c *CLI) editDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [file] [id]",
		Short: "Delete a node and its subtree",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			err = c.editFile(args[0], func(ed *editor.Document) error {
				_, err := ed.DeleteSubtree(id)
				return err
			})
			if err != nil {
				return err
			}
			printSuccess("Deleted node %d", id)
			return nil
		},
	}
}

func (c *CLI) editTextCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "text [file] [id] [text]",
		Short: "Set the label of a node",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			err = c.editFile(args[0], func(ed *editor.Document) error {
				return ed.SetText(id, args[2])
			})
			if err != nil {
				return err
			}
			printSuccess("Node %d is now %q", id, args[2])
			return nil
		},
	}
}

func (c *CLI) editHighlightCommand() *cobra.Command {
	var (
		index   int
		color   string
		noColor bool
	)
	cmd := &cobra.Command{
		Use:   "highlight [file] [id]",
		Short: "Highlight a node with a palette entry or a custom color",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			h, err := highlightFromFlags(cmd.Flags().Changed("index"), index, color, noColor)
			if err != nil {
				return err
			}
			err = c.editFile(args[0], func(ed *editor.Document) error {
				return ed.SetHighlight(id, h)
			})
			if err != nil {
				return err
			}
			if h == nil {
				printSuccess("Cleared highlight of node %d", id)
			} else {
				printSuccess("Highlighted node %d", id)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&index, "index", 0, "palette entry (0-based)")
	cmd.Flags().StringVar(&color, "color", "", "custom color, e.g. #ff8800")
	cmd.Flags().BoolVar(&noColor, "clear", false, "remove the highlight")
	cmd.MarkFlagsMutuallyExclusive("index", "color", "clear")
	return cmd
}

// highlightFromFlags turns the highlight flags into a value; nil clears.
func highlightFromFlags(hasIndex bool, index int, color string, clearIt bool) (*tree.Highlight, error) {
	switch {
	case clearIt:
		return nil, nil
	case color != "":
		return tree.Custom(color), nil
	case hasIndex:
		return tree.Global(index), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "one of --index, --color or --clear is required")
	}
}

// =============================================================================
// File Helpers
// =============================================================================

// editFile loads path, applies fn, re-computes the layout and writes the
// result back. Nothing is written when fn fails.
func (c *CLI) editFile(path string, fn func(*editor.Document) error) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	ed, err := loadDocument(path)
	if err != nil {
		return err
	}
	if err := fn(ed); err != nil {
		return err
	}
	return saveDocument(path, ed, cfg)
}

func loadDocument(path string) (*editor.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return editor.Decode(data, tree.FormatFromPath(path))
}

// saveDocument lays out ed and writes it to path in the format its extension
// names. The write goes through a temporary file in the same directory.
func saveDocument(path string, ed *editor.Document, cfg config.Config) error {
	if _, err := ed.Layout(cfg.Layout); err != nil {
		return err
	}
	data, err := ed.Encode(tree.FormatFromPath(path))
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".arbor-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid node id %q", s)
	}
	return id, nil
}

// outline renders the tree as an indented listing with node ids.
func outline(root *tree.Node) string {
	return outlineNode(root).String()
}

func outlineNode(n *tree.Node) *ltree.Tree {
	t := ltree.Root(nodeLabel(n)).
		Enumerator(ltree.RoundedEnumerator).
		EnumeratorStyle(StyleDim)
	for _, c := range n.Children {
		if c.IsLeaf() {
			t.Child(nodeLabel(c))
			continue
		}
		t.Child(outlineNode(c))
	}
	return t
}

func nodeLabel(n *tree.Node) string {
	label := StyleDim.Render(fmt.Sprintf("[%d]", n.ID)) + " " + StyleValue.Render(n.Text)
	if h := n.Highlight; h != nil {
		switch h.Kind {
		case tree.HighlightGlobal:
			label += " " + StyleHighlight.Render(fmt.Sprintf("●%d", h.Index))
		case tree.HighlightCustom:
			label += " " + StyleHighlight.Render("● "+h.Color)
		}
	}
	return label
}
