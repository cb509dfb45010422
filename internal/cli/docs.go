package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/arbor/pkg/editor"
	"github.com/matzehuels/arbor/pkg/pipeline"
	"github.com/matzehuels/arbor/pkg/store"
	"github.com/matzehuels/arbor/pkg/tree"
)

// docsCommand manages documents in a store: the local file store by
// default, or any backend store.Open understands via --store.
func (c *CLI) docsCommand() *cobra.Command {
	var location string

	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Manage stored tree documents",
		Long: `Manage stored tree documents.

Documents are kept in ~/.local/share/arbor/documents unless --store names
another backend, e.g. sqlite:///srv/arbor.db, redis://localhost:6379/0 or
mongodb://localhost:27017/arbor. The same stores back 'arbor serve'.`,
	}
	cmd.PersistentFlags().StringVar(&location, "store", "", "document store location")

	open := func(ctx context.Context) (store.Store, error) {
		return store.Open(ctx, location)
	}

	cmd.AddCommand(c.docsListCommand(open))
	cmd.AddCommand(c.docsImportCommand(open))
	cmd.AddCommand(c.docsExportCommand(open))
	cmd.AddCommand(c.docsDeleteCommand(open))

	return cmd
}

type storeOpener func(context.Context) (store.Store, error)

func (c *CLI) docsListCommand(open storeOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			docs, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(docs) == 0 {
				printInfo("No documents")
				return nil
			}
			fmt.Println(summaryTable(docs, time.Now()))
			return nil
		},
	}
}

func (c *CLI) docsImportCommand(open storeOpener) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "import [tree.json|tree.yaml]",
		Short: "Store a tree file as a new document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				name = filepath.Base(stem(args[0]))
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			root, err := pipeline.ReadTree(args[0])
			if err != nil {
				return err
			}
			ed := editor.FromTree(root)
			if _, err := ed.Layout(cfg.Layout); err != nil {
				return err
			}
			doc, err := store.NewDocument(name, ed.Export())
			if err != nil {
				return err
			}

			st, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.Put(cmd.Context(), doc); err != nil {
				return err
			}

			printSuccess("Stored %q", doc.Name)
			printKeyValue("id", doc.ID)
			printKeyValue("nodes", fmt.Sprint(tree.Count(doc.Tree)))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "document name (default: file name)")
	return cmd
}

func (c *CLI) docsExportCommand(open storeOpener) *cobra.Command {
	var (
		output string
		format string
	)
	cmd := &cobra.Command{
		Use:   "export [id]",
		Short: "Write a stored document to a tree file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			doc, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			f := tree.FormatFromPath(output)
			if format != "" {
				if f, err = tree.ParseFormat(format); err != nil {
					return err
				}
			}
			data, err := tree.Encode(doc.Tree, f)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err := os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess("Exported %q", doc.Name)
			printFile(output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&format, "format", "", "json or yaml (default: from the output extension)")
	return cmd
}

func (c *CLI) docsDeleteCommand(open storeOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a stored document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Deleted %s", args[0])
			return nil
		},
	}
}

// summaryTable renders document summaries as a table.
func summaryTable(docs []store.Summary, now time.Time) string {
	rows := make([][]string, len(docs))
	for i, d := range docs {
		rows[i] = []string{d.Name, fmt.Sprint(d.Nodes), formatRelativeTime(d.UpdatedAt, now), d.ID}
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Name", "Nodes", "Updated", "ID").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 1:
				return StyleNumber
			case col == 3:
				return StyleDim
			default:
				return StyleValue
			}
		}).
		String()
}

// formatRelativeTime formats t relative to now, e.g. "3h ago".
func formatRelativeTime(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
