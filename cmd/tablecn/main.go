package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sadmann7/tablecn-sub001/grid"
	"github.com/sadmann7/tablecn-sub001/store"
	"github.com/sadmann7/tablecn-sub001/tui"
)

var (
	flagRowHeight string
	flagReadOnly  bool
	flagDemo      bool
)

func main() {
	root := &cobra.Command{
		Use:   "tablecn [data-dir]",
		Short: "terminal grid over automerge sheets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dataDir := "data"
			if len(args) > 0 {
				dataDir = args[0]
			}
			if err := os.MkdirAll(dataDir, 0o755); err != nil {
				return err
			}

			if flagDemo {
				if _, err := store.CreateDemoSheet(dataDir); err != nil {
					return fmt.Errorf("seed demo sheet: %w", err)
				}
			}

			rh, err := parseRowHeight(flagRowHeight)
			if err != nil {
				return err
			}

			m := tui.New(dataDir, tui.Options{
				RowHeight: rh,
				ReadOnly:  flagReadOnly,
			})
			p := tea.NewProgram(m, tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
	root.Flags().StringVar(&flagRowHeight, "row-height", "short", "row height: short, medium, tall, extra-tall")
	root.Flags().BoolVar(&flagReadOnly, "read-only", false, "open sheets without editing")
	root.Flags().BoolVar(&flagDemo, "demo", false, "seed a demo sheet before starting")

	query := &cobra.Command{
		Use:   "query <sql>",
		Short: "run SQL over stored sheets (@<sheet-id> references)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dataDir, _ := cmd.Flags().GetString("data-dir")
			cols, rows, err := store.ExecuteQuery(args[0], dataDir)
			if err != nil {
				return err
			}
			names := make([]string, len(cols))
			for i, c := range cols {
				names[i] = c.Name
			}
			fmt.Println(strings.Join(names, "\t"))
			for _, row := range rows {
				fields := make([]string, len(cols))
				for i, c := range cols {
					fields[i] = grid.FormatValue(row[c.ID])
				}
				fmt.Println(strings.Join(fields, "\t"))
			}
			return nil
		},
	}
	query.Flags().String("data-dir", "data", "sheet data directory")

	list := &cobra.Command{
		Use:   "list",
		Short: "list stored sheets",
		RunE: func(cmd *cobra.Command, args []string) error {
			dataDir, _ := cmd.Flags().GetString("data-dir")
			docs, err := store.Discover(dataDir)
			if err != nil {
				return err
			}
			for _, d := range docs {
				fmt.Printf("%s\t%s\t%dx%d\t%s\n", d.ID, d.Title, d.Cols, d.Rows, d.ModTime.Format("2006-01-02"))
			}
			return nil
		},
	}
	list.Flags().String("data-dir", "data", "sheet data directory")

	root.AddCommand(query, list)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func parseRowHeight(s string) (grid.RowHeight, error) {
	switch s {
	case "short":
		return grid.RowHeightShort, nil
	case "medium":
		return grid.RowHeightMedium, nil
	case "tall":
		return grid.RowHeightTall, nil
	case "extra-tall":
		return grid.RowHeightExtraTall, nil
	}
	return "", fmt.Errorf("unknown row height %q", s)
}
