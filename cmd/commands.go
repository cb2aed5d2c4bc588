package cmd

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"termshell/internal/shell"
)

func newCommandsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "List the commands available in the shell",
		Long: `Lists the commands a shell session dispatches to, in the order the
help built-in shows them. help, ? and exit are always available as well.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := newRegistry()
			if err != nil {
				return err
			}
			renderCommands(cmd.OutOrStdout(), registry)
			return nil
		},
	}
}

// renderCommands writes the registered commands as a table.
func renderCommands(out io.Writer, registry *shell.Registry) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{
		text.FgHiCyan.Sprint("COMMAND"),
		text.FgHiCyan.Sprint("DESCRIPTION"),
	})
	for _, c := range registry.All() {
		t.AppendRow(table.Row{c.Name(), c.Help()})
	}
	t.Render()
}

func init() {
	rootCmd.AddCommand(newCommandsCmd())
}
