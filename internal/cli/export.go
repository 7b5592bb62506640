package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export facilities as JSON",
		Long:  "Export facilities as a JSON array. Filter by guild with -g.",
		Run:   runExport,
	}

	cmd.Flags().Int64P("guild", "g", 0, "Filter by guild ID")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	guild, _ := cmd.Flags().GetInt64("guild")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	facilities, err := s.ExportAll(cmd.Context(), guild)
	if err != nil {
		exitErr("export", err)
	}

	printJSON(cmd, facilities)
}
