package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "guilds",
		Short: "List guilds with registered facilities",
		Run:   runGuilds,
	}

	RootCmd.AddCommand(cmd)
}

func runGuilds(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	rows, err := s.GuildStats(cmd.Context())
	if err != nil {
		exitErr("guild stats", err)
	}

	printJSON(cmd, rows)
}
