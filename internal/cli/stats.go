package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thecuz1/FacilityLocator-sub000/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show facility, list binding and blacklist counts",
		Run:   runStats,
	}

	cmd.Flags().Int64P("guild", "g", 0, "Only report this guild's counts")

	RootCmd.AddCommand(cmd)
}

// onlyGuild keeps the per-guild row for guildID. Zero keeps every row.
func onlyGuild(st *store.Stats, guildID int64) {
	if guildID == 0 {
		return
	}
	var kept []store.GuildStats
	for _, g := range st.Guilds {
		if g.GuildID == guildID {
			kept = append(kept, g)
		}
	}
	st.Guilds = kept
}

func runStats(cmd *cobra.Command, args []string) {
	guild, _ := cmd.Flags().GetInt64("guild")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	st, err := s.Stats(cmd.Context(), getDBPath())
	if err != nil {
		exitErr("stats", err)
	}
	onlyGuild(st, guild)

	if formatFlag != "text" {
		printJSON(cmd, st)
		return
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "db: %s (%d bytes)\n", st.DBPath, st.DBSizeBytes)
	fmt.Fprintf(out, "facilities: %d\n", st.TotalFacilities)
	fmt.Fprintf(out, "list bindings: %d\n", st.ListBindings)
	fmt.Fprintf(out, "blacklisted: %d\n", st.Blacklisted)
	for _, g := range st.Guilds {
		fmt.Fprintf(out, "guild %d: %d facilities, %d regions, %d authors\n", g.GuildID, g.Facilities, g.Regions, g.Authors)
	}
}
