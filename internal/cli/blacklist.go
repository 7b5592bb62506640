package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/thecuz1/FacilityLocator-sub000/internal/store"
)

func init() {
	blacklistCmd := &cobra.Command{
		Use:   "blacklist",
		Short: "Manage blacklisted users and guilds",
	}

	addCmd := &cobra.Command{
		Use:   "add <id> [reason...]",
		Short: "Blacklist a user or guild ID",
		Args:  cobra.MinimumNArgs(1),
		Run:   runBlacklistAdd,
	}

	rmCmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove an ID from the blacklist",
		Args:  cobra.ExactArgs(1),
		Run:   runBlacklistRm,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List blacklisted IDs",
		Run:   runBlacklistList,
	}

	blacklistCmd.AddCommand(addCmd, rmCmd, listCmd)
	RootCmd.AddCommand(blacklistCmd)
}

func runBlacklistAdd(cmd *cobra.Command, args []string) {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		exitErr("parse id", err)
	}
	entry := store.BlacklistEntry{ObjectID: id, Reason: strings.Join(args[1:], " ")}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if err := s.AddBlacklist(cmd.Context(), entry); err != nil {
		exitErr("blacklist add", err)
	}
	logger.Info("blacklisted", zap.Int64("id", id), zap.String("reason", entry.Reason))

	b, _ := json.Marshal(entry)
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
}

func runBlacklistRm(cmd *cobra.Command, args []string) {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		exitErr("parse id", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if err := s.RemoveBlacklist(cmd.Context(), id); err != nil {
		exitErr("blacklist rm", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"id":%d}`+"\n", id)
}

func runBlacklistList(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	entries, err := s.ListBlacklist(cmd.Context())
	if err != nil {
		exitErr("blacklist list", err)
	}

	printJSON(cmd, entries)
}
