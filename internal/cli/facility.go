package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/thecuz1/FacilityLocator-sub000/internal/model"
	"github.com/thecuz1/FacilityLocator-sub000/internal/store"
)

func init() {
	facilityCmd := &cobra.Command{
		Use:   "facility",
		Short: "Inspect and remove facilities",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List facilities",
		Run:   runFacilityList,
	}
	addListFlags(listCmd)

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one facility",
		Args:  cobra.ExactArgs(1),
		Run:   runFacilityGet,
	}

	rmCmd := &cobra.Command{
		Use:   "rm <id>...",
		Short: "Delete facilities",
		Args:  cobra.MinimumNArgs(1),
		Run:   runFacilityRm,
	}

	facilityCmd.AddCommand(listCmd, getCmd, rmCmd)
	RootCmd.AddCommand(facilityCmd)
}

func addListFlags(cmd *cobra.Command) {
	cmd.Flags().Int64P("guild", "g", 0, "Filter by guild ID")
	cmd.Flags().StringP("region", "r", "", "Filter by region")
	cmd.Flags().String("item", "", "Filter by item service")
	cmd.Flags().String("vehicle-service", "", "Filter by vehicle service")
	cmd.Flags().String("vehicle", "", "Filter by a vehicle any service can produce")
	cmd.Flags().Int64("author", 0, "Filter by author user ID")
	cmd.Flags().IntP("limit", "l", 0, "Max results (0 for no limit)")
}

// listFilter builds a store filter from the list command's flags.
func listFilter(cmd *cobra.Command) (store.Filter, error) {
	guild, _ := cmd.Flags().GetInt64("guild")
	region, _ := cmd.Flags().GetString("region")
	item, _ := cmd.Flags().GetString("item")
	vehicleService, _ := cmd.Flags().GetString("vehicle-service")
	vehicle, _ := cmd.Flags().GetString("vehicle")
	author, _ := cmd.Flags().GetInt64("author")
	limit, _ := cmd.Flags().GetInt("limit")

	f := store.Filter{GuildID: guild, AuthorID: author, Limit: limit}
	if region != "" {
		canonical, ok := model.CanonicalRegion(region)
		if !ok {
			return f, &model.ValidationError{Field: "region", Reason: fmt.Sprintf("%q is not a known region", region)}
		}
		f.Region = canonical
	}
	if item != "" {
		mask, err := model.ItemServices.Mask(item)
		if err != nil {
			return f, err
		}
		f.ItemServices = mask
	}
	if vehicleService != "" {
		mask, err := model.VehicleServices.Mask(vehicleService)
		if err != nil {
			return f, err
		}
		f.VehicleServices = mask
	}
	if vehicle != "" {
		producers := model.VehicleServices.ProducersOf(vehicle)
		if producers.IsEmpty() {
			return f, &model.ValidationError{Field: "vehicle", Reason: fmt.Sprintf("no facility service produces %q", vehicle)}
		}
		f.VehicleServices |= producers.Int()
	}
	return f, nil
}

func runFacilityList(cmd *cobra.Command, args []string) {
	filter, err := listFilter(cmd)
	if err != nil {
		exitErr("filter", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	facilities, err := s.Query(cmd.Context(), store.BuildPredicate(filter))
	if err != nil {
		exitErr("list", err)
	}

	if formatFlag == "text" {
		for _, f := range facilities {
			fmt.Fprintf(cmd.OutOrStdout(), "%s | %s\n", f.Region, f.ListLine())
		}
		return
	}

	out := make([]store.ExportedFacility, len(facilities))
	for i, f := range facilities {
		out[i] = store.Export(f)
	}
	printJSON(cmd, out)
}

func runFacilityGet(cmd *cobra.Command, args []string) {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		exitErr("parse id", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	f, err := s.GetByID(cmd.Context(), id)
	if err != nil {
		exitErr("get", err)
	}

	printJSON(cmd, store.Export(f))
}

func runFacilityRm(cmd *cobra.Command, args []string) {
	ids, err := parseIDArgs(args)
	if err != nil {
		exitErr("parse ids", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if err := s.DeleteMany(cmd.Context(), ids); err != nil {
		exitErr("rm", err)
	}
	logger.Info("facilities deleted", zap.Int64s("ids", ids))

	b, _ := json.Marshal(map[string]any{"ok": true, "deleted": ids})
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
}

func parseIDArgs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", a, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
