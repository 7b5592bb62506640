package bot

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/thecuz1/FacilityLocator-sub000/internal/model"
	"github.com/thecuz1/FacilityLocator-sub000/internal/store"
)

const maxChoices = 25

type options map[string]*discordgo.ApplicationCommandInteractionDataOption

func optionMap(opts []*discordgo.ApplicationCommandInteractionDataOption) options {
	m := make(options, len(opts))
	for _, o := range opts {
		m[o.Name] = o
	}
	return m
}

// subcommand splits command data into the subcommand name and its options.
func subcommand(data discordgo.ApplicationCommandInteractionData) (string, options) {
	if len(data.Options) > 0 && data.Options[0].Type == discordgo.ApplicationCommandOptionSubCommand {
		return data.Options[0].Name, optionMap(data.Options[0].Options)
	}
	return "", optionMap(data.Options)
}

func (o options) str(name string) (string, bool) {
	opt, ok := o[name]
	if !ok {
		return "", false
	}
	s, _ := opt.Value.(string)
	return strings.TrimSpace(s), true
}

func (o options) integer(name string) (int64, bool) {
	opt, ok := o[name]
	if !ok {
		return 0, false
	}
	switch v := opt.Value.(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	}
	return 0, false
}

// id reads a user, channel or role option as a snowflake.
func (o options) id(name string) (int64, bool, error) {
	opt, ok := o[name]
	if !ok {
		return 0, false, nil
	}
	s, _ := opt.Value.(string)
	id, err := parseID(s)
	return id, true, err
}

func (o options) focused() (string, string, bool) {
	for name, opt := range o {
		if opt.Focused {
			s, _ := opt.Value.(string)
			return name, s, true
		}
	}
	return "", "", false
}

// parseIDList parses "1, 2 3" into unique IDs in input order.
func parseIDList(s string) ([]int64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	seen := make(map[int64]bool, len(fields))
	var ids []int64
	for _, f := range fields {
		id, err := strconv.ParseInt(f, 10, 64)
		if err != nil || id <= 0 {
			return nil, &model.ValidationError{Field: "ids", Reason: fmt.Sprintf("%q is not a facility ID", f)}
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, &model.ValidationError{Field: "ids", Reason: "no facility IDs given"}
	}
	return ids, nil
}

// applyFacilityOptions copies any provided editable fields onto f.
func applyFacilityOptions(f *model.Facility, o options) error {
	if v, ok := o.str("name"); ok {
		f.Name = v
	}
	if v, ok := o.str("region"); ok {
		f.Region = v
	}
	if v, ok := o.str("marker"); ok {
		f.Marker = v
	}
	if v, ok := o.str("maintainer"); ok {
		f.Maintainer = v
	}
	if v, ok := o.str("coordinates"); ok {
		f.Coordinates = v
	}
	if v, ok := o.str("description"); ok {
		f.Description = v
	}
	if v, ok := o.str("image_url"); ok {
		f.ImageURL = v
	}
	thread, ok, err := o.id("thread")
	if err != nil {
		return &model.ValidationError{Field: "thread", Reason: err.Error()}
	}
	if ok {
		f.ThreadID = thread
	}
	return nil
}

// searchFilter builds a query filter from /facility search options.
func searchFilter(guildID int64, o options) (store.Filter, error) {
	f := store.Filter{GuildID: guildID}

	if v, ok := o.str("region"); ok && v != "" {
		region, known := model.CanonicalRegion(v)
		if !known {
			return f, &model.ValidationError{Field: "region", Reason: fmt.Sprintf("%q is not a known region", v)}
		}
		f.Region = region
	}
	if v, ok := o.str("item_service"); ok && v != "" {
		mask, err := model.ItemServices.Mask(v)
		if err != nil {
			return f, err
		}
		f.ItemServices = mask
	}
	if v, ok := o.str("vehicle_service"); ok && v != "" {
		mask, err := model.VehicleServices.Mask(v)
		if err != nil {
			return f, err
		}
		f.VehicleServices = mask
	}
	if v, ok := o.str("vehicle"); ok && v != "" {
		producers := model.VehicleServices.ProducersOf(v)
		if producers.IsEmpty() {
			return f, &model.ValidationError{Field: "vehicle", Reason: fmt.Sprintf("no facility service produces %q", v)}
		}
		f.VehicleServices |= producers.Int()
	}
	author, ok, err := o.id("author")
	if err != nil {
		return f, &model.ValidationError{Field: "author", Reason: err.Error()}
	}
	if ok {
		f.AuthorID = author
	}
	return f, nil
}

// autocompleteChoices suggests values for the focused option.
func autocompleteChoices(o options) []*discordgo.ApplicationCommandOptionChoice {
	name, typed, ok := o.focused()
	if !ok {
		return nil
	}
	var candidates []string
	switch name {
	case "region":
		candidates = model.Regions()
	case "marker":
		regionInput, _ := o.str("region")
		region, known := model.CanonicalRegion(regionInput)
		if !known {
			return nil
		}
		candidates = append(candidates, model.Markers[region]...)
		sort.Strings(candidates)
	case "vehicle":
		candidates = model.VehicleServices.Vehicles()
	default:
		return nil
	}
	return matchChoices(candidates, typed)
}

func matchChoices(candidates []string, typed string) []*discordgo.ApplicationCommandOptionChoice {
	typed = strings.ToLower(strings.TrimSpace(typed))
	out := make([]*discordgo.ApplicationCommandOptionChoice, 0, maxChoices)
	for _, c := range candidates {
		if typed != "" && !strings.Contains(strings.ToLower(c), typed) {
			continue
		}
		out = append(out, &discordgo.ApplicationCommandOptionChoice{Name: c, Value: c})
		if len(out) == maxChoices {
			break
		}
	}
	return out
}
