package bot

import (
	"github.com/bwmarrin/discordgo"

	"github.com/thecuz1/FacilityLocator-sub000/internal/model"
)

var manageGuild int64 = discordgo.PermissionManageGuild

func serviceChoices(reg *model.FlagRegistry) []*discordgo.ApplicationCommandOptionChoice {
	flags := reg.Flags()
	out := make([]*discordgo.ApplicationCommandOptionChoice, len(flags))
	for i, f := range flags {
		out[i] = &discordgo.ApplicationCommandOptionChoice{Name: f.Display, Value: f.Name}
	}
	return out
}

func facilityFieldOptions(required bool) []*discordgo.ApplicationCommandOption {
	return []*discordgo.ApplicationCommandOption{
		{Type: discordgo.ApplicationCommandOptionString, Name: "name", Description: "Facility name", Required: required, MaxLength: model.MaxNameLen},
		{Type: discordgo.ApplicationCommandOptionString, Name: "region", Description: "Region the facility is in", Required: required, Autocomplete: true},
		{Type: discordgo.ApplicationCommandOptionString, Name: "marker", Description: "Nearest location marker", Required: required, Autocomplete: true},
		{Type: discordgo.ApplicationCommandOptionString, Name: "maintainer", Description: "Who maintains the facility", Required: required, MaxLength: model.MaxMaintainerLen},
		{Type: discordgo.ApplicationCommandOptionString, Name: "coordinates", Description: "Grid reference, e.g. G12k3"},
		{Type: discordgo.ApplicationCommandOptionString, Name: "description", Description: "Extra details", MaxLength: model.MaxDescriptionLen},
		{Type: discordgo.ApplicationCommandOptionString, Name: "image_url", Description: "Link to a screenshot", MaxLength: model.MaxImageURLLen},
	}
}

// Commands returns the application commands the bot registers.
func Commands() []*discordgo.ApplicationCommand {
	modify := append([]*discordgo.ApplicationCommandOption{
		{Type: discordgo.ApplicationCommandOptionInteger, Name: "id", Description: "Facility ID", Required: true},
	}, facilityFieldOptions(false)...)
	modify = append(modify, &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionChannel,
		Name:         "thread",
		Description:  "Discussion thread for the facility",
		ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildPublicThread},
	})

	return []*discordgo.ApplicationCommand{
		{
			Name:        "facility",
			Description: "Register and find facilities",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "create",
					Description: "Register a new facility",
					Options:     facilityFieldOptions(true),
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "modify",
					Description: "Change a facility you registered",
					Options:     modify,
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "remove",
					Description: "Remove facilities",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "ids", Description: "Comma separated facility IDs", Required: true},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "view",
					Description: "Show one facility",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionInteger, Name: "id", Description: "Facility ID", Required: true},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "search",
					Description: "Find facilities",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "region", Description: "Region", Autocomplete: true},
						{Type: discordgo.ApplicationCommandOptionString, Name: "item_service", Description: "Item service offered", Choices: serviceChoices(model.ItemServices)},
						{Type: discordgo.ApplicationCommandOptionString, Name: "vehicle_service", Description: "Vehicle service offered", Choices: serviceChoices(model.VehicleServices)},
						{Type: discordgo.ApplicationCommandOptionString, Name: "vehicle", Description: "Vehicle that can be built", Autocomplete: true},
						{Type: discordgo.ApplicationCommandOptionUser, Name: "author", Description: "Who registered the facility"},
					},
				},
			},
		},
		{
			Name:                     "list",
			Description:              "Manage the facility list",
			DefaultMemberPermissions: &manageGuild,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "set",
					Description: "Post the facility list in a channel",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:         discordgo.ApplicationCommandOptionChannel,
							Name:         "channel",
							Description:  "Channel for the list",
							Required:     true,
							ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
						},
					},
				},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "refresh", Description: "Re-render the facility list"},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "remove", Description: "Remove the facility list"},
			},
		},
		{
			Name:                     "logs",
			Description:              "Show recent facility activity",
			DefaultMemberPermissions: &manageGuild,
		},
	}
}
