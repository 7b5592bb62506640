package bot

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/oklog/ulid/v2"

	"github.com/thecuz1/FacilityLocator-sub000/internal/flowlock"
	"github.com/thecuz1/FacilityLocator-sub000/internal/model"
)

const customIDPrefix = "fe"

// Editor component actions.
const (
	actionItems    = "items"
	actionVehicles = "vehicles"
	actionConfirm  = "confirm"
	actionCancel   = "cancel"
)

var errNoChanges = errors.New("no changes made")

// editor is one open create or modify flow. Service selections update the
// facility in memory; nothing is persisted until confirm.
type editor struct {
	mu sync.Mutex // guards facility

	token       string
	userID      int64
	facility    *model.Facility
	interaction *discordgo.Interaction
	lease       flowlock.Lease // held for create flows only
	timer       *time.Timer
}

func newEditor(userID int64, f *model.Facility, i *discordgo.Interaction) *editor {
	return &editor{token: ulid.Make().String(), userID: userID, facility: f, interaction: i}
}

func (e *editor) creating() bool { return !e.facility.Persisted() }

func (e *editor) customID(action string) string {
	return customIDPrefix + ":" + e.token + ":" + action
}

// parseCustomID splits an editor component ID into token and action.
func parseCustomID(id string) (token, action string, ok bool) {
	parts := strings.Split(id, ":")
	if len(parts) != 3 || parts[0] != customIDPrefix {
		return "", "", false
	}
	return parts[1], parts[2], true
}

// apply handles a select menu change. Selections replace the whole set.
func (e *editor) apply(action string, values []string) error {
	switch action {
	case actionItems:
		set, err := model.ItemServices.FromNames(values)
		if err != nil {
			return err
		}
		e.facility.ItemServices = set
	case actionVehicles:
		set, err := model.VehicleServices.FromNames(values)
		if err != nil {
			return err
		}
		e.facility.VehicleServices = set
	default:
		return &model.ValidationError{Field: "action", Reason: "unknown editor action " + action}
	}
	return nil
}

// ready reports whether confirm may persist the facility.
func (e *editor) ready() error {
	if !e.facility.HasAnyService() {
		return &model.ValidationError{Field: "services", Reason: "select at least one item or vehicle service"}
	}
	if !e.creating() && !e.facility.Changed() {
		return errNoChanges
	}
	return nil
}

func (e *editor) title() string {
	if e.creating() {
		return "Create facility"
	}
	return "Modify facility"
}

// embed previews the facility as it would be saved.
func (e *editor) embed() *discordgo.MessageEmbed {
	em := detailEmbed(e.facility.DetailView())
	em.Author = &discordgo.MessageEmbedAuthor{Name: e.title()}
	return em
}

func serviceSelect(customID, placeholder string, set model.FlagSet, disabled bool) discordgo.SelectMenu {
	states := set.All()
	opts := make([]discordgo.SelectMenuOption, len(states))
	for i, st := range states {
		opts[i] = discordgo.SelectMenuOption{Label: st.Display, Value: st.Name, Default: st.Set}
	}
	minValues := 0
	return discordgo.SelectMenu{
		MenuType:    discordgo.StringSelectMenu,
		CustomID:    customID,
		Placeholder: placeholder,
		MinValues:   &minValues,
		MaxValues:   len(opts),
		Options:     opts,
		Disabled:    disabled,
	}
}

// components lays out the service selects and confirm/cancel buttons.
func (e *editor) components(disabled bool) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			serviceSelect(e.customID(actionItems), "Item services", e.facility.ItemServices, disabled),
		}},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			serviceSelect(e.customID(actionVehicles), "Vehicle services", e.facility.VehicleServices, disabled),
		}},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Label: "Confirm", Style: discordgo.SuccessButton, CustomID: e.customID(actionConfirm), Disabled: disabled},
			discordgo.Button{Label: "Cancel", Style: discordgo.DangerButton, CustomID: e.customID(actionCancel), Disabled: disabled},
		}},
	}
}

func (e *editor) release(ctx context.Context) error {
	if e.timer != nil {
		e.timer.Stop()
	}
	if e.lease == nil {
		return nil
	}
	return e.lease.Release(ctx)
}

// editors tracks open flows by token. take removes an editor so exactly one
// of confirm, cancel and timeout finishes it.
type editors struct {
	mu   sync.Mutex
	open map[string]*editor
}

func newEditors() *editors {
	return &editors{open: make(map[string]*editor)}
}

func (r *editors) add(e *editor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.open[e.token] = e
}

func (r *editors) get(token string) *editor {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.open[token]
}

func (r *editors) take(token string) *editor {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.open[token]
	delete(r.open, token)
	return e
}

func (r *editors) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.open)
}
