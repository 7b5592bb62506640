// Package model defines the facility data types and service flag sets.
package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Field length limits.
const (
	MaxNameLen        = 100
	MaxMaintainerLen  = 200
	MaxDescriptionLen = 1024
	MaxImageURLLen    = 300
)

// Facility is a user-submitted record describing an in-game location's services.
//
// Fields are mutated directly; Changed compares them against the snapshot
// taken at construction, load, or the last MarkPersisted call.
type Facility struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Description     string     `json:"description,omitempty"`
	Region          string     `json:"region"`
	Coordinates     string     `json:"coordinates,omitempty"`
	Marker          string     `json:"marker"`
	Maintainer      string     `json:"maintainer"`
	ImageURL        string     `json:"image_url,omitempty"`
	ThreadID        int64      `json:"thread_id,omitempty"`
	AuthorID        int64      `json:"author_id"`
	GuildID         int64      `json:"guild_id"`
	ItemServices    FlagSet    `json:"-"`
	VehicleServices FlagSet    `json:"-"`
	CreationTime    *time.Time `json:"creation_time,omitempty"`

	snapshot facilityState
}

// facilityState is every mutable field, comparable with ==.
type facilityState struct {
	name, description, region, coordinates, marker, maintainer, imageURL string
	threadID                                                             int64
	items, vehicles                                                      int64
	created                                                              int64
}

// NewFacility returns an unpersisted facility with empty service sets.
func NewFacility(name, region, marker, maintainer string, authorID, guildID int64) *Facility {
	f := &Facility{
		Name:            name,
		Region:          region,
		Marker:          marker,
		Maintainer:      maintainer,
		AuthorID:        authorID,
		GuildID:         guildID,
		ItemServices:    ItemServices.Empty(),
		VehicleServices: VehicleServices.Empty(),
	}
	f.MarkPersisted()
	return f
}

func (f *Facility) state() facilityState {
	st := facilityState{
		name:        f.Name,
		description: f.Description,
		region:      f.Region,
		coordinates: f.Coordinates,
		marker:      f.Marker,
		maintainer:  f.Maintainer,
		imageURL:    f.ImageURL,
		threadID:    f.ThreadID,
		items:       f.ItemServices.Int(),
		vehicles:    f.VehicleServices.Int(),
	}
	if f.CreationTime != nil {
		st.created = f.CreationTime.UnixNano()
	}
	return st
}

// MarkPersisted refreshes the change-tracking snapshot to the current state.
func (f *Facility) MarkPersisted() { f.snapshot = f.state() }

// Changed reports whether any mutable field differs from the snapshot.
func (f *Facility) Changed() bool { return f.state() != f.snapshot }

// Persisted reports whether the store has assigned an ID.
func (f *Facility) Persisted() bool { return f.ID != 0 }

// CanModify reports whether the actor may edit or delete the facility.
// Admin status is decided by the caller.
func (f *Facility) CanModify(actorID int64, isAdmin bool) bool {
	return isAdmin || actorID == f.AuthorID
}

// HasAnyService is true iff either service set is non-empty.
func (f *Facility) HasAnyService() bool {
	return !f.ItemServices.IsEmpty() || !f.VehicleServices.IsEmpty()
}

// Validate checks text limits and canonicalises region, marker and coordinates.
func (f *Facility) Validate() error {
	limits := []struct {
		field string
		value string
		max   int
	}{
		{"name", f.Name, MaxNameLen},
		{"maintainer", f.Maintainer, MaxMaintainerLen},
		{"description", f.Description, MaxDescriptionLen},
		{"image url", f.ImageURL, MaxImageURLLen},
	}
	for _, l := range limits {
		if n := utf8.RuneCountInString(l.value); n > l.max {
			return &ValidationError{Field: l.field, Reason: fmt.Sprintf("%d characters exceeds limit of %d", n, l.max)}
		}
	}
	if strings.TrimSpace(f.Name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if strings.TrimSpace(f.Maintainer) == "" {
		return &ValidationError{Field: "maintainer", Reason: "must not be empty"}
	}

	region, ok := CanonicalRegion(f.Region)
	if !ok {
		return &ValidationError{Field: "region", Reason: fmt.Sprintf("%q is not a known region", f.Region)}
	}
	f.Region = region

	marker, ok := CanonicalMarker(region, f.Marker)
	if !ok {
		return &ValidationError{Field: "marker", Reason: fmt.Sprintf("%q is not a known location in %s", f.Marker, region)}
	}
	f.Marker = marker

	if f.Coordinates != "" {
		c, ok := CanonicalCoordinates(f.Coordinates)
		if !ok {
			return &ValidationError{Field: "coordinates", Reason: fmt.Sprintf("%q is not a grid reference like G12k3", f.Coordinates)}
		}
		f.Coordinates = c
	}

	if f.ImageURL != "" && !strings.HasPrefix(f.ImageURL, "https://") && !strings.HasPrefix(f.ImageURL, "http://") {
		return &ValidationError{Field: "image url", Reason: "must be an http(s) link"}
	}
	return nil
}

// ListLine formats the facility as one line of the guild list.
func (f *Facility) ListLine() string {
	if f.ThreadID != 0 {
		return fmt.Sprintf("%d | <#%d>", f.ID, f.ThreadID)
	}
	return fmt.Sprintf("%d | %s | %s", f.ID, f.Name, f.Marker)
}

// DetailField is a named block of a detail view.
type DetailField struct {
	Name   string
	Value  string
	Inline bool
}

// DetailView is the presentation-neutral detail rendering of a facility.
type DetailView struct {
	Title       string
	Description string
	Fields      []DetailField
	ImageURL    string
	Footer      string
	Timestamp   *time.Time
}

// DetailView renders the facility for a single-record view.
func (f *Facility) DetailView() DetailView {
	location := f.Marker
	if f.Coordinates != "" {
		location += " (" + f.Coordinates + ")"
	}
	v := DetailView{
		Title:       f.Name,
		Description: f.Description,
		ImageURL:    f.ImageURL,
		Timestamp:   f.CreationTime,
		Fields: []DetailField{
			{Name: "Region", Value: f.Region, Inline: true},
			{Name: "Location", Value: location, Inline: true},
			{Name: "Maintainer", Value: f.Maintainer, Inline: true},
			{Name: "Author", Value: "<@" + strconv.FormatInt(f.AuthorID, 10) + ">", Inline: true},
		},
	}
	if f.ThreadID != 0 {
		v.Fields = append(v.Fields, DetailField{Name: "Thread", Value: fmt.Sprintf("<#%d>", f.ThreadID), Inline: true})
	}
	if s := f.ItemServices.String(); s != "" {
		v.Fields = append(v.Fields, DetailField{Name: "Item Services", Value: s})
	}
	if s := f.VehicleServices.String(); s != "" {
		v.Fields = append(v.Fields, DetailField{Name: "Vehicle Services", Value: s})
	}
	if f.ID != 0 {
		v.Footer = fmt.Sprintf("ID %d", f.ID)
	}
	return v
}
