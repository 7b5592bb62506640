package store

import (
	"context"
	"fmt"
	"time"

	"github.com/thecuz1/FacilityLocator-sub000/internal/model"
)

// ExportedFacility is the JSON interchange form of a facility.
type ExportedFacility struct {
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
	ItemServices    []string   `json:"item_services,omitempty"`
	VehicleServices []string   `json:"vehicle_services,omitempty"`
	CreationTime    *time.Time `json:"creation_time,omitempty"`
}

// Export converts a facility to its interchange form.
func Export(f *model.Facility) ExportedFacility {
	return ExportedFacility{
		ID:              f.ID,
		Name:            f.Name,
		Description:     f.Description,
		Region:          f.Region,
		Coordinates:     f.Coordinates,
		Marker:          f.Marker,
		Maintainer:      f.Maintainer,
		ImageURL:        f.ImageURL,
		ThreadID:        f.ThreadID,
		AuthorID:        f.AuthorID,
		GuildID:         f.GuildID,
		ItemServices:    f.ItemServices.Names(),
		VehicleServices: f.VehicleServices.Names(),
		CreationTime:    f.CreationTime,
	}
}

// Facility converts the interchange form back to an unpersisted facility.
func (e ExportedFacility) Facility() (*model.Facility, error) {
	f := model.NewFacility(e.Name, e.Region, e.Marker, e.Maintainer, e.AuthorID, e.GuildID)
	f.Description = e.Description
	f.Coordinates = e.Coordinates
	f.ImageURL = e.ImageURL
	f.ThreadID = e.ThreadID
	f.CreationTime = e.CreationTime

	var err error
	if f.ItemServices, err = model.ItemServices.FromNames(e.ItemServices); err != nil {
		return nil, err
	}
	if f.VehicleServices, err = model.VehicleServices.FromNames(e.VehicleServices); err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// ExportAll returns every facility, optionally restricted to one guild.
func (s *SQLiteStore) ExportAll(ctx context.Context, guildID int64) ([]ExportedFacility, error) {
	facilities, err := s.Query(ctx, BuildPredicate(Filter{GuildID: guildID}))
	if err != nil {
		return nil, err
	}
	out := make([]ExportedFacility, 0, len(facilities))
	for _, f := range facilities {
		out = append(out, Export(f))
	}
	return out, nil
}

// Import inserts exported facilities as new records. IDs are reassigned;
// authorship, guild and creation time are kept.
func (s *SQLiteStore) Import(ctx context.Context, facilities []ExportedFacility) (int, error) {
	imported := 0
	for _, e := range facilities {
		f, err := e.Facility()
		if err != nil {
			return imported, fmt.Errorf("facility %d (%s): %w", e.ID, e.Name, err)
		}
		if _, err := s.Insert(ctx, f); err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}
