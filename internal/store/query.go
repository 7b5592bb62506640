package store

import (
	"strings"
)

// Filter is a sparse set of search criteria. Zero values mean "no constraint".
type Filter struct {
	Region          string
	ItemServices    int64
	VehicleServices int64
	AuthorID        int64
	GuildID         int64
	IDs             []int64
	Limit           int
}

// Condition is one bound predicate term. SQL holds ? placeholders only;
// values are never interpolated into it.
type Condition struct {
	Column string
	SQL    string
	Args   []any
}

// Predicate is the conjunction of conditions produced by BuildPredicate.
type Predicate struct {
	Conditions []Condition
	Limit      int
}

// BuildPredicate translates a filter into bound conditions. Service masks
// match any record sharing at least one bit with the mask.
func BuildPredicate(f Filter) Predicate {
	var p Predicate

	if f.GuildID != 0 {
		p.Conditions = append(p.Conditions, Condition{Column: "guild_id", SQL: "guild_id = ?", Args: []any{f.GuildID}})
	}
	if region := strings.TrimSpace(f.Region); region != "" {
		p.Conditions = append(p.Conditions, Condition{Column: "region", SQL: "region = ?", Args: []any{region}})
	}
	if f.ItemServices != 0 {
		p.Conditions = append(p.Conditions, Condition{Column: "item_services", SQL: "(item_services & ?) != 0", Args: []any{f.ItemServices}})
	}
	if f.VehicleServices != 0 {
		p.Conditions = append(p.Conditions, Condition{Column: "vehicle_services", SQL: "(vehicle_services & ?) != 0", Args: []any{f.VehicleServices}})
	}
	if f.AuthorID != 0 {
		p.Conditions = append(p.Conditions, Condition{Column: "author", SQL: "author = ?", Args: []any{f.AuthorID}})
	}
	if len(f.IDs) > 0 {
		args := make([]any, len(f.IDs))
		for i, id := range f.IDs {
			args[i] = id
		}
		p.Conditions = append(p.Conditions, Condition{
			Column: "id",
			SQL:    "id IN (" + placeholders(len(f.IDs)) + ")",
			Args:   args,
		})
	}
	if f.Limit > 0 {
		p.Limit = f.Limit
	}
	return p
}

// Columns lists the columns the predicate constrains, in order.
func (p Predicate) Columns() []string {
	cols := make([]string, len(p.Conditions))
	for i, c := range p.Conditions {
		cols[i] = c.Column
	}
	return cols
}

// Where returns the WHERE clause body (without the keyword) and its args.
// An empty predicate yields "1 = 1".
func (p Predicate) Where() (string, []any) {
	if len(p.Conditions) == 0 {
		return "1 = 1", nil
	}
	where := make([]string, len(p.Conditions))
	var args []any
	for i, c := range p.Conditions {
		where[i] = c.SQL
		args = append(args, c.Args...)
	}
	return strings.Join(where, " AND "), args
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
