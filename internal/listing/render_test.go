package listing

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thecuz1/FacilityLocator-sub000/internal/model"
)

func facility(id int64, name, region, marker string) *model.Facility {
	f := model.NewFacility(name, region, marker, "Alice", 1, 100)
	f.ID = id
	return f
}

func assertLimits(t *testing.T, pages []Page) {
	t.Helper()
	for i, p := range pages {
		assert.LessOrEqual(t, p.Size(), MaxPageChars, "page %d size", i)
		assert.LessOrEqual(t, len(p.Sections), MaxSections, "page %d sections", i)
		for j, s := range p.Sections {
			assert.LessOrEqual(t, utf8.RuneCountInString(s.Value()), MaxSectionChars, "page %d section %d", i, j)
			assert.NotEmpty(t, s.Lines, "page %d section %d", i, j)
		}
	}
}

func TestRenderSmallListIsOnePage(t *testing.T) {
	var facilities []*model.Facility
	for i := 1; i <= 30; i++ {
		region, marker := "Westgate", "North Ridge"
		if i%2 == 0 {
			region, marker = "Deadlands", "The Pits"
		}
		facilities = append(facilities, facility(int64(i), fmt.Sprintf("Depot %d", i), region, marker))
	}

	pages := Render(facilities, Options{Title: "Facilities"})
	require.Len(t, pages, 1)
	require.Len(t, pages[0].Sections, 2)

	assert.Equal(t, "Deadlands (15)", pages[0].Sections[0].Name())
	assert.Equal(t, "Westgate (15)", pages[0].Sections[1].Name())
	assert.Equal(t, "2 | Depot 2 | The Pits", pages[0].Sections[0].Lines[0])
	assert.Equal(t, "Facilities", pages[0].Title)
	assertLimits(t, pages)
}

func TestRenderLargeListSpansPages(t *testing.T) {
	longName := strings.Repeat("x", 90)
	var facilities []*model.Facility
	for i := 1; i <= 2000; i++ {
		facilities = append(facilities, facility(int64(i), longName, "Westgate", "North Ridge"))
	}

	pages := Render(facilities, Options{Title: "Facilities"})
	require.GreaterOrEqual(t, len(pages), 2)
	assertLimits(t, pages)

	total := 0
	for i, p := range pages {
		for j, s := range p.Sections {
			total += len(s.Lines)
			if i == 0 && j == 0 {
				assert.False(t, s.Continued)
				assert.Equal(t, fmt.Sprintf("Westgate (%d)", len(s.Lines)), s.Name())
				continue
			}
			assert.True(t, s.Continued, "page %d section %d", i, j)
			assert.Equal(t, fmt.Sprintf("Westgate (cont.) (%d)", len(s.Lines)), s.Name())
		}
		if i > 0 {
			assert.Empty(t, p.Title)
		}
	}
	assert.Equal(t, 2000, total)
}

func TestRenderEveryRegion(t *testing.T) {
	var facilities []*model.Facility
	id := int64(1)
	for _, region := range model.Regions() {
		for _, marker := range model.Markers[region] {
			for k := 0; k < 20; k++ {
				facilities = append(facilities, facility(id, strings.Repeat("y", 60), region, marker))
				id++
			}
		}
	}

	pages := Render(facilities, Options{})
	assertLimits(t, pages)

	// Regions appear in sorted order and each facility exactly once.
	var regions []string
	count := 0
	for _, p := range pages {
		for _, s := range p.Sections {
			if !s.Continued {
				regions = append(regions, s.Region)
			}
			count += len(s.Lines)
		}
	}
	assert.Equal(t, model.Regions(), regions)
	assert.Equal(t, len(facilities), count)
}

func TestRenderSortsWithinRegionByID(t *testing.T) {
	pages := Render([]*model.Facility{
		facility(3, "C", "Westgate", "North Ridge"),
		facility(1, "A", "Westgate", "North Ridge"),
		facility(2, "B", "Deadlands", "The Pits"),
	}, Options{})

	require.Len(t, pages, 1)
	require.Len(t, pages[0].Sections, 2)
	assert.Equal(t, []string{"2 | B | The Pits"}, pages[0].Sections[0].Lines)
	assert.Equal(t, []string{"1 | A | North Ridge", "3 | C | North Ridge"}, pages[0].Sections[1].Lines)
}

func TestRenderEmpty(t *testing.T) {
	pages := Render(nil, Options{Title: "Facilities"})
	require.Len(t, pages, 1)
	assert.Empty(t, pages[0].Sections)
}

func TestRenderThreadLine(t *testing.T) {
	f := facility(5, "Depot", "Westgate", "North Ridge")
	f.ThreadID = 999
	pages := Render([]*model.Facility{f}, Options{})
	assert.Equal(t, []string{"5 | <#999>"}, pages[0].Sections[0].Lines)
}

func TestRenderDoesNotReorderInput(t *testing.T) {
	in := []*model.Facility{
		facility(2, "B", "Westgate", "North Ridge"),
		facility(1, "A", "Deadlands", "The Pits"),
	}
	Render(in, Options{})
	assert.Equal(t, int64(2), in[0].ID)
}
