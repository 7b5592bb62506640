// Package listing packs facilities into embed-sized pages and keeps a guild's
// posted list messages in sync with them.
package listing

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/thecuz1/FacilityLocator-sub000/internal/model"
)

// Discord embed limits.
const (
	MaxSections     = 25
	MaxSectionChars = 1024
	MaxPageChars    = 6000
)

// Section is one embed field: a run of list lines from a single region.
type Section struct {
	Region    string
	Continued bool
	Lines     []string
}

// Name is the field title, carrying the running entry count.
func (s Section) Name() string {
	cont := ""
	if s.Continued {
		cont = " (cont.)"
	}
	return fmt.Sprintf("%s%s (%d)", s.Region, cont, len(s.Lines))
}

// Value is the field body.
func (s Section) Value() string { return strings.Join(s.Lines, "\n") }

// Size is the character cost of the section.
func (s Section) Size() int {
	return utf8.RuneCountInString(s.Name()) + utf8.RuneCountInString(s.Value())
}

// Page is one message's worth of packed list content.
type Page struct {
	Title    string
	Sections []Section
}

// Size is the character cost of the page: title plus every section.
func (p Page) Size() int {
	n := utf8.RuneCountInString(p.Title)
	for _, s := range p.Sections {
		n += s.Size()
	}
	return n
}

// Options configures rendering.
type Options struct {
	// Title is set on the first page and counts toward its size.
	Title string
}

// Render sorts facilities by region (byte order of the canonical region
// name, then ID) and greedily packs one line per facility into pages.
// Zero facilities yield a single page with no sections.
func Render(facilities []*model.Facility, opts Options) []Page {
	sorted := make([]*model.Facility, len(facilities))
	copy(sorted, facilities)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Region != sorted[j].Region {
			return sorted[i].Region < sorted[j].Region
		}
		return sorted[i].ID < sorted[j].ID
	})

	p := &packer{}
	p.newPage(opts.Title)
	for _, f := range sorted {
		p.add(f.Region, f.ListLine())
	}
	return p.pages
}

type packer struct {
	pages []Page
	size  int // size of the current page
}

func (p *packer) current() *Page { return &p.pages[len(p.pages)-1] }

func (p *packer) newPage(title string) {
	p.pages = append(p.pages, Page{Title: title})
	p.size = utf8.RuneCountInString(title)
}

// seen reports whether any section for region exists on any page so far.
func (p *packer) seen(region string) bool {
	for i := len(p.pages) - 1; i >= 0; i-- {
		for _, s := range p.pages[i].Sections {
			if s.Region == region {
				return true
			}
		}
	}
	return false
}

func (p *packer) add(region, line string) {
	page := p.current()

	// Extend the open section if it is for this region and still fits.
	if n := len(page.Sections); n > 0 && page.Sections[n-1].Region == region {
		last := page.Sections[n-1]
		grown := Section{Region: last.Region, Continued: last.Continued, Lines: append(last.Lines[:len(last.Lines):len(last.Lines)], line)}
		if utf8.RuneCountInString(grown.Value()) <= MaxSectionChars {
			size := p.size - last.Size() + grown.Size()
			if size <= MaxPageChars {
				page.Sections[n-1] = grown
				p.size = size
				return
			}
			p.newPage("")
			p.startSection(region, line)
			return
		}
	}
	p.startSection(region, line)
}

// startSection opens a section on the current page, moving to a new page
// when the page is out of sections or characters.
func (p *packer) startSection(region, line string) {
	s := Section{Region: region, Continued: p.seen(region), Lines: []string{line}}
	page := p.current()
	if len(page.Sections) >= MaxSections || p.size+s.Size() > MaxPageChars {
		if len(page.Sections) > 0 {
			p.newPage("")
			page = p.current()
		}
	}
	page.Sections = append(page.Sections, s)
	p.size += s.Size()
}
