package feed

import (
	"strings"

	"github.com/lysyi3m/yearbook/app/wiki"
	"github.com/lysyi3m/yearbook/app/year"
)

type Filterer struct{}

func NewFilterer() *Filterer {
	return &Filterer{}
}

// Run returns a copy of data keeping the entries that contain every term of
// query, case-insensitively. The input is never modified.
func (f *Filterer) Run(data *year.Data, query string) *year.Data {
	terms := strings.Fields(strings.ToLower(query))
	if data == nil || len(terms) == 0 {
		return data
	}

	filtered := &year.Data{
		Summary:  data.Summary,
		Sections: make(map[wiki.SectionName][]string, len(data.Sections)),
	}

	for name, entries := range data.Sections {
		kept := make([]string, 0, len(entries))
		for _, entry := range entries {
			if f.matchesAll(entry, terms) {
				kept = append(kept, entry)
			}
		}
		filtered.Sections[name] = kept
	}

	return filtered
}

func (f *Filterer) matchesAll(value string, terms []string) bool {
	value = strings.ToLower(value)
	for _, term := range terms {
		if !strings.Contains(value, term) {
			return false
		}
	}
	return true
}
