package feed

import (
	"slices"
	"testing"

	"github.com/lysyi3m/yearbook/app/wiki"
	"github.com/lysyi3m/yearbook/app/year"
)

func sampleData() *year.Data {
	return &year.Data{
		Summary: &wiki.Summary{Title: strPtr("1969")},
		Sections: map[wiki.SectionName][]string{
			wiki.Events: {
				"July 20 – Apollo 11 lands on the Moon.",
				"August 15 – Woodstock festival opens.",
			},
			wiki.Births: {"March 4 – Someone born on the moon base"},
			wiki.Deaths: {},
		},
	}
}

func TestFiltererRun(t *testing.T) {
	filterer := NewFilterer()
	data := sampleData()

	tests := []struct {
		name   string
		query  string
		events []string
		births []string
	}{
		{
			name:   "single term case-insensitive",
			query:  "MOON",
			events: []string{"July 20 – Apollo 11 lands on the Moon."},
			births: []string{"March 4 – Someone born on the moon base"},
		},
		{
			name:   "all terms must match",
			query:  "apollo moon",
			events: []string{"July 20 – Apollo 11 lands on the Moon."},
			births: []string{},
		},
		{
			name:   "no match",
			query:  "zeppelin",
			events: []string{},
			births: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := filterer.Run(data, tt.query)

			if !slices.Equal(result.Sections[wiki.Events], tt.events) {
				t.Errorf("Expected events %v, got %v", tt.events, result.Sections[wiki.Events])
			}
			if !slices.Equal(result.Sections[wiki.Births], tt.births) {
				t.Errorf("Expected births %v, got %v", tt.births, result.Sections[wiki.Births])
			}
			if result.Sections[wiki.Deaths] == nil {
				t.Error("Expected sections to stay non-nil")
			}
			if result.Summary != data.Summary {
				t.Error("Expected summary to be carried over")
			}
		})
	}

	if len(data.Sections[wiki.Events]) != 2 {
		t.Errorf("Input must not be modified, got %v", data.Sections[wiki.Events])
	}
}

func TestFiltererEmptyQuery(t *testing.T) {
	data := sampleData()

	if result := NewFilterer().Run(data, "   "); result != data {
		t.Error("Expected blank query to return the input unchanged")
	}
	if result := NewFilterer().Run(nil, "moon"); result != nil {
		t.Error("Expected nil input to stay nil")
	}
}
