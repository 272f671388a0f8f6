package api

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/yearbook/app/wiki"
	"github.com/lysyi3m/yearbook/app/year"
)

const (
	flashCookie    = "flash"
	flashMaxAge    = 60
	invalidYearMsg = "Please enter a valid year (e.g., 1991)."
)

type summaryView struct {
	Title       string
	Description string
	Thumbnail   string
}

type sectionView struct {
	Name   string
	Anchor string
	Items  []string
}

type yearView struct {
	Year     int
	Prev     int
	Next     int
	Summary  *summaryView
	Sections []sectionView
}

func newYearView(y int, data *year.Data) yearView {
	view := yearView{Year: y}

	if y > 1 {
		view.Prev = y - 1
	}
	if y < year.CurrentYear() {
		view.Next = y + 1
	}

	if s := data.Summary; s != nil {
		view.Summary = &summaryView{
			Title:       deref(s.Title),
			Description: deref(s.Description),
			Thumbnail:   deref(s.Thumbnail),
		}
	}

	for _, name := range wiki.DefaultSections {
		view.Sections = append(view.Sections, sectionView{
			Name:   string(name),
			Anchor: strings.ToLower(string(name)),
			Items:  data.Sections[name],
		})
	}

	return view
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func setFlash(c *gin.Context, message string) {
	c.SetCookie(flashCookie, message, flashMaxAge, "/", "", false, true)
}

// popFlash returns the pending flash message and clears it.
func popFlash(c *gin.Context) string {
	message, err := c.Cookie(flashCookie)
	if err != nil || message == "" {
		return ""
	}
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)
	return message
}
