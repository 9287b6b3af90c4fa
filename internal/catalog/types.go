package catalog

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Scene is the subset of a catalog scene record shown during review.
type Scene struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Details      string        `json:"details"`
	ReleaseDate  string        `json:"release_date"`
	Duration     int           `json:"duration"`
	Director     string        `json:"director"`
	Code         string        `json:"code"`
	Deleted      bool          `json:"deleted"`
	Studio       *Studio       `json:"studio"`
	Images       []Image       `json:"images"`
	Performers   []Performance `json:"performers"`
	Tags         []Tag         `json:"tags"`
	Fingerprints []Fingerprint `json:"fingerprints"`
	URLs         []URL         `json:"urls"`
}

type Studio struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Image struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Performance is a performer credited on a scene, possibly under another name.
type Performance struct {
	As        string    `json:"as"`
	Performer Performer `json:"performer"`
}

type Performer struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Disambiguation string `json:"disambiguation"`
	Gender         string `json:"gender"`
	Deleted        bool   `json:"deleted"`
}

type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Fingerprint is a perceptual or file hash submitted for a scene.
type Fingerprint struct {
	Algorithm     string `json:"algorithm"`
	Hash          string `json:"hash"`
	Duration      int    `json:"duration"`
	Submissions   int    `json:"submissions"`
	UserSubmitted bool   `json:"user_submitted"`
}

type URL struct {
	URL  string `json:"url"`
	Site Site   `json:"site"`
}

type Site struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// StudioName returns the studio name or an empty string.
func (s *Scene) StudioName() string {
	if s == nil || s.Studio == nil {
		return ""
	}
	return s.Studio.Name
}

// StudioURL returns the first link whose site is "Studio".
func (s *Scene) StudioURL() string {
	if s == nil {
		return ""
	}
	for _, u := range s.URLs {
		if strings.EqualFold(u.Site.Name, "Studio") {
			return u.URL
		}
	}
	return ""
}

// SortedTags returns the tag names ordered case-insensitively.
func (s *Scene) SortedTags() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.Tags))
	for _, tag := range s.Tags {
		names = append(names, tag.Name)
	}
	sort.SliceStable(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	return names
}

// Name renders the performer as credited, e.g. "Jane Doe (as Janie)".
func (p Performance) Name() string {
	name := p.Performer.Name
	if p.Performer.Disambiguation != "" {
		name += " [" + p.Performer.Disambiguation + "]"
	}
	if as := strings.TrimSpace(p.As); as != "" && as != p.Performer.Name {
		name += " (as " + as + ")"
	}
	return name
}

var titleCaser = cases.Title(language.English)

// GenderLabel turns an enum value such as TRANSGENDER_FEMALE into
// "Transgender Female". Unknown or empty values yield "Unknown".
func GenderLabel(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "Unknown"
	}
	return titleCaser.String(strings.ReplaceAll(strings.ToLower(value), "_", " "))
}

// FormatDuration renders seconds as h:mm:ss, or m:ss under an hour.
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return ""
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
