// Package loader ingests the static dataset and annotation catalog from
// JSON. Dates are normalized to the single internal representation here;
// nothing downstream re-examines formats. Malformed input is a load-time
// fatal error, never a playback-time concern.
package loader

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/okian/starline/internal/domain/model"
)

// projectRecord mirrors the dataset JSON schema.
type projectRecord struct {
	Name    string              `json:"name"`
	IconURL string              `json:"iconUrl"`
	History []observationRecord `json:"history"`
}

type observationRecord struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// annotationRecord mirrors the event catalog JSON schema.
type annotationRecord struct {
	Date        string `json:"date"`
	Title       string `json:"title"`
	Description string `json:"description"`
	IconURL     string `json:"iconUrl"`
}

// ParseProjects decodes and validates a dataset. Observations are sorted
// ascending by date with a stable sort, so duplicates on one date keep
// their input order for the last-wins rule.
func ParseProjects(r io.Reader) ([]model.Project, error) {
	var records []projectRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}

	projects := make([]model.Project, 0, len(records))
	for _, rec := range records {
		if rec.Name == "" {
			return nil, fmt.Errorf("%w: project with empty name", ErrInvalidDataset)
		}
		p := model.Project{ID: rec.Name, IconURL: rec.IconURL}
		for _, o := range rec.History {
			date, err := parseDate(o.Date)
			if err != nil {
				return nil, fmt.Errorf("%w: project %q: %v", ErrInvalidDataset, rec.Name, err)
			}
			if o.Value < 0 {
				return nil, fmt.Errorf("%w: project %q: negative value on %s", ErrInvalidDataset, rec.Name, o.Date)
			}
			p.History = append(p.History, model.Observation{Date: date, Value: o.Value})
		}
		sort.SliceStable(p.History, func(i, j int) bool {
			return p.History[i].Date.Before(p.History[j].Date)
		})
		projects = append(projects, p)
	}
	return projects, nil
}

// ParseCatalog decodes and validates an annotation catalog, sorted
// ascending by date with ties keeping catalog position.
func ParseCatalog(r io.Reader) ([]model.Annotation, error) {
	var records []annotationRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	catalog := make([]model.Annotation, 0, len(records))
	for _, rec := range records {
		date, err := parseDate(rec.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: annotation %q: %v", ErrInvalidCatalog, rec.Title, err)
		}
		if rec.Title == "" {
			return nil, fmt.Errorf("%w: annotation on %s with empty title", ErrInvalidCatalog, rec.Date)
		}
		catalog = append(catalog, model.Annotation{
			Date:        date,
			Title:       rec.Title,
			Description: rec.Description,
			IconURL:     rec.IconURL,
		})
	}
	sort.SliceStable(catalog, func(i, j int) bool {
		return catalog[i].Date.Before(catalog[j].Date)
	})
	return catalog, nil
}

// LoadProjects reads a dataset file.
func LoadProjects(path string) ([]model.Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}
	defer f.Close()
	return ParseProjects(f)
}

// LoadCatalog reads an annotation catalog file.
func LoadCatalog(path string) ([]model.Annotation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	defer f.Close()
	return ParseCatalog(f)
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(model.ISODate, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable date %q", s)
	}
	return model.Day(t), nil
}
