// Command gen-dataset writes a synthetic star-history dataset and event
// catalog to JSON files that the service can replay.
package main

import (
	"encoding/json"
	"flag"
	"os"

	"github.com/okian/starline/internal/demo"
	"github.com/okian/starline/internal/domain/model"
)

const (
	defaultProjects = 8
	defaultSeed     = 42
)

// projectRecord and annotationRecord mirror the ingest JSON schema.
type projectRecord struct {
	Name    string              `json:"name"`
	IconURL string              `json:"iconUrl,omitempty"`
	History []observationRecord `json:"history"`
}

type observationRecord struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

type annotationRecord struct {
	Date        string `json:"date"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	IconURL     string `json:"iconUrl,omitempty"`
}

func main() {
	var (
		projects    = flag.Int("projects", defaultProjects, "Number of projects to fabricate")
		seed        = flag.Int64("seed", defaultSeed, "Random seed for reproducible datasets")
		datasetFile = flag.String("dataset", "dataset.json", "Output path for the dataset")
		eventsFile  = flag.String("events", "events.json", "Output path for the event catalog")
	)
	flag.Parse()

	dataset, catalog := demo.Dataset(
		demo.WithProjectCount(*projects),
		demo.WithSeed(*seed),
	)

	if err := writeJSONFile(*datasetFile, toProjectRecords(dataset)); err != nil {
		os.Stderr.WriteString("failed to write dataset: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := writeJSONFile(*eventsFile, toAnnotationRecords(catalog)); err != nil {
		os.Stderr.WriteString("failed to write events: " + err.Error() + "\n")
		os.Exit(1)
	}

	os.Stdout.WriteString("wrote " + *datasetFile + " and " + *eventsFile + "\n")
}

func toProjectRecords(projects []model.Project) []projectRecord {
	records := make([]projectRecord, 0, len(projects))
	for _, p := range projects {
		rec := projectRecord{Name: p.ID, IconURL: p.IconURL}
		for _, o := range p.History {
			rec.History = append(rec.History, observationRecord{
				Date:  o.Date.Format(model.ISODate),
				Value: o.Value,
			})
		}
		records = append(records, rec)
	}
	return records
}

func toAnnotationRecords(catalog []model.Annotation) []annotationRecord {
	records := make([]annotationRecord, 0, len(catalog))
	for _, a := range catalog {
		records = append(records, annotationRecord{
			Date:        a.Date.Format(model.ISODate),
			Title:       a.Title,
			Description: a.Description,
			IconURL:     a.IconURL,
		})
	}
	return records
}

func writeJSONFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
