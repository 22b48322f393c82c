package model

// ISODate is the wire format for calendar dates.
const ISODate = "2006-01-02"

// RankingSnapshot is the derived ranking state at one playhead position.
// Entering and Leaving are single-tick deltas against the previous snapshot.
type RankingSnapshot struct {
	Total    int64    `json:"total"`
	TopN     []string `json:"top_n"`
	Entering []string `json:"entering"`
	Leaving  []string `json:"leaving"`
}

// PointView is a serializable dense-series sample.
type PointView struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// SeriesView is the visible prefix of one project's dense series.
type SeriesView struct {
	ID      string      `json:"id"`
	IconURL string      `json:"icon_url,omitempty"`
	Points  []PointView `json:"points"`
}

// AnnotationView is a serializable annotation.
type AnnotationView struct {
	Date        string `json:"date"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	IconURL     string `json:"icon_url,omitempty"`
}

// Marker is a static event marker for the renderer's overlay layer.
type Marker struct {
	Date  string `json:"date"`
	Title string `json:"title"`
}

// Frame is the complete renderer-facing read model for one tick. All
// fields are plain serializable values; no renderer types leak in here.
type Frame struct {
	TickIndex     int             `json:"tick_index"`
	Date          string          `json:"date,omitempty"`
	Playing       bool            `json:"playing"`
	PauseOnEvents bool            `json:"pause_on_events"`
	Series        []SeriesView    `json:"series"`
	Ranking       RankingSnapshot `json:"ranking"`
	ActiveEvent   *AnnotationView `json:"active_event,omitempty"`
	Markers       []Marker        `json:"markers,omitempty"`
}

// View converts an annotation to its serializable form.
func (a Annotation) View() AnnotationView {
	return AnnotationView{
		Date:        a.Date.Format(ISODate),
		Title:       a.Title,
		Description: a.Description,
		IconURL:     a.IconURL,
	}
}
