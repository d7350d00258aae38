package domain

// File type constants
const (
	FileTypePDF = "pdf"
)

// Entity is a named-entity span and its category label
type Entity struct {
	Text  string `json:"entity"`
	Label string `json:"type"`
	Color string `json:"color"`
}

// DefaultEntityColor is used for labels missing from EntityColors
const DefaultEntityColor = "black"

// EntityColors maps entity labels to display colors
var EntityColors = map[string]string{
	"PERSON":      "orange",
	"CARDINAL":    "lightblue",
	"ORG":         "blue",
	"GPE":         "darkgreen",
	"DATE":        "pink",
	"TIME":        "brown",
	"MONEY":       "green",
	"LOC":         "cyan",
	"PRODUCT":     "yellow",
	"LANGUAGE":    "purple",
	"WORK_OF_ART": "gold",
}

// ColorFor returns the display color for label
func ColorFor(label string) string {
	if c, ok := EntityColors[label]; ok {
		return c
	}
	return DefaultEntityColor
}

// Sentiment holds lexicon-based sentiment scores
type Sentiment struct {
	Polarity     float64 `json:"polarity"`
	Subjectivity float64 `json:"subjectivity"`
}

// SearchHit is one case-insensitive match of a query in the PDF text
type SearchHit struct {
	Offset  int    `json:"offset"`
	Snippet string `json:"snippet"`
}

// UploadResponse is returned after a PDF is extracted
type UploadResponse struct {
	PDFID     string `json:"pdf_id"`
	Filename  string `json:"filename"`
	TextBytes int    `json:"text_bytes"`
}

// SearchResponse lists search hits for a query
type SearchResponse struct {
	Query string      `json:"query"`
	Hits  []SearchHit `json:"hits"`
}

// EntitiesResponse lists the entities of the current PDF
type EntitiesResponse struct {
	Entities []Entity `json:"entities"`
}

// DataLink is a downloadable artifact embedded as a base64 data URL
type DataLink struct {
	Filename string `json:"filename"`
	Href     string `json:"href"`
}
