package model

// Document is one annotated source document as handed over by the external
// annotation stage.
type Document struct {
	ID    string `yaml:"id" json:"id"`
	Title string `yaml:"title" json:"title"`

	// ReferenceDate anchors PAST_REF / PRESENT_REF / FUTURE_REF tokens,
	// formatted YYYY-MM-DD. Usually the document's creation date.
	ReferenceDate string `yaml:"reference_date" json:"reference_date"`

	Events []Event `yaml:"events" json:"events"`
}

// Event is a single sentence that mentions at least one temporal
// expression.
type Event struct {
	ID string `yaml:"id" json:"id"`

	// Sentence is the raw sentence text; Summary is the compressed form
	// produced by the summarizer, if any.
	Sentence string `yaml:"sentence" json:"sentence"`
	Summary  string `yaml:"summary,omitempty" json:"summary,omitempty"`

	// Entities are named entities recognized in the sentence.
	Entities []string `yaml:"entities,omitempty" json:"entities,omitempty"`

	// Tokens are the normalized date values of every temporal mention, in
	// sentence order.
	Tokens []string `yaml:"tokens" json:"tokens"`
}

// Text returns the summary when present, else the raw sentence.
func (e Event) Text() string {
	if e.Summary != "" {
		return e.Summary
	}
	return e.Sentence
}

// DocumentSet is the top-level shape of an annotated documents file.
type DocumentSet struct {
	Documents []Document `yaml:"documents" json:"documents"`
}
