package parsedeadline

type Input struct {
	Phrase        string `json:"phrase"`
	Text          string `json:"text,omitempty"`
	ReferenceDate string `json:"referenceDate,omitempty"`
}

type Output struct {
	Phrase      string `json:"phrase,omitempty"`
	DueDate     string `json:"dueDate,omitempty"`
	Resolved    bool   `json:"resolved"`
	WithinRange bool   `json:"withinRange"`
}
