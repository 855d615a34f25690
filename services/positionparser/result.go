package positionparser

import "encoding/json"

// Position is one policy stance the backend extracted. Immutable once
// received; only Stance text ever reaches a record, the rest exists for
// human review.
type Position struct {
	Stance     string   `json:"stance"`
	SourceURLs []string `json:"source_urls"`
	Note       string   `json:"note,omitempty"`
	// category hint from backends that still group their results;
	// a suggestion only, operator assignment is authoritative
	Suggested Category `json:"suggested_category,omitempty"`
}

// Result is the outcome of one submission. A later result event
// replaces any earlier one wholesale.
type Result struct {
	PoliticianName string     `json:"politician_name,omitempty"`
	Positions      []Position `json:"positions"`
	Warnings       []string   `json:"warnings,omitempty"`
}

// wire shapes: the backend sends a flat positions list; older builds
// grouped positions under labeled categories instead

type wirePosition struct {
	Stance     string   `json:"stance"`
	SourceUrls []string `json:"source_urls"`
	Note       *string  `json:"note"`
}

type wireCategory struct {
	Category  string         `json:"category"`
	Positions []wirePosition `json:"positions"`
}

type wireResult struct {
	PoliticianName *string        `json:"politician_name"`
	Positions      []wirePosition `json:"positions"`
	Categories     []wireCategory `json:"categories"`
	Warnings       []string       `json:"warnings"`
}

func fromWirePosition(p wirePosition, suggested Category) Position {
	position := Position{
		Stance:     p.Stance,
		SourceURLs: p.SourceUrls,
		Suggested:  suggested,
	}
	if p.Note != nil {
		position.Note = *p.Note
	}
	return position
}

func (r *Result) UnmarshalJSON(data []byte) error {
	var wire wireResult
	err := json.Unmarshal(data, &wire)
	if err != nil {
		return err
	}

	out := Result{Warnings: wire.Warnings}
	if wire.PoliticianName != nil {
		out.PoliticianName = *wire.PoliticianName
	}
	for _, p := range wire.Positions {
		// flat positions carry no category, the operator assigns one
		out.Positions = append(out.Positions, fromWirePosition(p, Uncategorized))
	}
	if len(out.Positions) == 0 {
		for _, category := range wire.Categories {
			suggested := CategoryFromLabel(category.Category)
			for _, p := range category.Positions {
				out.Positions = append(out.Positions, fromWirePosition(p, suggested))
			}
		}
	}

	*r = out
	return nil
}
