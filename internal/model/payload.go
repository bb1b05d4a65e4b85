package model

// Payload is the JSON body exchanged with the builder API.
type Payload struct {
	Choices      []string     `json:"choices" yaml:"choices"`
	Default      string       `json:"default" yaml:"default"`
	DisplayOrder DisplayOrder `json:"displayOrder" yaml:"displayOrder"`
	Label        string       `json:"label" yaml:"label"`
	Multiselect  bool         `json:"multiselect" yaml:"multiselect"`
	Required     bool         `json:"required" yaml:"required"`
}

// UniqueValues returns the distinct values of choices plus default, in first-seen order.
func (p Payload) UniqueValues() []string {
	seen := make(map[string]struct{}, len(p.Choices)+1)
	out := make([]string, 0, len(p.Choices)+1)
	for _, v := range append(append([]string(nil), p.Choices...), p.Default) {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
