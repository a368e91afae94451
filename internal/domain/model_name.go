package domain

// ModelSections lists, in lookup order, the sections that may name the model.
var ModelSections = []string{"trainer", "orchestrator", "inference"}

// ModelName returns the model named by the first section that has a
// "model" key. The key may hold a string or a table with name_or_path.
// A table stops the search even when it carries no name; any other value
// is skipped.
func (t ConfigTree) ModelName() string {
	for _, section := range ModelSections {
		v, ok := t.Lookup(section + ".model")
		if !ok {
			continue
		}
		switch m := v.(type) {
		case string:
			return m
		default:
			sub, ok := asMap(m)
			if !ok {
				continue
			}
			name, _ := sub["name_or_path"].(string)
			return name
		}
	}
	return ""
}

// ModelNameOrPath returns the first non-empty model.name_or_path among the
// model sections.
func (t ConfigTree) ModelNameOrPath() string {
	for _, section := range ModelSections {
		if name := t.String(section+".model.name_or_path", ""); name != "" {
			return name
		}
	}
	return ""
}
