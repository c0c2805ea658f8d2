package source

import (
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/campusbot/whereis/internal/building"
)

// DecodeYAML parses a YAML catalog: either a top-level sequence of buildings
// or a mapping with a "buildings" sequence.
func DecodeYAML(data []byte) ([]building.Record, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, eris.Wrap(err, "yaml: parse")
	}
	if len(root.Content) == 0 {
		return nil, nil
	}

	top := root.Content[0]
	switch top.Kind {
	case yaml.SequenceNode:
		var records []building.Record
		if err := top.Decode(&records); err != nil {
			return nil, eris.Wrap(err, "yaml: decode building list")
		}
		return records, nil
	case yaml.MappingNode:
		var doc document
		if err := top.Decode(&doc); err != nil {
			return nil, eris.Wrap(err, "yaml: decode document")
		}
		return doc.Buildings, nil
	default:
		return nil, eris.Errorf("yaml: expected a list or a mapping at line %d", top.Line)
	}
}
