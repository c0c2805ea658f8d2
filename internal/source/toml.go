package source

import (
	"github.com/BurntSushi/toml"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/campusbot/whereis/internal/building"
)

// DecodeTOML parses a TOML catalog made of [[buildings]] tables.
func DecodeTOML(data []byte) ([]building.Record, error) {
	var doc document
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, eris.Wrap(err, "toml: decode")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		zap.L().Warn("toml: ignoring unknown catalog keys", zap.Strings("keys", keys))
	}
	return doc.Buildings, nil
}
