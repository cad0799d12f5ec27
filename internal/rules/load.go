package rules

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Load reads a YAML/JSON/TOML rules file over Default. Keys missing from the
// file keep their default values; lists in the file replace the default list.
// An empty path returns Default.
func Load(path string) (Rules, error) {
	r := Default()
	if path == "" {
		return r, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Rules{}, fmt.Errorf("read rules file %q: %w", path, err)
	}
	zeroLists := func(c *mapstructure.DecoderConfig) { c.ZeroFields = true }
	if err := v.Unmarshal(&r, zeroLists); err != nil {
		return Rules{}, fmt.Errorf("decode rules file %q: %w", path, err)
	}
	if err := r.Validate(); err != nil {
		return Rules{}, err
	}
	return r, nil
}
