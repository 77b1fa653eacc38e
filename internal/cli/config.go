package cli

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileConfig is the TOML configuration file. Unset keys leave the defaults alone.
//
//	separator = ";"
//	null_value = "NULL"
//	skip_column_names = false
//	empty_result_line = "NO DATA"
//	output = "result.csv.gz"
type FileConfig struct {
	Separator       *string `toml:"separator"`
	NullValue       *string `toml:"null_value"`
	SkipColumnNames *bool   `toml:"skip_column_names"`
	EmptyResultLine *string `toml:"empty_result_line"`
	Output          *string `toml:"output"`
}

// LoadFileConfig reads the TOML file at path. Unknown keys are an error.
func LoadFileConfig(path string) (FileConfig, error) {
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to load config file %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return FileConfig{}, fmt.Errorf("unknown keys in config file %s: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}
