// Package config loads and validates the analysis settings file.
package config

import (
	"fmt"
	"os"
	"reflect"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/mbern/callpath/internal/utils"
)

// Settings holds every recognized configuration value. The start, end, and
// exclude selections accept either a single string or a list of strings in
// the file; the decode hook normalizes the scalar shorthand to a one-element
// list before anything else sees it.
type Settings struct {
	Start    []string `mapstructure:"start"`
	End      []string `mapstructure:"end"`
	Exclude  []string `mapstructure:"exclude"`
	OutFile  string   `mapstructure:"out_file"`
	Renderer string   `mapstructure:"renderer"`
}

// DefaultSettings returns the settings used when no configuration file is
// present. Defaults are constructed here at the call site rather than read
// from package-level state.
func DefaultSettings() Settings {
	return Settings{
		OutFile:  utils.DefaultOutputFileName,
		Renderer: utils.DefaultRendererBinaryName,
	}
}

// Load reads settings from the file at configFilePath, overlaying them onto
// DefaultSettings. An empty path means "use the default file name in the
// working directory"; a missing file at that default location yields the
// defaults, while an explicitly named file must exist. Unknown keys and wrong
// value types are fatal configuration errors raised before any graph work.
func Load(configFilePath string) (Settings, error) {
	settings := DefaultSettings()

	resolvedPath := configFilePath
	explicit := resolvedPath != ""
	if !explicit {
		resolvedPath = utils.ConfigFileName
	}
	if _, statError := os.Stat(resolvedPath); statError != nil {
		if os.IsNotExist(statError) && !explicit {
			return settings, nil
		}
		return Settings{}, fmt.Errorf("stat configuration %s: %w", resolvedPath, statError)
	}

	reader := viper.New()
	reader.SetConfigFile(resolvedPath)
	if readError := reader.ReadInConfig(); readError != nil {
		return Settings{}, fmt.Errorf("read configuration from %s: %w", resolvedPath, readError)
	}
	if decodeError := reader.UnmarshalExact(&settings, viper.DecodeHook(scalarOrListHook())); decodeError != nil {
		return Settings{}, fmt.Errorf("decode configuration from %s: %w", resolvedPath, decodeError)
	}
	if settings.OutFile == "" {
		settings.OutFile = utils.DefaultOutputFileName
	}
	if settings.Renderer == "" {
		settings.Renderer = utils.DefaultRendererBinaryName
	}
	return settings, nil
}

// scalarOrListHook lets a bare string stand in for a one-element string list.
// Element types are still validated: a list holding anything but strings
// fails decoding.
func scalarOrListHook() mapstructure.DecodeHookFuncType {
	return func(fromType reflect.Type, toType reflect.Type, value interface{}) (interface{}, error) {
		if toType != reflect.TypeOf([]string(nil)) {
			return value, nil
		}
		switch typedValue := value.(type) {
		case string:
			return []string{typedValue}, nil
		case []interface{}:
			elements := make([]string, 0, len(typedValue))
			for _, element := range typedValue {
				stringElement, isString := element.(string)
				if !isString {
					return nil, fmt.Errorf("expected string list element, got %T", element)
				}
				elements = append(elements, stringElement)
			}
			return elements, nil
		default:
			return value, nil
		}
	}
}
