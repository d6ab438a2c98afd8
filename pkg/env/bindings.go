package env

import (
	"fmt"
	"io/ioutil"

	"gopkg.in/yaml.v2"
)

// LoadBindings reads a YAML file into out. Unknown keys are errors so
// typos in pin names don't silently fall back to defaults.
func LoadBindings(path string, out interface{}) error {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.UnmarshalStrict(data, out); err != nil {
		return fmt.Errorf("%s: %v", path, err)
	}
	return nil
}
