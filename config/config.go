package config

import (
	"io/ioutil"
	"os"

	"gopkg.in/yaml.v2"
)

// FileName is the project file `kaleidago init` writes and `kaleidago build`
// reads from the working directory.
const FileName = "kaleidago.yaml"

type Config struct {
	Module    string   `yaml:"module"`
	Output    string   `yaml:"output,omitempty"`
	Compiler  string   `yaml:"compiler"`
	LinkFlags []string `yaml:"link_flags,omitempty"`
	TypeInfo  bool     `yaml:"typeinfo"`
}

func Default(module string) Config {
	return Config{
		Module:   module,
		Compiler: "clang",
	}
}

// Load reads path. A missing file is not an error and yields the defaults.
func Load(path string) (Config, error) {
	conf := Default("")

	data, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		return conf, nil
	} else if err != nil {
		return conf, err
	}

	if err := yaml.Unmarshal(data, &conf); err != nil {
		return conf, err
	}
	if conf.Compiler == "" {
		conf.Compiler = "clang"
	}

	return conf, nil
}

func (c Config) Write(path string) error {
	out, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return ioutil.WriteFile(path, out, 0644)
}
