package config

import (
	"bytes"
	_ "embed"
	"os"
	"strings"
	"text/template"

	cmtconfig "github.com/cometbft/cometbft/config"
)

// DefaultDirPerm is the default permissions used when creating directories.
const DefaultDirPerm = 0o700

var configTemplate *template.Template

func init() {
	var err error
	tmpl := template.New("appConfigFileTemplate").Funcs(template.FuncMap{
		"StringsJoin": strings.Join,
	})
	if configTemplate, err = tmpl.Parse(defaultConfigTemplate); err != nil {
		panic(err)
	}
}

// WriteConfigFile writes the comet sections through the upstream template
// and appends the rendered [app] section.
func WriteConfigFile(configFilePath string, config *Config) {
	cmtconfig.WriteConfigFile(configFilePath, config.Config)

	var buffer bytes.Buffer
	if err := configTemplate.Execute(&buffer, config); err != nil {
		panic(err)
	}

	f, err := os.OpenFile(configFilePath, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	if _, err := f.Write(buffer.Bytes()); err != nil {
		panic(err)
	}
}

// Note: any changes to the comments/variables/mapstructure
// must be reflected in the appropriate struct in config/config.go.
//
//go:embed config.toml.tpl
var defaultConfigTemplate string
