package linter

import (
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/goccy/go-json"
	schema "github.com/xeipuuv/gojsonschema"

	"github.com/TykTechnologies/kvrouter/config"
)

func init() {
	schema.FormatCheckers.Add("host-no-port", stringFormat(hostNoPort))
}

// Run will lint the configuration file. It will return the path to the
// config file that was checked, a list of human-readable errors found,
// and an error that stopped the linter altogether.
func Run(schm string, paths []string) (string, []string, error) {
	var conf config.Config
	if err := config.Load(paths, &conf); err != nil {
		return "", nil, err
	}
	if conf.OriginalPath == "" {
		return "", nil, fmt.Errorf("no config file found in %s", strings.Join(paths, ", "))
	}

	f, err := os.Open(conf.OriginalPath)
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	var orig map[string]interface{}
	if err := json.NewDecoder(f).Decode(&orig); err != nil {
		return "", nil, err
	}

	result, err := schema.Validate(schema.NewStringLoader(schm), schema.NewGoLoader(orig))
	if err != nil {
		return "", nil, err
	}

	if result.Valid() {
		return conf.OriginalPath, nil, nil
	}

	var lines []string
	for _, desc := range result.Errors() {
		// Remove "(root)." from each field
		lines = append(lines, strings.TrimPrefix(desc.String(), "(root)."))
	}
	return conf.OriginalPath, lines, nil
}

type stringFormat func(string) bool

func (f stringFormat) IsFormat(v interface{}) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	return f(s)
}

// hostNoPort accepts an empty string, an IP or a hostname, but nothing
// carrying a port.
func hostNoPort(s string) bool {
	if s == "" {
		return true
	}
	if _, _, err := net.SplitHostPort(s); err == nil {
		return false
	}
	if net.ParseIP(s) != nil {
		return true
	}
	return !strings.Contains(s, ":")
}
