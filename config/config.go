package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"

	"matcha/common"
	"matcha/report"
)

// tomlProject represents a Matcha project as it is encoded in TOML.
type tomlProject struct {
	Name     string            `toml:"name"`
	LogLevel string            `toml:"log-level"`
	Args     map[string]string `toml:"args"`
}

// Project holds the per-project settings of a Matcha compilation: a project
// name, a default log level, and default script parameters.  Parameters
// supplied on the command line override the project defaults.
type Project struct {
	// The name of the project.
	Name string

	// The configured log level.  This must be one of the enumerated reporter
	// log levels.
	LogLevel int

	// The default script parameters of the project.
	Args map[string]string
}

// Table mapping configured log level names onto reporter log levels.
var logLevelNames = map[string]int{
	"silent":  report.LogLevelSilent,
	"error":   report.LogLevelError,
	"warn":    report.LogLevelWarn,
	"verbose": report.LogLevelVerbose,
}

// DefaultProject returns the project settings used when no project file is
// found.
func DefaultProject() *Project {
	return &Project{
		Name:     "matcha",
		LogLevel: report.LogLevelVerbose,
		Args:     make(map[string]string),
	}
}

// LoadProject loads and validates a project file.
func LoadProject(path string) (*Project, error) {
	buff, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read project file at `%s`: %s", path, err)
	}

	tomlProj := &tomlProject{}
	if err := toml.Unmarshal(buff, tomlProj); err != nil {
		return nil, fmt.Errorf("error parsing project file at `%s`: %s", path, err)
	}

	proj := DefaultProject()
	if tomlProj.Name != "" {
		proj.Name = tomlProj.Name
	}

	if tomlProj.LogLevel != "" {
		logLevel, ok := logLevelNames[tomlProj.LogLevel]
		if !ok {
			return nil, fmt.Errorf("invalid log level in project file at `%s`: `%s`", path, tomlProj.LogLevel)
		}

		proj.LogLevel = logLevel
	}

	for name, value := range tomlProj.Args {
		proj.Args[name] = value
	}

	return proj, nil
}

// FindProject locates and loads the project file governing the given script:
// the nearest matcha.toml in the script's directory or any of its ancestors.
// If no project file exists, the default project settings are returned.
func FindProject(scriptPath string) (*Project, error) {
	dir, err := filepath.Abs(filepath.Dir(scriptPath))
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, common.MatchaProjectFileName)
		if _, err := os.Stat(path); err == nil {
			return LoadProject(path)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return DefaultProject(), nil
		}

		dir = parent
	}
}
