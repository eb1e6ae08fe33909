package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"matcha/common"
	"matcha/config"
	"matcha/ir"
	"matcha/lower"
	"matcha/report"
	"matcha/syntax"
)

// Compiler drives a single script compilation: it gathers the project
// configuration and script parameters, runs the parse and lowering phases,
// and hands any errors off to the reporter.
type Compiler struct {
	// The path to the script being compiled.
	scriptPath string

	// The accumulated script parameters, later sources overriding earlier
	// ones: project defaults, then the args file, then inline args.
	args map[string]string

	// The compiled module.  This is only set once Compile succeeds.
	module *ir.Module
}

// NewCompiler creates a new compiler for the script at the given path.
func NewCompiler(scriptPath string) *Compiler {
	return &Compiler{
		scriptPath: scriptPath,
		args:       make(map[string]string),
	}
}

// LoadProject locates the project file governing the compiled script and
// applies its settings.
func (c *Compiler) LoadProject() {
	proj, err := config.FindProject(c.scriptPath)
	if err != nil {
		report.ReportFatal(err.Error())
	}

	report.SetLogLevel(proj.LogLevel)

	for name, value := range proj.Args {
		c.args[name] = value
	}
}

// SetLogLevelName overrides the log level with a command-line level name.
func (c *Compiler) SetLogLevelName(name string) {
	switch name {
	case "silent":
		report.SetLogLevel(report.LogLevelSilent)
	case "error":
		report.SetLogLevel(report.LogLevelError)
	case "warn":
		report.SetLogLevel(report.LogLevelWarn)
	case "verbose":
		report.SetLogLevel(report.LogLevelVerbose)
	default:
		report.ReportFatal("unknown log level: `%s`", name)
	}
}

// LoadArgsFile merges script parameters from a YAML file.  The file must
// contain a flat mapping of parameter names to scalar values.
func (c *Compiler) LoadArgsFile(path string) {
	buff, err := os.ReadFile(path)
	if err != nil {
		report.ReportFatal("unable to read args file at `%s`: %s", path, err)
	}

	// Values may be any YAML scalar: they are carried as text and typed by
	// their textual form at lowering.
	parsed := make(map[string]interface{})
	if err := yaml.Unmarshal(buff, parsed); err != nil {
		report.ReportFatal("error parsing args file at `%s`: %s", path, err)
	}

	for name, value := range parsed {
		c.args[name] = fmt.Sprint(value)
	}
}

// ParseInlineArgs merges script parameters given inline as comma-separated
// `name=value` pairs.
func (c *Compiler) ParseInlineArgs(inline string) {
	for _, pair := range strings.Split(inline, ",") {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			report.ReportFatal("malformed script parameter: `%s`", pair)
		}

		c.args[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
}

// -----------------------------------------------------------------------------

// Compile parses and lowers the script, reporting any errors.  It returns
// whether compilation succeeded.
func (c *Compiler) Compile() bool {
	f, err := os.Open(c.scriptPath)
	if err != nil {
		report.ReportFatal("unable to open script at `%s`: %s", c.scriptPath, err)
	}
	defer f.Close()

	script, err := syntax.Parse(f)
	if err != nil {
		c.reportError(err)
		return false
	}

	mod, err := lower.Lower(moduleName(c.scriptPath), script, c.args, nil)
	if err != nil {
		c.reportError(err)
		return false
	}

	c.module = mod
	return true
}

// Emit writes the compiled module's IR listing: to the given path, or to
// standard output if the path is empty.
func (c *Compiler) Emit(outPath string) {
	listing := c.module.Repr()

	if outPath == "" {
		fmt.Println(listing)
		return
	}

	if err := os.WriteFile(outPath, []byte(listing), 0o644); err != nil {
		report.ReportFatal("unable to write IR listing to `%s`: %s", outPath, err)
	}
}

// reportError hands a compile error off to the reporter.
func (c *Compiler) reportError(err error) {
	if ce, ok := err.(*report.CompileError); ok {
		report.ReportCompileError(c.scriptPath, ce)
		return
	}

	report.ReportFatal(err.Error())
}

// moduleName derives the compiled module's name from the script file name.
func moduleName(scriptPath string) string {
	return strings.TrimSuffix(filepath.Base(scriptPath), common.MatchaFileExt)
}
