package cmd

import (
	"os"

	"github.com/ComedicChimera/olive"

	"matcha/common"
	"matcha/report"
)

// Execute is the main entry point for the `matcha` CLI utility.
func Execute() {
	// set up the argument parser and all its extended commands and arguments
	cli := olive.NewCLI("matcha", "matcha is a tool for compiling Matcha scripts", true)
	logLvlArg := cli.AddSelectorArg("loglevel", "ll", "the compiler log level", false, []string{"silent", "error", "warn", "verbose"})
	logLvlArg.SetDefaultValue("")

	buildCmd := cli.AddSubcommand("build", "compile a script and emit its IR", true)
	buildCmd.AddPrimaryArg("script-path", "the path to the script to compile", true)
	buildCmd.AddStringArg("args", "a", "script parameters as comma-separated `name=value` pairs", false)
	buildCmd.AddStringArg("args-file", "af", "the path to a YAML file of script parameters", false)
	buildCmd.AddStringArg("out", "o", "the path to write the IR listing to", false)

	checkCmd := cli.AddSubcommand("check", "verify a script without emitting IR", true)
	checkCmd.AddPrimaryArg("script-path", "the path to the script to check", true)
	checkCmd.AddStringArg("args", "a", "script parameters as comma-separated `name=value` pairs", false)
	checkCmd.AddStringArg("args-file", "af", "the path to a YAML file of script parameters", false)

	cli.AddSubcommand("version", "print the Matcha version", false)

	// run the argument parser
	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		report.ReportFatal(err.Error())
	}

	// process the inputed command line
	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "build":
		execCompileCommand(subResult, result, true)
	case "check":
		execCompileCommand(subResult, result, false)
	case "version":
		report.DisplayInfoMessage("Matcha Version", common.MatchaVersion)
	}
}

// execCompileCommand executes the build or check subcommand and handles all
// errors.  If emit is false, no IR listing is produced: the script is only
// verified.
func execCompileCommand(result *olive.ArgParseResult, rootResult *olive.ArgParseResult, emit bool) {
	// get the primary argument: the script path
	scriptPath, _ := result.PrimaryArg()

	c := NewCompiler(scriptPath)

	// the project file supplies the base configuration; the command line
	// overrides it
	c.LoadProject()

	if logLevel, ok := rootResult.Arguments["loglevel"]; ok && logLevel.(string) != "" {
		c.SetLogLevelName(logLevel.(string))
	}

	if argsFile, ok := result.Arguments["args-file"]; ok {
		c.LoadArgsFile(argsFile.(string))
	}

	if args, ok := result.Arguments["args"]; ok {
		c.ParseInlineArgs(args.(string))
	}

	if !c.Compile() {
		os.Exit(1)
	}

	if emit {
		outPath := ""
		if out, ok := result.Arguments["out"]; ok {
			outPath = out.(string)
		}

		c.Emit(outPath)
	}
}
