package cmd

import (
	"os"

	"github.com/ComedicChimera/olive"
	"github.com/pterm/pterm"

	"tblgen/backend"
	"tblgen/common"
	"tblgen/report"
)

// Execute is the main entry point for the `tblgen` CLI utility.
func Execute() {
	// set up the argument parser and all its extended commands and arguments
	cli := olive.NewCLI("tblgen", "tblgen compiles record descriptions into generated artifacts", true)
	cli.AddSelectorArg("loglevel", "ll", "the log level", false, []string{"silent", "error", "warn", "verbose"})

	genCmd := cli.AddSubcommand("gen", "generate output from a record source file", true)
	genCmd.AddPrimaryArg("input-path", "the path to the root source file", true)
	genCmd.AddStringArg("out", "o", "the output path (default: stdout)", false)
	genCmd.AddStringArg("backend", "b", "the backend to run", false)
	genCmd.AddStringArg("props", "p", "backend properties as NAME=VALUE[,NAME=VALUE...]", false)
	genCmd.AddStringArg("config", "c", "the path to the project file", false)
	genCmd.AddStringArg("include", "I", "comma-separated include directories", false)

	cli.AddSubcommand("backends", "list the available backends", false)
	cli.AddSubcommand("version", "print the tblgen version", false)

	// run the argument parser
	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		report.ReportFatal("%s", err)
	}

	logLevel := ""
	if arg, ok := result.Arguments["loglevel"]; ok {
		logLevel = arg.(string)
	}

	// process the inputed command line
	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "gen":
		os.Exit(execGenCommand(subResult, logLevel))
	case "backends":
		initReporter(logLevel)
		execBackendsCommand()
	case "version":
		report.DisplayInfoMessage("tblgen Version", common.Version)
	}
}

// execGenCommand executes the gen subcommand and returns the exit code.
func execGenCommand(result *olive.ArgParseResult, logLevel string) int {
	opts := &Options{LogLevel: logLevel}
	opts.InputPath, _ = result.PrimaryArg()

	if arg, ok := result.Arguments["out"]; ok {
		opts.OutputPath = arg.(string)
	}

	if arg, ok := result.Arguments["backend"]; ok {
		opts.BackendName = arg.(string)
	}

	if arg, ok := result.Arguments["config"]; ok {
		opts.ConfigPath = arg.(string)
	}

	if arg, ok := result.Arguments["include"]; ok {
		opts.IncludeDirs = splitList(arg.(string))
	}

	if arg, ok := result.Arguments["props"]; ok {
		props, err := parseProperties(arg.(string))
		if err != nil {
			report.ReportFatal("%s", err)
		}

		opts.Properties = props
	}

	if err := Run(opts, os.Stdout); err != nil {
		return 1
	}

	return 0
}

// execBackendsCommand displays the registered backends.
func execBackendsCommand() {
	data := pterm.TableData{{"Backend", "Description"}}
	for _, name := range backend.Names() {
		data = append(data, []string{name, backend.Help(name)})
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		report.ReportFatal("%s", err)
	}
}

// initReporter initializes the reporter for commands that do not load a
// project file.
func initReporter(logLevel string) {
	level := report.LogLevelVerbose
	if logLevel != "" {
		level, _ = report.ParseLogLevel(logLevel)
	}

	report.InitReporter(level)
}
