// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mbern/callpath/internal/callgraph"
	"github.com/mbern/callpath/internal/config"
	"github.com/mbern/callpath/internal/render"
	"github.com/mbern/callpath/internal/report"
	"github.com/mbern/callpath/internal/services/clipboard"
	"github.com/mbern/callpath/internal/snapshot"
	"github.com/mbern/callpath/internal/utils"
)

const (
	configFlagName   = "config"
	startFlagName    = "start"
	endFlagName      = "end"
	excludeFlagName  = "exclude"
	outFlagName      = "out"
	rendererFlagName = "renderer"
	dryRunFlagName   = "dry-run"
	copyFlagName     = "copy"
	versionFlagName  = "version"
	globalFlagName   = "global"
	forceFlagName    = "force"

	startFlagShorthand   = "s"
	endFlagShorthand     = "e"
	excludeFlagShorthand = "x"
	outFlagShorthand     = "o"

	versionTemplate      = "callpath version: %s\n"
	rootUse              = "callpath"
	rootShortDescription = "extract call paths between functions from a call graph"
	rootLongDescription  = `callpath extracts the functions lying on any call path between a start set
and an end set of functions, optionally excluding functions from the search,
and renders the selected subgraph through Graphviz.
Selections can come from a configuration file or from the --start, --end,
and --exclude flags; flags win when both are present.`

	snapshotUse              = "snapshot <files...>"
	snapshotAlias            = "snap"
	snapshotShortDescription = "analyze JSON call-graph snapshot files (" + snapshotAlias + ")"
	snapshotLongDescription  = `Load one or more JSON snapshot files of per-function adjacency listings,
merge them, and run the path search over the combined call graph.`
	snapshotUsageExample = `  # Paths from cmd_grep to parse_object, skipping one function
  callpath snapshot dump.json -s builtin/grep.c:cmd_grep -e object.c:parse_object -x sha1-file.c:oid_object_info_extended

  # Merge several translation-unit dumps and render to PNG
  callpath snapshot tu1.json tu2.json -o callgraph.png`

	goUse              = "go [dir]"
	goShortDescription = "analyze the static call graph of a Go module"
	goLongDescription  = `Build the static call graph of the Go module rooted at the directory
(default ".") and run the path search over it. Only statically dispatched
calls are followed.`
	goUsageExample = `  # Which functions sit between main and the storage layer
  callpath go . -s "main.go:example.com/app.main" -e "store/db.go:example.com/app/store.Open"`

	cUse              = "c [dir]"
	cShortDescription = "analyze C sources with an approximate call graph"
	cLongDescription  = `Parse the C sources below the directory (default ".") with tree-sitter,
build an approximate name-resolved call graph, and run the path search.`
	cUsageExample = `  # Everything reachable from main, excluding the logging helper
  callpath c src -s main.c:main -x log.c:log_msg`

	initUse              = "init"
	initShortDescription = "write a default configuration file"

	configFlagDescription   = "configuration file path"
	startFlagDescription    = "start function identifier (repeatable)"
	endFlagDescription      = "end function identifier (repeatable)"
	excludeFlagDescription  = "excluded function identifier (repeatable)"
	outFlagDescription      = "rendered artifact path; the extension selects the format"
	rendererFlagDescription = "graphviz binary to invoke"
	dryRunFlagDescription   = "print the DOT text to stdout instead of rendering"
	copyFlagDescription     = "copy the DOT text to the system clipboard"
	versionFlagDescription  = "display application version"
	globalFlagDescription   = "write the configuration into the global directory"
	forceFlagDescription    = "overwrite an existing configuration file"

	defaultAnalysisDirectory = "."
)

// selectionOptions stores the per-command selection and output flags.
type selectionOptions struct {
	startIdentifiers   []string
	endIdentifiers     []string
	excludeIdentifiers []string
	outputPath         string
	rendererBinary     string
	dryRun             bool
	copyToClipboard    bool
}

// addSelectionFlags registers the selection and output flags on the command.
func addSelectionFlags(command *cobra.Command, options *selectionOptions) {
	command.Flags().StringArrayVarP(&options.startIdentifiers, startFlagName, startFlagShorthand, nil, startFlagDescription)
	command.Flags().StringArrayVarP(&options.endIdentifiers, endFlagName, endFlagShorthand, nil, endFlagDescription)
	command.Flags().StringArrayVarP(&options.excludeIdentifiers, excludeFlagName, excludeFlagShorthand, nil, excludeFlagDescription)
	command.Flags().StringVarP(&options.outputPath, outFlagName, outFlagShorthand, "", outFlagDescription)
	command.Flags().StringVar(&options.rendererBinary, rendererFlagName, "", rendererFlagDescription)
	command.Flags().BoolVar(&options.dryRun, dryRunFlagName, false, dryRunFlagDescription)
	command.Flags().BoolVar(&options.copyToClipboard, copyFlagName, false, copyFlagDescription)
}

// Execute runs the callpath application.
func Execute(logger *zap.Logger) error {
	rootCommand := createRootCommand(logger)
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand(logger *zap.Logger) *cobra.Command {
	var showVersion bool
	var configFilePath string

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
	}
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.PersistentFlags().StringVar(&configFilePath, configFlagName, "", configFlagDescription)
	rootCommand.AddCommand(
		createSnapshotCommand(logger, &configFilePath),
		createGoCommand(logger, &configFilePath),
		createCCommand(logger, &configFilePath),
		createInitCommand(),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// createSnapshotCommand returns the snapshot subcommand.
func createSnapshotCommand(logger *zap.Logger, configFilePath *string) *cobra.Command {
	var options selectionOptions

	snapshotCommand := &cobra.Command{
		Use:     snapshotUse,
		Aliases: []string{snapshotAlias},
		Short:   snapshotShortDescription,
		Long:    snapshotLongDescription,
		Example: snapshotUsageExample,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			return runAnalysis(command, logger, func() (snapshot.Snapshot, error) {
				return snapshot.LoadFiles(command.Context(), arguments)
			}, options, *configFilePath)
		},
	}

	addSelectionFlags(snapshotCommand, &options)
	return snapshotCommand
}

// createGoCommand returns the go subcommand.
func createGoCommand(logger *zap.Logger, configFilePath *string) *cobra.Command {
	var options selectionOptions

	goCommand := &cobra.Command{
		Use:     goUse,
		Short:   goShortDescription,
		Long:    goLongDescription,
		Example: goUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			directory := defaultAnalysisDirectory
			if len(arguments) == 1 {
				directory = arguments[0]
			}
			return runAnalysis(command, logger, func() (snapshot.Snapshot, error) {
				return snapshot.LoadGoModule(directory)
			}, options, *configFilePath)
		},
	}

	addSelectionFlags(goCommand, &options)
	return goCommand
}

// createCCommand returns the c subcommand.
func createCCommand(logger *zap.Logger, configFilePath *string) *cobra.Command {
	var options selectionOptions

	cCommand := &cobra.Command{
		Use:     cUse,
		Short:   cShortDescription,
		Long:    cLongDescription,
		Example: cUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			directory := defaultAnalysisDirectory
			if len(arguments) == 1 {
				directory = arguments[0]
			}
			return runAnalysis(command, logger, func() (snapshot.Snapshot, error) {
				return snapshot.LoadCSources(directory)
			}, options, *configFilePath)
		},
	}

	addSelectionFlags(cCommand, &options)
	return cCommand
}

// createInitCommand returns the init subcommand.
func createInitCommand() *cobra.Command {
	var writeGlobal bool
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if writeGlobal {
				target = config.InitTargetGlobal
			}
			destinationPath, initError := config.InitializeConfiguration(config.InitOptions{Target: target, Force: force})
			if initError != nil {
				return initError
			}
			fmt.Fprintf(command.OutOrStdout(), "configuration written to %s\n", destinationPath)
			return nil
		},
	}

	initCommand.Flags().BoolVar(&writeGlobal, globalFlagName, false, globalFlagDescription)
	initCommand.Flags().BoolVar(&force, forceFlagName, false, forceFlagDescription)
	return initCommand
}

// runAnalysis merges flags over the configuration file, runs the analysis, and
// reports the outcome. Configuration is loaded before the snapshot provider
// runs so a malformed settings file aborts ahead of any graph work. Fatal
// errors propagate to the caller; warnings and the empty-selection no-op
// never do.
func runAnalysis(command *cobra.Command, logger *zap.Logger, loadListing func() (snapshot.Snapshot, error), options selectionOptions, configFilePath string) error {
	settings, loadError := config.Load(configFilePath)
	if loadError != nil {
		return loadError
	}
	merged := mergeSelection(command, options, settings)

	listing, listingError := loadListing()
	if listingError != nil {
		return listingError
	}

	request := callgraph.Request{
		Start:   callgraph.NewIDSet(merged.startIdentifiers...),
		End:     callgraph.NewIDSet(merged.endIdentifiers...),
		Exclude: callgraph.NewIDSet(merged.excludeIdentifiers...),
	}
	result := callgraph.Analyze(listing, request)

	reporter := report.NewReporter(logger)
	for _, identifier := range result.Unknown {
		reporter.Report(report.UnknownIdentifier(string(identifier)))
	}
	if len(result.Selected) == 0 {
		reporter.Report(report.EmptySelection())
		return nil
	}

	if merged.copyToClipboard {
		if copyError := clipboard.NewService().Copy(result.DotText); copyError != nil {
			return fmt.Errorf("copy dot text to clipboard: %w", copyError)
		}
	}
	if merged.dryRun {
		fmt.Fprint(command.OutOrStdout(), result.DotText)
		reporter.Report(report.DotEmitted())
		return nil
	}

	renderer := render.NewRenderer(merged.rendererBinary)
	if renderError := renderer.Render(command.Context(), result.DotText, merged.outputPath); renderError != nil {
		return renderError
	}
	reporter.Report(report.Rendered(merged.outputPath))
	return nil
}

// mergeSelection overlays changed flags onto the configuration file values.
func mergeSelection(command *cobra.Command, options selectionOptions, settings config.Settings) selectionOptions {
	merged := options
	if !command.Flags().Changed(startFlagName) {
		merged.startIdentifiers = settings.Start
	}
	if !command.Flags().Changed(endFlagName) {
		merged.endIdentifiers = settings.End
	}
	if !command.Flags().Changed(excludeFlagName) {
		merged.excludeIdentifiers = settings.Exclude
	}
	if !command.Flags().Changed(outFlagName) {
		merged.outputPath = settings.OutFile
	}
	if !command.Flags().Changed(rendererFlagName) {
		merged.rendererBinary = settings.Renderer
	}
	return merged
}
