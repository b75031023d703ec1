package snapshot

import (
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/mod/modfile"
	"golang.org/x/tools/go/callgraph"
	"golang.org/x/tools/go/callgraph/static"
	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

const (
	goPackagePattern           = "./..."
	goModuleFileName           = "go.mod"
	errorGoModuleMissingFormat = "directory %s is not a Go module root: %w"
	errorGoModuleDecodeFormat  = "parse %s: %w"
	errorGoPackagesLoadFormat  = "load packages in %s: %w"
	errorGoPackagesInvalid     = "errors encountered while loading packages"
)

// LoadGoModule builds the static call graph of the Go module rooted at the
// directory and flattens it into a snapshot listing. Function identifiers use
// the source file of the declaration relative to the module root plus the
// fully qualified function name. Only statically dispatched call edges are
// recorded; calls through interfaces or function values are out of scope.
func LoadGoModule(directoryPath string) (Snapshot, error) {
	moduleFilePath := filepath.Join(directoryPath, goModuleFileName)
	moduleFileData, readError := os.ReadFile(moduleFilePath)
	if readError != nil {
		return nil, fmt.Errorf(errorGoModuleMissingFormat, directoryPath, readError)
	}
	if _, parseError := modfile.Parse(moduleFilePath, moduleFileData, nil); parseError != nil {
		return nil, fmt.Errorf(errorGoModuleDecodeFormat, moduleFilePath, parseError)
	}

	configuration := &packages.Config{
		Mode: packages.LoadAllSyntax,
		Dir:  directoryPath,
		Fset: token.NewFileSet(),
	}
	loadedPackages, loadError := packages.Load(configuration, goPackagePattern)
	if loadError != nil {
		return nil, fmt.Errorf(errorGoPackagesLoadFormat, directoryPath, loadError)
	}
	if packages.PrintErrors(loadedPackages) > 0 {
		return nil, fmt.Errorf(errorGoPackagesInvalid)
	}

	ssaProgram, _ := ssautil.Packages(loadedPackages, ssa.BuilderMode(0))
	ssaProgram.Build()

	staticGraph := static.CallGraph(ssaProgram)
	staticGraph.DeleteSyntheticNodes()

	identifierByNode := map[*callgraph.Node]string{}
	for _, graphNode := range staticGraph.Nodes {
		identifier := goFunctionIdentifier(ssaProgram.Fset, directoryPath, graphNode.Func)
		if identifier == "" {
			continue
		}
		identifierByNode[graphNode] = identifier
	}

	var listing Snapshot
	for graphNode, identifier := range identifierByNode {
		function := Function{ID: identifier}
		for _, incomingEdge := range graphNode.In {
			if callerIdentifier, known := identifierByNode[incomingEdge.Caller]; known {
				function.Callers = append(function.Callers, callerIdentifier)
			}
		}
		for _, outgoingEdge := range graphNode.Out {
			if calleeIdentifier, known := identifierByNode[outgoingEdge.Callee]; known {
				function.Callees = append(function.Callees, calleeIdentifier)
			}
		}
		sort.Strings(function.Callers)
		sort.Strings(function.Callees)
		listing = append(listing, function)
	}
	sort.Slice(listing, func(left, right int) bool { return listing[left].ID < listing[right].ID })
	return Merge(listing), nil
}

// goFunctionIdentifier renders a "<relative-file>:<qualified-name>" identifier
// for an SSA function, or an empty string for functions without a usable
// source position such as wrappers the synthetic-node pass left behind.
func goFunctionIdentifier(fileSet *token.FileSet, moduleRootDirectory string, ssaFunction *ssa.Function) string {
	if ssaFunction == nil || ssaFunction.Pos() == token.NoPos {
		return ""
	}
	position := fileSet.Position(ssaFunction.Pos())
	if position.Filename == "" {
		return ""
	}
	sourcePath := position.Filename
	if relativePath, relativeError := filepath.Rel(moduleRootDirectory, sourcePath); relativeError == nil {
		sourcePath = filepath.ToSlash(relativePath)
	}
	return fmt.Sprintf("%s:%s", sourcePath, ssaFunction.String())
}
