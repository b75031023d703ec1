//go:build cgo

package snapshot

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	c "github.com/smacker/go-tree-sitter/c"
)

const (
	cFileExtension            = ".c"
	cFunctionDefinitionType   = "function_definition"
	cFunctionDeclaratorType   = "function_declarator"
	cPointerDeclaratorType    = "pointer_declarator"
	cParenthesizedDeclarator  = "parenthesized_declarator"
	cIdentifierType           = "identifier"
	cCallExpressionType       = "call_expression"
	cDeclaratorField          = "declarator"
	cBodyField                = "body"
	cFunctionField            = "function"
	errorCSourcesParseFormat  = "parse %s: %w"
	errorCSourcesWalkFormat   = "walk %s: %w"
	errorCSourcesNoneFound    = "no C sources found under %s"
	cIdentifierFormatTemplate = "%s:%s"
)

type cFunctionDefinition struct {
	identifier string
	filePath   string
	simpleName string
	calls      []string
}

// LoadCSources builds an approximate call graph for the C sources below the
// root directory using tree-sitter. Calls are resolved by name: a call binds
// to a definition in the same file first, then to the definition elsewhere
// when exactly one exists; ambiguous and unresolved names are skipped, which
// matches the no-indirect-call-resolution scope of the analysis.
func LoadCSources(rootDirectoryPath string) (Snapshot, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(c.GetLanguage())

	var definitions []cFunctionDefinition
	walkError := filepath.WalkDir(rootDirectoryPath, func(currentPath string, directoryEntry fs.DirEntry, entryError error) error {
		if entryError != nil {
			return entryError
		}
		if directoryEntry.IsDir() || !strings.EqualFold(filepath.Ext(currentPath), cFileExtension) {
			return nil
		}
		fileDefinitions, parseError := collectCFunctions(parser, rootDirectoryPath, currentPath)
		if parseError != nil {
			return parseError
		}
		definitions = append(definitions, fileDefinitions...)
		return nil
	})
	if walkError != nil {
		return nil, fmt.Errorf(errorCSourcesWalkFormat, rootDirectoryPath, walkError)
	}
	if len(definitions) == 0 {
		return nil, fmt.Errorf(errorCSourcesNoneFound, rootDirectoryPath)
	}
	return resolveCCalls(definitions), nil
}

func collectCFunctions(parser *sitter.Parser, rootDirectoryPath string, filePath string) ([]cFunctionDefinition, error) {
	// #nosec G304
	sourceBytes, readError := os.ReadFile(filePath)
	if readError != nil {
		return nil, fmt.Errorf(errorCSourcesParseFormat, filePath, readError)
	}
	tree, parseError := parser.ParseCtx(context.Background(), nil, sourceBytes)
	if parseError != nil {
		return nil, fmt.Errorf(errorCSourcesParseFormat, filePath, parseError)
	}
	defer tree.Close()

	relativePath := filePath
	if relative, relativeError := filepath.Rel(rootDirectoryPath, filePath); relativeError == nil {
		relativePath = filepath.ToSlash(relative)
	}

	var definitions []cFunctionDefinition
	rootNode := tree.RootNode()
	for childIndex := 0; childIndex < int(rootNode.NamedChildCount()); childIndex++ {
		definitionNode := rootNode.NamedChild(childIndex)
		if definitionNode.Type() != cFunctionDefinitionType {
			continue
		}
		simpleName := cDeclaratorName(definitionNode.ChildByFieldName(cDeclaratorField), sourceBytes)
		if simpleName == "" {
			continue
		}
		definition := cFunctionDefinition{
			identifier: fmt.Sprintf(cIdentifierFormatTemplate, relativePath, simpleName),
			filePath:   relativePath,
			simpleName: simpleName,
		}
		if bodyNode := definitionNode.ChildByFieldName(cBodyField); bodyNode != nil {
			definition.calls = collectCCallNames(bodyNode, sourceBytes, nil)
		}
		definitions = append(definitions, definition)
	}
	return definitions, nil
}

// cDeclaratorName unwraps pointer and parenthesized declarators down to the
// identifier naming the function.
func cDeclaratorName(declaratorNode *sitter.Node, sourceBytes []byte) string {
	for declaratorNode != nil {
		switch declaratorNode.Type() {
		case cIdentifierType:
			return declaratorNode.Content(sourceBytes)
		case cFunctionDeclaratorType, cPointerDeclaratorType, cParenthesizedDeclarator:
			declaratorNode = declaratorNode.ChildByFieldName(cDeclaratorField)
		default:
			return ""
		}
	}
	return ""
}

func collectCCallNames(bodyNode *sitter.Node, sourceBytes []byte, collected []string) []string {
	if bodyNode.Type() == cCallExpressionType {
		if functionNode := bodyNode.ChildByFieldName(cFunctionField); functionNode != nil && functionNode.Type() == cIdentifierType {
			collected = append(collected, functionNode.Content(sourceBytes))
		}
	}
	for childIndex := 0; childIndex < int(bodyNode.NamedChildCount()); childIndex++ {
		collected = collectCCallNames(bodyNode.NamedChild(childIndex), sourceBytes, collected)
	}
	return collected
}

func resolveCCalls(definitions []cFunctionDefinition) Snapshot {
	definitionsByName := map[string][]cFunctionDefinition{}
	for _, definition := range definitions {
		definitionsByName[definition.simpleName] = append(definitionsByName[definition.simpleName], definition)
	}

	calleesByIdentifier := map[string][]string{}
	callersByIdentifier := map[string][]string{}
	for _, definition := range definitions {
		for _, calledName := range definition.calls {
			calleeIdentifier := resolveCCallTarget(definition, definitionsByName[calledName])
			if calleeIdentifier == "" {
				continue
			}
			calleesByIdentifier[definition.identifier] = append(calleesByIdentifier[definition.identifier], calleeIdentifier)
			callersByIdentifier[calleeIdentifier] = append(callersByIdentifier[calleeIdentifier], definition.identifier)
		}
	}

	listing := make(Snapshot, 0, len(definitions))
	for _, definition := range definitions {
		listing = append(listing, Function{
			ID:      definition.identifier,
			Callers: appendMissing(nil, callersByIdentifier[definition.identifier]),
			Callees: appendMissing(nil, calleesByIdentifier[definition.identifier]),
		})
	}
	return Merge(listing)
}

func resolveCCallTarget(caller cFunctionDefinition, candidates []cFunctionDefinition) string {
	for _, candidate := range candidates {
		if candidate.filePath == caller.filePath {
			return candidate.identifier
		}
	}
	if len(candidates) == 1 {
		return candidates[0].identifier
	}
	return ""
}
