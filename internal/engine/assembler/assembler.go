// Package assembler turns the ordered module set into a snapshot script.
package assembler

import (
	"bytes"
	_ "embed"
	"encoding/base64"
	"encoding/json"
	"strings"

	"go.trai.ch/snaplink/internal/core/domain"
	"go.trai.ch/zerr"
)

//go:embed bootstrap.js
var bootstrap string

const (
	auxiliaryPlaceholder   = "var snapshotAuxiliaryData = {}"
	platformPlaceholder    = "var platform = null"
	separatorPlaceholder   = "var pathSeparator = null"
	definitionsPlaceholder = "customRequire.definitions = {}"
	sectionsPlaceholder    = "snapshotAuxiliaryData.snapshotSections = []"
	mainPlaceholder        = "customRequire(mainModuleRequirePath)"

	sectionsAssignment = "snapshotAuxiliaryData.snapshotSections = "
	sourceMapPrefix    = "//# sourceMappingURL=data:application/json;charset=utf-8;base64,"
)

// Input is everything one script is assembled from.
type Input struct {
	BaseDir  string
	MainPath string
	// Modules are emitted in order.
	Modules       []domain.ModuleRecord
	Auxiliary     map[string]any
	Platform      string
	PathSeparator string
}

// Script is an assembled snapshot script and its section table.
type Script struct {
	Text     string
	Sections []domain.Section
}

// Assemble fills the bootstrap template. With source maps each module is
// evaluated from a string carrying its inline map; the section table counts
// the rows of that string.
func Assemble(in Input, withSourceMaps bool) (*Script, error) {
	at := strings.Index(bootstrap, definitionsPlaceholder)
	head := bootstrap[:at]
	tail := bootstrap[at+len(definitionsPlaceholder):]

	auxiliary := in.Auxiliary
	if auxiliary == nil {
		auxiliary = map[string]any{}
	}
	auxJSON, err := encode(auxiliary)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrAssemble.Error()), "field", "auxiliary")
	}
	platform, err := encode(in.Platform)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrAssemble.Error())
	}
	separator, err := encode(in.PathSeparator)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrAssemble.Error())
	}
	mainPath, err := encode(domain.RelativeModulePath(in.BaseDir, in.MainPath))
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrAssemble.Error())
	}

	head = strings.Replace(head, auxiliaryPlaceholder, "var snapshotAuxiliaryData = "+auxJSON, 1)
	head = strings.Replace(head, platformPlaceholder, "var platform = "+platform, 1)
	head = strings.Replace(head, separatorPlaceholder, "var pathSeparator = "+separator, 1)

	var defs strings.Builder
	sections := make([]domain.Section, 0, len(in.Modules))
	startRow := lineCount(head) + 1
	for _, m := range in.Modules {
		suffix := ""
		if withSourceMaps && m.Map != nil {
			comment, err := sourceMappingComment(m.Map)
			if err != nil {
				return nil, zerr.With(zerr.Wrap(err, domain.ErrAssemble.Error()), "module", m.RelativePath)
			}
			suffix = "\n" + comment + "\n"
		}

		rows := lineCount(m.Code + suffix)
		sections = append(sections, domain.Section{
			RelativePath: m.RelativePath,
			StartRow:     startRow,
			EndRow:       startRow + rows - 2,
		})
		startRow += rows

		key, err := encode(m.RelativePath)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrAssemble.Error()), "module", m.RelativePath)
		}
		definition := m.Code
		if withSourceMaps {
			quoted, err := encode("(" + m.Code + ")" + suffix)
			if err != nil {
				return nil, zerr.With(zerr.Wrap(err, domain.ErrAssemble.Error()), "module", m.RelativePath)
			}
			definition = "eval(" + quoted + ")"
		}
		defs.WriteString(key)
		defs.WriteString(": ")
		defs.WriteString(definition)
		defs.WriteString(",\n")
	}

	sectionsJSON, err := encode(sections)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrAssemble.Error())
	}
	tail = strings.Replace(tail, mainPlaceholder, "customRequire("+mainPath+")", 1)
	tail = strings.Replace(tail, sectionsPlaceholder, sectionsAssignment+sectionsJSON, 1)

	var sb strings.Builder
	sb.Grow(len(head) + defs.Len() + len(tail) + 64)
	sb.WriteString(head)
	sb.WriteString("customRequire.definitions = {\n")
	sb.WriteString(defs.String())
	sb.WriteString("\n  }")
	sb.WriteString(tail)

	return &Script{Text: sb.String(), Sections: sections}, nil
}

// ExtractSections reads the section table back out of an assembled script.
func ExtractSections(script string) ([]domain.Section, error) {
	at := strings.LastIndex(script, sectionsAssignment)
	if at < 0 {
		return nil, domain.ErrSectionsNotFound
	}
	line := script[at+len(sectionsAssignment):]
	if end := strings.IndexByte(line, '\n'); end >= 0 {
		line = line[:end]
	}

	var sections []domain.Section
	if err := json.Unmarshal([]byte(strings.TrimSpace(line)), &sections); err != nil {
		return nil, zerr.Wrap(err, domain.ErrSectionsNotFound.Error())
	}
	return sections, nil
}

func sourceMappingComment(m *domain.SourceMap) (string, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return sourceMapPrefix + base64.StdEncoding.EncodeToString(data), nil
}

// encode marshals v as a single line of JSON without HTML escaping.
func encode(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func lineCount(text string) int {
	return strings.Count(text, "\n") + 1
}
