package rewriter

import (
	"encoding/json"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/go-sourcemap/sourcemap"
	"go.trai.ch/snaplink/internal/core/domain"
)

// mapping links a generated position to an original one. Lines are 0-based,
// columns are UTF-16 code units.
type mapping struct {
	genLine int
	genCol  int
	source  int
	srcLine int
	srcCol  int
}

// mapBuilder accumulates mappings and encodes a revision 3 source map.
type mapBuilder struct {
	file     string
	sources  []string
	contents []string
	index    map[string]int
	mappings []mapping
}

func newMapBuilder(file string) *mapBuilder {
	return &mapBuilder{file: file, index: make(map[string]int)}
}

func (b *mapBuilder) addSource(name, content string) int {
	if i, ok := b.index[name]; ok {
		return i
	}
	i := len(b.sources)
	b.index[name] = i
	b.sources = append(b.sources, name)
	b.contents = append(b.contents, content)
	return i
}

func (b *mapBuilder) add(m mapping) {
	b.mappings = append(b.mappings, m)
}

func (b *mapBuilder) build() *domain.SourceMap {
	sort.SliceStable(b.mappings, func(i, j int) bool {
		if b.mappings[i].genLine != b.mappings[j].genLine {
			return b.mappings[i].genLine < b.mappings[j].genLine
		}
		return b.mappings[i].genCol < b.mappings[j].genCol
	})

	var sb strings.Builder
	line := 0
	prevSource, prevSrcLine, prevSrcCol := 0, 0, 0
	prevGenCol := 0
	first := true

	for _, m := range b.mappings {
		for line < m.genLine {
			sb.WriteByte(';')
			line++
			prevGenCol = 0
			first = true
		}
		if !first {
			sb.WriteByte(',')
		}
		first = false

		writeVLQ(&sb, m.genCol-prevGenCol)
		writeVLQ(&sb, m.source-prevSource)
		writeVLQ(&sb, m.srcLine-prevSrcLine)
		writeVLQ(&sb, m.srcCol-prevSrcCol)

		prevGenCol = m.genCol
		prevSource = m.source
		prevSrcLine = m.srcLine
		prevSrcCol = m.srcCol
	}

	return &domain.SourceMap{
		Version:        3,
		File:           b.file,
		Sources:        b.sources,
		SourcesContent: b.contents,
		Names:          []string{},
		Mappings:       sb.String(),
	}
}

// upstream maps positions of the rewriter's input through a source map
// supplied by the preprocessing hook.
type upstream struct {
	consumer *sourcemap.Consumer
}

func newUpstream(m *domain.SourceMap) (*upstream, error) {
	if m == nil {
		return nil, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	consumer, err := sourcemap.Parse("", data)
	if err != nil {
		return nil, err
	}
	return &upstream{consumer: consumer}, nil
}

// original returns the source name, content and 0-based position that the
// 0-based (line, col) of the rewriter's input came from.
func (u *upstream) original(line, col int) (string, string, int, int, bool) {
	source, _, srcLine, srcCol, ok := u.consumer.Source(line+1, col)
	if !ok || source == "" {
		return "", "", 0, 0, false
	}
	return source, u.consumer.SourceContent(source), srcLine - 1, srcCol, true
}

// lineIndex converts byte offsets into 0-based line and UTF-16 column.
type lineIndex struct {
	text   string
	starts []int
}

func newLineIndex(text string) *lineIndex {
	starts := []int{0}
	for i := range len(text) {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{text: text, starts: starts}
}

func (li *lineIndex) position(offset int) (int, int) {
	line := sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > offset }) - 1
	return line, utf16Len(li.text[li.starts[line]:offset])
}

func utf16Len(s string) int {
	n := 0
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return n
}
