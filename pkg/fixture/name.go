// Copyright 2025 CardinalHQ, Inc
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fixture

import (
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/cardinalhq/cicorpus/pkg/brokenwing"
)

// Document is an encoded fixture ready to be persisted.
type Document struct {
	// Index is the position of the fixture in grid order.
	Index int
	Name  string
	Seed  uint64
	Case  *TestCase
	Body  []byte
}

// NameData is what a name template is executed against.
type NameData struct {
	Size  int
	Level string
	Case  int
	Seed  string
}

type Namer struct {
	tmpl *template.Template
	ext  string
}

// NewNamer parses a text/template name pattern. Sprig functions are
// available, and ext is appended to every name.
func NewNamer(pattern, ext string) (*Namer, error) {
	tmpl, err := template.New("fixture").
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=error").
		Parse(pattern)
	if err != nil {
		return nil, brokenwing.InvalidArgument("bad name template %q: %v", pattern, err)
	}
	return &Namer{tmpl: tmpl, ext: ext}, nil
}

func (n *Namer) Name(size int, level float64, caseNo int, seed uint64) (string, error) {
	var sb strings.Builder
	data := NameData{
		Size:  size,
		Level: FormatLevel(level),
		Case:  caseNo,
		Seed:  fmt.Sprintf("%08x", seed),
	}
	if err := n.tmpl.Execute(&sb, data); err != nil {
		return "", brokenwing.InvalidArgument("executing name template: %v", err)
	}
	name := strings.TrimSpace(sb.String())
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", brokenwing.InvalidArgument("name template produced an unusable file name %q", name)
	}
	return name + n.ext, nil
}

// FormatLevel renders a level with the fewest digits that round-trip,
// so 0.95 becomes "0.95" and 0.7 becomes "0.7".
func FormatLevel(level float64) string {
	return strconv.FormatFloat(level, 'f', -1, 64)
}
