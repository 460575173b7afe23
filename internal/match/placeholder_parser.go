// Copyright 2021 Flamego. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package match

import (
	"sync"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
)

// templateParser is a BNF-based placeholder syntax parser using a stateful
// lexer, generalized from the teacher's route-grammar parser: instead of
// lexing "/segment/{bind}" it lexes "literal text{ref.field}literal text".
type templateParser struct {
	parser *participle.Parser[Template]
}

// Parse parses and returns a single interpolation template.
func (p *templateParser) Parse(s string) (*Template, error) {
	return p.parser.ParseString("", s)
}

// newTemplateParser creates and returns a new templateParser.
func newTemplateParser() (*templateParser, error) {
	l, err := lexer.New(
		lexer.Rules{
			"Root": {
				{Name: "PlaceholderStart", Pattern: `{`, Action: lexer.Push("Placeholder")},
				{Name: "Text", Pattern: `[^{]+`},
			},
			"Placeholder": {
				{Name: "Whitespace", Pattern: `\s+`},
				{Name: "Number", Pattern: `[0-9]+`},
				{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
				{Name: "Dot", Pattern: `\.`},
				{Name: "LBracket", Pattern: `\[`},
				{Name: "RBracket", Pattern: `]`},
				{Name: "PlaceholderEnd", Pattern: `}`, Action: lexer.Pop()},
			},
		},
	)
	if err != nil {
		return nil, errors.Wrap(err, "new lexer")
	}

	parser, err := participle.Build[Template](
		participle.Lexer(l),
		participle.UseLookahead(2),
		participle.Elide("Whitespace"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "build parser")
	}

	return &templateParser{parser: parser}, nil
}

var (
	sharedParser     *templateParser
	sharedParserOnce sync.Once
	sharedParserErr  error
)

// ParseTemplate parses an interpolation template string. The underlying
// parser is built once and reused, since its grammar never varies.
func ParseTemplate(s string) (*Template, error) {
	sharedParserOnce.Do(func() {
		sharedParser, sharedParserErr = newTemplateParser()
	})
	if sharedParserErr != nil {
		return nil, sharedParserErr
	}
	return sharedParser.Parse(s)
}
