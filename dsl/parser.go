package dsl

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t]+`},
		{Name: "Newline", Pattern: `(?:\r?\n)+`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})\b`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `[-+]?(?:\d+\.\d*|\.\d+|\d+)`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[;]`},
	})

	tokenNames       = invertSymbols(dslLexer.Symbols())
	newlineTokenType = mustTokenType("Newline")
	symbolTokenType  = mustTokenType("Symbol")
	stringTokenType  = mustTokenType("String")

	scriptParser = participle.MustBuild[Script](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "HashComment"),
	)
)

// Script is the root AST node: a sequence of preview commands.
type Script struct {
	Commands []*Command `parser:"( Newline | ';' )* ( @@ ( Newline | ';' )* )*"`
}

// Command is a single control edit or action, eg `size 60` or `text "A\nB"`.
type Command struct {
	Pos  lexer.Position `parser:"" json:"-"`
	Name string         `parser:"@Ident"`
	Args []*Lexeme      `parser:"@@*"`
}

// Lexeme captures a single lexical token used as a command argument.
type Lexeme struct {
	Type  string         `json:"type"`
	Value string         `json:"value"`
	Raw   string         `json:"raw"`
	Pos   lexer.Position `json:"-"`
}

// Parse implements participle.Parseable so Lexeme can act as a grammar atom.
func (l *Lexeme) Parse(lex *lexer.PeekingLexer) error {
	tok := lex.Peek()
	if shouldStopArg(tok) {
		return participle.NextMatch
	}
	tok = lex.Next()
	lexeme, err := newLexeme(*tok)
	if err != nil {
		return err
	}
	*l = lexeme
	return nil
}

// Arg returns the i-th argument or an error naming the command.
func (c *Command) Arg(i int) (*Lexeme, error) {
	if i < 0 || i >= len(c.Args) {
		return nil, fmt.Errorf("%s: %s 缺少第 %d 个参数", c.Pos, c.Name, i+1)
	}
	return c.Args[i], nil
}

// Float returns the i-th argument as a number.
func (c *Command) Float(i int) (float64, error) {
	arg, err := c.Arg(i)
	if err != nil {
		return 0, err
	}
	if arg.Type != "Number" {
		return 0, fmt.Errorf("%s: %s 的参数应为数字，实际为 %q", arg.Pos, c.Name, arg.Raw)
	}
	v, err := strconv.ParseFloat(arg.Value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: 无法解析数字 %q: %w", arg.Pos, arg.Raw, err)
	}
	return v, nil
}

// Text returns the i-th argument as text. Strings are unquoted; bare words
// and numbers are used verbatim.
func (c *Command) Text(i int) (string, error) {
	arg, err := c.Arg(i)
	if err != nil {
		return "", err
	}
	return arg.Value, nil
}

// Words joins all arguments with spaces, so `font Go Mono` equals `font "Go Mono"`.
func (c *Command) Words() string {
	parts := make([]string, len(c.Args))
	for i, arg := range c.Args {
		parts[i] = arg.Value
	}
	return strings.Join(parts, " ")
}

// Parse parses a command script from an io.Reader.
func Parse(r io.Reader) (*Script, error) {
	return scriptParser.Parse("", r)
}

// ParseString parses a command script from a string.
func ParseString(input string) (*Script, error) {
	return scriptParser.ParseString("", input)
}

func shouldStopArg(tok *lexer.Token) bool {
	if tok == nil || tok.EOF() {
		return true
	}
	switch tok.Type {
	case newlineTokenType, symbolTokenType:
		return true
	default:
		return false
	}
}

func newLexeme(tok lexer.Token) (Lexeme, error) {
	name, ok := tokenNames[tok.Type]
	if !ok {
		name = fmt.Sprintf("#%d", tok.Type)
	}
	val := tok.Value
	if tok.Type == stringTokenType {
		unquoted, err := strconv.Unquote(tok.Value)
		if err != nil {
			return Lexeme{}, fmt.Errorf("%s: 字符串 %s 无效: %w", tok.Pos, tok.Value, err)
		}
		val = unquoted
	}
	return Lexeme{
		Type:  name,
		Value: val,
		Raw:   tok.Value,
		Pos:   tok.Pos,
	}, nil
}

func invertSymbols(symbols map[string]lexer.TokenType) map[lexer.TokenType]string {
	out := make(map[lexer.TokenType]string, len(symbols))
	for name, tt := range symbols {
		out[tt] = name
	}
	return out
}

func mustTokenType(name string) lexer.TokenType {
	symbols := dslLexer.Symbols()
	tt, ok := symbols[name]
	if !ok {
		panic(fmt.Sprintf("token %s not defined", name))
	}
	return tt
}
