package driver

import (
	"fmt"
	"io"
	"strings"
)

const indent = "    "

// TranslationUnit is the generated driver: defines, includes, one function per
// test and main.
type TranslationUnit struct {
	Defines   []string
	Includes  []Include
	Functions []Function
	Main      Function
}

type Include struct {
	Path   string
	System bool
}

type Function struct {
	// Comment is written above the signature when set.
	Comment    string
	ReturnType string
	Name       string
	Body       []Stmt
}

// Stmt is a statement inside a function body.
type Stmt interface {
	render(p *printer)
}

// Line is a complete C statement, written as is.
type Line string

type Comment string

// Call invokes a function without arguments.
type Call struct {
	Function string
}

type Return struct {
	Value string
}

// If is a conditional block.
type If struct {
	Condition string
	Body      []Stmt
}

// OpenFile opens Path for writing into a FILE pointer named Var.
type OpenFile struct {
	Var  string
	Path string
}

// Fprintf writes Format with Args to the FILE pointer Var.
type Fprintf struct {
	Var    string
	Format string
	Args   []string
}

type CloseFile struct {
	Var string
}

func (s Line) render(p *printer) {
	p.line(string(s))
}

func (s Comment) render(p *printer) {
	p.line("/* " + commentText(string(s)) + " */")
}

func (s Call) render(p *printer) {
	p.line(s.Function + "();")
}

func (s Return) render(p *printer) {
	if s.Value == "" {
		p.line("return;")
		return
	}
	p.line("return " + s.Value + ";")
}

func (s If) render(p *printer) {
	p.line("if (" + s.Condition + ")")
	p.block(s.Body)
}

func (s OpenFile) render(p *printer) {
	p.line(fmt.Sprintf("FILE *%s = fopen(%s, \"w\");", s.Var, cString(s.Path)))
}

func (s Fprintf) render(p *printer) {
	args := append([]string{s.Var, cString(s.Format)}, s.Args...)
	p.line("fprintf(" + strings.Join(args, ", ") + ");")
}

func (s CloseFile) render(p *printer) {
	p.line("fclose(" + s.Var + ");")
}

type printer struct {
	b     strings.Builder
	depth int
}

func (p *printer) line(text string) {
	p.b.WriteString(strings.Repeat(indent, p.depth))
	p.b.WriteString(text)
	p.b.WriteString("\n")
}

func (p *printer) blank() {
	p.b.WriteString("\n")
}

// Writes a braced block. Braces only come from here, so they always balance.
func (p *printer) block(body []Stmt) {
	p.line("{")
	p.depth++
	for _, stmt := range body {
		stmt.render(p)
	}
	p.depth--
	p.line("}")
}

func (p *printer) function(f Function) {
	if f.Comment != "" {
		p.line("/* " + commentText(f.Comment) + " */")
	}
	returnType := f.ReturnType
	if returnType == "" {
		returnType = "void"
	}
	p.line(returnType + " " + f.Name + "(void)")
	p.block(f.Body)
}

// Render writes the translation unit as C source.
func (tu TranslationUnit) Render(w io.Writer) error {
	p := &printer{}
	for _, define := range tu.Defines {
		p.line("#define " + define)
	}
	for _, include := range tu.Includes {
		if include.System {
			p.line("#include <" + include.Path + ">")
		} else {
			p.line("#include \"" + include.Path + "\"")
		}
	}
	for _, f := range tu.Functions {
		p.blank()
		p.function(f)
	}
	p.blank()
	p.function(tu.Main)

	_, err := io.WriteString(w, p.b.String())
	return err
}

// Returns s as a C string literal.
func cString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// Flattens text for a block comment.
func commentText(s string) string {
	s = strings.ReplaceAll(s, "*/", "* /")
	return strings.Join(strings.Fields(s), " ")
}
