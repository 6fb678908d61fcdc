package parcelgen

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/scanner"
)

// A File is a parsed AIDL source file.
type File struct {
	// Package is the AIDL package name, or "" if the file has no
	// package statement.
	Package string
	Decls   []*Decl
}

// DeclKind is the kind of a top-level AIDL declaration.
type DeclKind int

const (
	Parcelable DeclKind = iota
	Union
	Enum
)

func (k DeclKind) String() string {
	switch k {
	case Parcelable:
		return "parcelable"
	case Union:
		return "union"
	case Enum:
		return "enum"
	default:
		return fmt.Sprintf("DeclKind(%d)", int(k))
	}
}

// A Decl is a parcelable, union or enum declaration.
type Decl struct {
	Kind DeclKind
	Name string
	// Fields are the fields of a parcelable, or the alternatives of
	// a union.
	Fields []*Field
	// Backing is the backing type of an enum: byte, int or long.
	Backing string
	// Enumerators are the values of an enum.
	Enumerators []*Enumerator
}

// A Field is a parcelable field or a union alternative.
type Field struct {
	Name string
	Type *Type
	// Default is the source text of the field's default value, if
	// any.
	Default string
}

// A Type is an AIDL field type.
type Type struct {
	// Name is the element type's unqualified name.
	Name string
	// Nullable is whether the type is annotated @nullable.
	Nullable bool
	// Array is whether the type is an array or List of Name.
	Array bool
	// Len is the length of a fixed size array, or 0.
	Len int
}

func (t *Type) String() string {
	var ret strings.Builder
	if t.Nullable {
		ret.WriteString("@nullable ")
	}
	ret.WriteString(t.Name)
	if t.Len > 0 {
		fmt.Fprintf(&ret, "[%d]", t.Len)
	} else if t.Array {
		ret.WriteString("[]")
	}
	return ret.String()
}

// An Enumerator is one named value of an enum.
type Enumerator struct {
	Name string
	// Expr is the source text of the enumerator's value. Implicit
	// values are spelled out in decimal.
	Expr string
	// Value is the enumerator's numeric value.
	Value int64
}

// Parse parses the AIDL declarations in src.
//
// Only parcelables, unions and enums are supported. Imports are
// accepted and ignored, constants and nested types are rejected.
func Parse(src []byte) (*File, error) {
	p := &parser{}
	p.s.Init(bytes.NewReader(src))
	p.s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanStrings | scanner.ScanComments | scanner.SkipComments
	p.s.Error = func(s *scanner.Scanner, msg string) {
		if p.scanErr == nil {
			p.scanErr = fmt.Errorf("%s: %s", s.Position, msg)
		}
	}
	p.next()

	ret, err := p.file()
	if p.scanErr != nil {
		return nil, p.scanErr
	}
	if err != nil {
		return nil, err
	}
	return ret, nil
}

type parser struct {
	s       scanner.Scanner
	tok     rune
	scanErr error
}

func (p *parser) next() {
	p.tok = p.s.Scan()
}

func (p *parser) text() string {
	if p.tok == scanner.EOF {
		return "EOF"
	}
	return p.s.TokenText()
}

func (p *parser) errorf(msg string, args ...any) error {
	return fmt.Errorf("%s: %s", p.s.Position, fmt.Sprintf(msg, args...))
}

func (p *parser) expect(tok rune) error {
	if p.tok != tok {
		return p.errorf("expected %s, got %q", scanner.TokenString(tok), p.text())
	}
	p.next()
	return nil
}

func (p *parser) keyword(kw string) bool {
	if p.tok == scanner.Ident && p.s.TokenText() == kw {
		p.next()
		return true
	}
	return false
}

func (p *parser) ident() (string, error) {
	if p.tok != scanner.Ident {
		return "", p.errorf("expected identifier, got %q", p.text())
	}
	ret := p.s.TokenText()
	p.next()
	return ret, nil
}

func (p *parser) qualifiedIdent() (string, error) {
	ret, err := p.ident()
	if err != nil {
		return "", err
	}
	for p.tok == '.' {
		p.next()
		n, err := p.ident()
		if err != nil {
			return "", err
		}
		ret += "." + n
	}
	return ret, nil
}

func (p *parser) file() (*File, error) {
	ret := &File{}
	if p.keyword("package") {
		pkg, err := p.qualifiedIdent()
		if err != nil {
			return nil, err
		}
		if err := p.expect(';'); err != nil {
			return nil, err
		}
		ret.Package = pkg
	}
	for p.keyword("import") {
		if _, err := p.qualifiedIdent(); err != nil {
			return nil, err
		}
		if err := p.expect(';'); err != nil {
			return nil, err
		}
	}

	for p.tok != scanner.EOF {
		anns, err := p.annotations()
		if err != nil {
			return nil, err
		}
		var d *Decl
		switch {
		case p.keyword("parcelable"):
			d, err = p.record(Parcelable)
		case p.keyword("union"):
			d, err = p.record(Union)
		case p.keyword("enum"):
			d, err = p.enum(anns)
		case p.tok == scanner.Ident && p.s.TokenText() == "interface":
			return nil, p.errorf("interfaces are not supported")
		default:
			return nil, p.errorf("expected parcelable, union or enum, got %q", p.text())
		}
		if err != nil {
			return nil, err
		}
		ret.Decls = append(ret.Decls, d)
	}
	return ret, nil
}

// annotations parses a run of annotations. It returns a map of
// annotation name to the string argument of the annotation, if it has
// one.
func (p *parser) annotations() (map[string]string, error) {
	ret := map[string]string{}
	for p.tok == '@' {
		p.next()
		name, err := p.ident()
		if err != nil {
			return nil, err
		}
		ret[name] = ""
		if p.tok != '(' {
			continue
		}
		for depth := 0; ; {
			switch p.tok {
			case '(':
				depth++
			case ')':
				depth--
			case scanner.String:
				s, err := strconv.Unquote(p.s.TokenText())
				if err != nil {
					return nil, p.errorf("bad string in @%s: %v", name, err)
				}
				ret[name] = s
			case scanner.EOF:
				return nil, p.errorf("unterminated @%s", name)
			}
			p.next()
			if depth == 0 {
				break
			}
		}
	}
	return ret, nil
}

func (p *parser) record(kind DeclKind) (*Decl, error) {
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	ret := &Decl{
		Kind: kind,
		Name: name,
	}
	if err := p.expect('{'); err != nil {
		return nil, err
	}
	for p.tok != '}' {
		if p.tok == scanner.EOF {
			return nil, p.errorf("unterminated %s %s", kind, name)
		}
		anns, err := p.annotations()
		if err != nil {
			return nil, err
		}
		switch {
		case p.keyword("const"):
			return nil, p.errorf("constants in %s %s are not supported", kind, name)
		case p.tok == scanner.Ident && (p.s.TokenText() == "parcelable" || p.s.TokenText() == "union" || p.s.TokenText() == "enum"):
			return nil, p.errorf("nested types in %s %s are not supported", kind, name)
		}
		typ, err := p.typ(anns)
		if err != nil {
			return nil, err
		}
		fname, err := p.ident()
		if err != nil {
			return nil, err
		}
		f := &Field{
			Name: fname,
			Type: typ,
		}
		if p.tok == '=' {
			p.next()
			f.Default, err = p.until(';')
			if err != nil {
				return nil, err
			}
		}
		if err := p.expect(';'); err != nil {
			return nil, err
		}
		ret.Fields = append(ret.Fields, f)
	}
	p.next()
	if kind == Union && len(ret.Fields) == 0 {
		return nil, p.errorf("union %s has no alternatives", name)
	}
	return ret, nil
}

func (p *parser) typ(anns map[string]string) (*Type, error) {
	_, nullable := anns["nullable"]
	name, err := p.qualifiedIdent()
	if err != nil {
		return nil, err
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	ret := &Type{
		Name:     name,
		Nullable: nullable,
	}
	if name == "List" && p.tok == '<' {
		p.next()
		elem, err := p.typ(nil)
		if err != nil {
			return nil, err
		}
		if elem.Array {
			return nil, p.errorf("lists of arrays are not supported")
		}
		if err := p.expect('>'); err != nil {
			return nil, err
		}
		ret.Name = elem.Name
		ret.Array = true
	}
	if p.tok == '[' {
		if ret.Array {
			return nil, p.errorf("multi-dimensional arrays are not supported")
		}
		p.next()
		ret.Array = true
		if p.tok == scanner.Int {
			n, err := strconv.Atoi(p.s.TokenText())
			if err != nil || n <= 0 {
				return nil, p.errorf("bad array length %q", p.s.TokenText())
			}
			ret.Len = n
			p.next()
		}
		if err := p.expect(']'); err != nil {
			return nil, err
		}
		if p.tok == '[' {
			return nil, p.errorf("multi-dimensional arrays are not supported")
		}
	}
	return ret, nil
}

// until returns the source text of the tokens up to end, without
// consuming end.
func (p *parser) until(end rune) (string, error) {
	var toks []string
	for p.tok != end {
		if p.tok == scanner.EOF {
			return "", p.errorf("expected %s, got EOF", scanner.TokenString(end))
		}
		toks = append(toks, p.s.TokenText())
		p.next()
	}
	return strings.Join(toks, " "), nil
}

var enumBackings = map[string]bool{
	"byte": true,
	"int":  true,
	"long": true,
}

func (p *parser) enum(anns map[string]string) (*Decl, error) {
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	ret := &Decl{
		Kind:    Enum,
		Name:    name,
		Backing: "byte",
	}
	if b := anns["Backing"]; b != "" {
		if !enumBackings[b] {
			return nil, p.errorf("enum %s has unsupported backing type %q", name, b)
		}
		ret.Backing = b
	}
	if err := p.expect('{'); err != nil {
		return nil, err
	}
	var next int64
	for p.tok != '}' {
		ename, err := p.ident()
		if err != nil {
			return nil, err
		}
		e := &Enumerator{
			Name:  ename,
			Expr:  strconv.FormatInt(next, 10),
			Value: next,
		}
		if p.tok == '=' {
			p.next()
			e.Expr, e.Value, err = p.constExpr()
			if err != nil {
				return nil, err
			}
		}
		next = e.Value + 1
		ret.Enumerators = append(ret.Enumerators, e)
		if p.tok == ',' {
			p.next()
		} else if p.tok != '}' {
			return nil, p.errorf("expected , or } in enum %s, got %q", name, p.text())
		}
	}
	p.next()
	return ret, nil
}

// constExpr parses an enumerator value: an integer, optionally
// negated, optionally shifted left by another integer.
func (p *parser) constExpr() (string, int64, error) {
	expr, val, err := p.constInt()
	if err != nil {
		return "", 0, err
	}
	if p.tok != '<' {
		return expr, val, nil
	}
	p.next()
	if err := p.expect('<'); err != nil {
		return "", 0, err
	}
	sexpr, shift, err := p.constInt()
	if err != nil {
		return "", 0, err
	}
	if shift < 0 || shift > 62 {
		return "", 0, p.errorf("bad shift %d", shift)
	}
	return expr + " << " + sexpr, val << shift, nil
}

func (p *parser) constInt() (string, int64, error) {
	neg := false
	if p.tok == '-' {
		neg = true
		p.next()
	}
	if p.tok != scanner.Int {
		return "", 0, p.errorf("expected integer, got %q", p.text())
	}
	text := p.s.TokenText()
	val, err := strconv.ParseInt(text, 0, 64)
	if err != nil {
		return "", 0, p.errorf("bad integer %q: %v", text, err)
	}
	p.next()
	if neg {
		return "-" + text, -val, nil
	}
	return text, val, nil
}
