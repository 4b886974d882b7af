package gen

import (
	"go/ast"
	"go/parser"
	"go/token"
	"reflect"
	"strings"
	"unicode"

	"github.com/solenne/mend/errors"
)

// Kind classifies a field for scaffolding purposes.
type Kind string

const (
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindBool    Kind = "bool"
	KindStrings Kind = "strings"
	KindAny     Kind = "any"
)

// Field describes one field of an entry type struct.
type Field struct {
	// Name is the Go field name.
	Name string
	// JSONName is the wire name: the json tag when present, otherwise the
	// snake_case of the Go name.
	JSONName string
	Kind     Kind
	// Required is false for pointer and slice fields.
	Required bool
	// Reference marks fields that point at other entries, detected by the
	// _id/_ids/_hash naming convention.
	Reference bool
}

// Schema describes one entry type extracted from source.
type Schema struct {
	// Name is the Go struct name.
	Name string
	// EntryType is the snake_case entry type name, with any Entry suffix
	// stripped.
	EntryType string
	Fields    []Field
}

// RequiredFields returns the fields a validator must check.
func (s *Schema) RequiredFields() []Field {
	var out []Field
	for _, f := range s.Fields {
		if f.Required {
			out = append(out, f)
		}
	}
	return out
}

// ReferenceFields returns the outbound reference fields, excluding the
// entry's own id.
func (s *Schema) ReferenceFields() []Field {
	var out []Field
	for _, f := range s.Fields {
		if f.Reference && f.JSONName != "id" {
			out = append(out, f)
		}
	}
	return out
}

// ParseSource extracts entry type schemas from one Go source file. A struct
// qualifies when it is exported, has an id field, and has at least one
// other field. filename is used in parse error positions only.
func ParseSource(filename string, src []byte) ([]Schema, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", filename)
	}

	var schemas []Schema
	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok || !ts.Name.IsExported() {
				continue
			}
			st, ok := ts.Type.(*ast.StructType)
			if !ok {
				continue
			}
			schema := structSchema(ts.Name.Name, st)
			if isEntryType(schema) {
				schemas = append(schemas, schema)
			}
		}
	}
	return schemas, nil
}

func structSchema(name string, st *ast.StructType) Schema {
	schema := Schema{
		Name:      name,
		EntryType: entryTypeName(name),
	}
	for _, f := range st.Fields.List {
		for _, ident := range f.Names {
			if !ident.IsExported() {
				continue
			}
			field := Field{Name: ident.Name}
			field.JSONName = jsonName(ident.Name, f.Tag)
			if field.JSONName == "-" {
				continue
			}
			field.Kind, field.Required = classify(f.Type)
			field.Reference = isReference(field.JSONName, field.Kind)
			schema.Fields = append(schema.Fields, field)
		}
	}
	return schema
}

func isEntryType(s Schema) bool {
	if len(s.Fields) < 2 {
		return false
	}
	for _, f := range s.Fields {
		if f.JSONName == "id" {
			return true
		}
	}
	return false
}

func classify(expr ast.Expr) (Kind, bool) {
	switch t := expr.(type) {
	case *ast.Ident:
		switch t.Name {
		case "string":
			return KindString, true
		case "bool":
			return KindBool, true
		case "int", "int8", "int16", "int32", "int64",
			"uint", "uint8", "uint16", "uint32", "uint64",
			"float32", "float64":
			return KindNumber, true
		}
		return KindAny, true
	case *ast.StarExpr:
		kind, _ := classify(t.X)
		return kind, false
	case *ast.ArrayType:
		if ident, ok := t.Elt.(*ast.Ident); ok && ident.Name == "string" {
			return KindStrings, false
		}
		return KindAny, false
	}
	return KindAny, true
}

func isReference(jsonName string, kind Kind) bool {
	if kind != KindString && kind != KindStrings {
		return false
	}
	return jsonName == "id" ||
		strings.HasSuffix(jsonName, "_id") ||
		strings.HasSuffix(jsonName, "_ids") ||
		strings.HasSuffix(jsonName, "_hash")
}

func jsonName(goName string, tag *ast.BasicLit) string {
	if tag != nil {
		raw := strings.Trim(tag.Value, "`")
		if jt, ok := reflect.StructTag(raw).Lookup("json"); ok {
			name := strings.Split(jt, ",")[0]
			if name != "" {
				return name
			}
		}
	}
	return snakeCase(goName)
}

// entryTypeName strips an Entry suffix and converts CamelCase to
// snake_case: LearningPathEntry becomes learning_path.
func entryTypeName(name string) string {
	return snakeCase(strings.TrimSuffix(name, "Entry"))
}

func snakeCase(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			// Keep initialisms together, including plural ones like IDs.
			if i > 0 && !unicode.IsUpper(runes[i-1]) {
				b.WriteRune('_')
			} else if i > 0 && i+1 < len(runes) && unicode.IsLower(runes[i+1]) &&
				!(runes[i+1] == 's' && i+2 == len(runes)) {
				b.WriteRune('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
