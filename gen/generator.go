package gen

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/solenne/mend/errors"
)

// Options configures generation.
type Options struct {
	// Package is the target package name. Defaults to "providers".
	Package string
}

// Generate renders provider scaffolding for a set of schemas. The output is
// a complete Go file in the target package, formatted and ready for review.
func Generate(schemas []Schema, opts Options) ([]byte, error) {
	if len(schemas) == 0 {
		return nil, errors.New("no entry type schemas to generate from")
	}
	if opts.Package == "" {
		opts.Package = "providers"
	}

	var buf bytes.Buffer
	err := providerTemplate.Execute(&buf, struct {
		Package string
		Schemas []Schema
	}{
		Package: opts.Package,
		Schemas: schemas,
	})
	if err != nil {
		return nil, errors.Wrap(err, "rendering provider template")
	}
	return buf.Bytes(), nil
}

// transformable reports whether the generator should map a field in the
// legacy transformer. The engine owns the schema tags.
func transformable(f Field) bool {
	return f.JSONName != "schema_version" && f.JSONName != "validation_status"
}

// goVar converts a wire name to a Go variable name: author_id to authorID.
func goVar(jsonName string) string {
	parts := strings.Split(jsonName, "_")
	var b strings.Builder
	for i, p := range parts {
		if i == 0 {
			b.WriteString(p)
			continue
		}
		switch p {
		case "id":
			b.WriteString("ID")
		case "ids":
			b.WriteString("IDs")
		case "":
		default:
			b.WriteString(strings.ToUpper(p[:1]) + p[1:])
		}
	}
	return b.String()
}

// lowerCamel lowercases the first rune of a Go type name.
func lowerCamel(name string) string {
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}

// refGuess guesses the referenced entry type from a reference field name:
// path_id to path, related_node_ids to related_node.
func refGuess(jsonName string) string {
	for _, suffix := range []string{"_ids", "_id", "_hash"} {
		if strings.HasSuffix(jsonName, suffix) {
			return strings.TrimSuffix(jsonName, suffix)
		}
	}
	return jsonName
}

// requiredStrings filters the fields a generated validator checks.
func requiredStrings(s Schema) []Field {
	var out []Field
	for _, f := range s.RequiredFields() {
		if f.Kind == KindString && transformable(f) {
			out = append(out, f)
		}
	}
	return out
}

var providerTemplate = template.Must(template.New("provider").Funcs(template.FuncMap{
	"goVar":           goVar,
	"lowerCamel":      lowerCamel,
	"refGuess":        refGuess,
	"requiredStrings": requiredStrings,
	"transformable":   transformable,
}).Parse(`// Code generated scaffolding. Review before committing: vocabularies,
// cross-field rules, and referenced entry types are guesses.

package {{.Package}}

import (
	"github.com/solenne/mend/heal"
)
{{range .Schemas}}{{$s := .}}
type {{lowerCamel .Name}}Validator struct{}

func ({{lowerCamel .Name}}Validator) Validate(data map[string]any) error {
{{- range requiredStrings $s}}
	if _, err := requireString(data, "{{$s.EntryType}}", "{{.JSONName}}"); err != nil {
		return err
	}
{{- end}}
	// TODO: validate closed vocabularies and cross-field rules for {{.EntryType}}.
	return checkSchemaVersion(data)
}

type {{lowerCamel .Name}}Transformer struct{}

func ({{lowerCamel .Name}}Transformer) TransformLegacy(legacy map[string]any) (map[string]any, error) {
{{- range requiredStrings $s}}
	{{goVar .JSONName}}, err := requireString(legacy, "legacy {{$s.EntryType}}", "{{.JSONName}}")
	if err != nil {
		return nil, err
	}
{{- end}}

	out := map[string]any{}
{{- range requiredStrings $s}}
	out["{{.JSONName}}"] = {{goVar .JSONName}}
{{- end}}
{{- range .Fields}}{{if and (transformable .) (not (and .Required (eq .Kind "string")))}}
{{- if eq .Kind "string"}}
	out["{{.JSONName}}"] = stringOr(legacy, "{{.JSONName}}", "")
{{- else if eq .Kind "number"}}
	out["{{.JSONName}}"] = numberOr(legacy, "{{.JSONName}}", 0)
{{- else if eq .Kind "strings"}}
	out["{{.JSONName}}"] = stringsOf(legacy, "{{.JSONName}}")
{{- else}}
	out["{{.JSONName}}"] = legacy["{{.JSONName}}"]
{{- end}}{{end}}{{end}}
	out["schema_version"] = SchemaVersion
	out["validation_status"] = heal.StatusMigrated.String()
	return out, nil
}
{{if .ReferenceFields}}
func {{lowerCamel .Name}}Refs(data map[string]any) []heal.Reference {
	var refs []heal.Reference
	// TODO: confirm the referenced entry types.
{{- range .ReferenceFields}}
{{- if eq .Kind "strings"}}
	for _, id := range stringsOf(data, "{{.JSONName}}") {
		if id != "" {
			refs = append(refs, heal.Reference{EntryType: "{{refGuess .JSONName}}", ID: id})
		}
	}
{{- else}}
	if id := stringOr(data, "{{.JSONName}}", ""); id != "" {
		refs = append(refs, heal.Reference{EntryType: "{{refGuess .JSONName}}", ID: id})
	}
{{- end}}
{{- end}}
	return refs
}
{{end}}
// {{.Name}} is the healing provider for {{.EntryType}} entries.
type {{.Name}} struct {
	resolver heal.ReferenceResolver
	handler  heal.DegradationHandler
}

var _ heal.Provider = (*{{.Name}})(nil)

func New{{.Name}}(store Store, policy Policy) *{{.Name}} {
	return &{{.Name}}{
{{- if .ReferenceFields}}
		resolver: &storeResolver{store: store, refs: {{lowerCamel .Name}}Refs},
{{- else}}
		resolver: &storeResolver{store: store},
{{- end}}
		handler:  policy.Handler(),
	}
}

func (*{{.Name}}) EntryType() string {
	return "{{.EntryType}}"
}

func (*{{.Name}}) SchemaVersion() int {
	return SchemaVersion
}

func (*{{.Name}}) Validator() heal.Validator {
	return {{lowerCamel .Name}}Validator{}
}

func (*{{.Name}}) Transformer() heal.Transformer {
	return {{lowerCamel .Name}}Transformer{}
}

func (p *{{.Name}}) ReferenceResolver() heal.ReferenceResolver {
	return p.resolver
}

func (p *{{.Name}}) DegradationHandler() heal.DegradationHandler {
	return p.handler
}
{{end}}`))
