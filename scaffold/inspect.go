package scaffold

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/jrey8343/shipwright/core/ddl"
	"github.com/jrey8343/shipwright/core/fieldspec"
	"github.com/jrey8343/shipwright/core/structs"
	"github.com/jrey8343/shipwright/scaffold/blueprint"
)

// Inspect output formats
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Inspection is the compiled form of a resource's field specs
type Inspection struct {
	Resource  string                   `json:"resource" yaml:"resource"`
	Table     string                   `json:"table" yaml:"table"`
	Fields    []InspectedField         `json:"fields" yaml:"fields"`
	Record    []structs.StructField    `json:"record" yaml:"record"`
	Changeset []structs.ChangesetField `json:"changeset" yaml:"changeset"`
	DDL       string                   `json:"ddl" yaml:"ddl"`
}

// InspectedField is one compiled field
type InspectedField struct {
	// Spec is the canonical field spec
	Spec       string `json:"spec" yaml:"spec"`
	Column     string `json:"column" yaml:"column"`
	Type       string `json:"type,omitempty" yaml:"type,omitempty"`
	Modifiers  string `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`
	References string `json:"references,omitempty" yaml:"references,omitempty"`
}

// Inspect compiles specs for resource name without rendering any blueprint
func (g *Generator) Inspect(name string, specs []string) (*Inspection, error) {
	data, err := g.data(name, specs)
	if err != nil {
		return nil, err
	}
	return newInspection(data)
}

func newInspection(data *blueprint.Data) (*Inspection, error) {
	sql, err := ddl.EmitCreateTableFor(data.Dialect, data.Table, data.Fields)
	if err != nil {
		return nil, err
	}

	fields := make([]InspectedField, 0, len(data.Fields))
	for _, field := range data.Fields {
		inspected := InspectedField{Spec: field.String(), Column: field.ColumnName()}
		switch f := field.(type) {
		case fieldspec.Column:
			inspected.Type = f.Type.Keyword()
			inspected.Modifiers = f.Type.Modifiers()
		case fieldspec.ForeignKey:
			inspected.References = f.ReferencesTable + "(" + f.ReferencesColumn + ")"
		}
		fields = append(fields, inspected)
	}

	return &Inspection{
		Resource:  data.Resource.Name,
		Table:     data.Table,
		Fields:    fields,
		Record:    data.Record,
		Changeset: data.Changeset,
		DDL:       sql,
	}, nil
}

// Encode renders the inspection as YAML or JSON
func (i *Inspection) Encode(format string) ([]byte, error) {
	switch format {
	case FormatYAML, "":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(i); err != nil {
			return nil, fmt.Errorf("failed to encode inspection: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode inspection: %w", err)
		}
		return buf.Bytes(), nil
	case FormatJSON:
		out, err := json.MarshalIndent(i, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode inspection: %w", err)
		}
		return append(out, '\n'), nil
	default:
		return nil, fmt.Errorf("unsupported format %q (use %s or %s)", format, FormatYAML, FormatJSON)
	}
}
