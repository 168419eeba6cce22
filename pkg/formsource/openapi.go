package formsource

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-autofill/pkg/dategroup"
	"github.com/goliatone/go-autofill/pkg/field"
)

// Synthetic layout for derived documents: one field per row in a single
// column, so geometric grouping behaves the way a rendered form would.
const (
	derivedRowHeight   = 40.0
	derivedFieldWidth  = 320.0
	derivedFieldHeight = 32.0
)

// FromOpenAPI derives a form document from one operation's request body in
// an OpenAPI 3 document. Scalar properties become fields ordered by name;
// enum properties become selects carrying their values as options.
func FromOpenAPI(ctx context.Context, raw []byte, operationID string) (Document, error) {
	if ctx == nil {
		return Document{}, errors.New("formsource: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	if len(raw) == 0 {
		return Document{}, errors.New("formsource: raw document is empty")
	}
	if operationID == "" {
		return Document{}, errors.New("formsource: operation id is required")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return Document{}, fmt.Errorf("formsource: load openapi document: %w", err)
	}

	operation := findOperation(spec, operationID)
	if operation == nil {
		return Document{}, fmt.Errorf("formsource: operation %q not found", operationID)
	}

	schema := requestSchema(operation)
	if schema == nil || len(schema.Properties) == 0 {
		return Document{}, fmt.Errorf("formsource: operation %q has no request properties", operationID)
	}

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	doc := Document{Title: documentTitle(spec, operation, operationID)}
	row := 0
	for _, name := range names {
		ref := schema.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		f, ok := fieldFromProperty(name, ref.Value)
		if !ok {
			continue
		}
		f.Bounds = &field.Rect{
			Top:    float64(row) * derivedRowHeight,
			Left:   0,
			Width:  derivedFieldWidth,
			Height: derivedFieldHeight,
		}
		doc.Fields = append(doc.Fields, f)
		row++
	}
	if len(doc.Fields) == 0 {
		return Document{}, fmt.Errorf("formsource: operation %q has no scalar request properties", operationID)
	}
	doc.bind()
	return doc, nil
}

func findOperation(spec *openapi3.T, operationID string) *openapi3.Operation {
	if spec == nil || spec.Paths == nil {
		return nil
	}
	for _, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		candidates := []*openapi3.Operation{
			item.Get, item.Put, item.Post, item.Delete,
			item.Patch, item.Head, item.Options, item.Trace,
		}
		for _, operation := range candidates {
			if operation != nil && operation.OperationID == operationID {
				return operation
			}
		}
	}
	return nil
}

func requestSchema(operation *openapi3.Operation) *openapi3.Schema {
	if operation.RequestBody == nil || operation.RequestBody.Value == nil {
		return nil
	}
	content := operation.RequestBody.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil && mt.Schema.Value != nil {
			return mt.Schema.Value
		}
	}
	for _, mt := range content {
		if mt.Schema != nil && mt.Schema.Value != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func fieldFromProperty(name string, schema *openapi3.Schema) (Field, bool) {
	switch schemaType(schema.Type) {
	case "string", "integer", "number", "boolean":
	default:
		return Field{}, false
	}

	label := schema.Title
	if label == "" {
		label = humanLabel(name)
	}
	f := Field{Descriptor: field.Descriptor{
		Name:  name,
		Label: label,
		Type:  inputType(schema),
	}}
	for _, value := range schema.Enum {
		text := fmt.Sprintf("%v", value)
		f.Options = append(f.Options, dategroup.ControlOption{Value: text, Text: text})
	}
	if len(f.Options) > 0 {
		f.Type = "select"
	}
	return f, true
}

func inputType(schema *openapi3.Schema) string {
	switch schemaType(schema.Type) {
	case "boolean":
		return "checkbox"
	case "integer", "number":
		return "number"
	}
	switch schema.Format {
	case "email":
		return "email"
	case "password":
		return "password"
	case "date":
		return "date"
	case "uri":
		return "url"
	}
	return "text"
}

func schemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	if values := types.Slice(); len(values) > 0 {
		return values[0]
	}
	return ""
}

func documentTitle(spec *openapi3.T, operation *openapi3.Operation, operationID string) string {
	if operation.Summary != "" {
		return operation.Summary
	}
	if spec.Info != nil && spec.Info.Title != "" {
		return spec.Info.Title
	}
	return operationID
}

// humanLabel converts a property name into a display label: the word split
// of the identifier, title-cased. "billing_zipCode" becomes "Billing Zip
// Code".
func humanLabel(name string) string {
	words := field.Words(name)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
