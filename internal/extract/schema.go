package extract

import (
	"strings"

	"github.com/facbol/billing-intake/internal/entity"
)

// Field binds a logical field name to a fixed source column.
type Field struct {
	Name   string
	Column string // column letter, e.g. "AH"
}

// Schema is the immutable extraction schema for one document type:
// the ordered field set plus which fields drive filtering and statistics.
// Column letters are resolved to zero-based indexes once, at construction.
type Schema struct {
	Type          entity.DocumentType
	Fields        []Field
	KeyField      string
	QuantityField string
	DateField     string // empty when the module has no date column
	StatusField   string
	StatusMap     map[string]string

	indexes  []int
	position map[string]int // field name -> position in Fields
}

func newSchema(s Schema) *Schema {
	s.indexes = make([]int, len(s.Fields))
	s.position = make(map[string]int, len(s.Fields))
	for i, f := range s.Fields {
		s.indexes[i] = ColumnIndex(f.Column)
		s.position[f.Name] = i
	}
	return &s
}

// ColumnIndex converts a column letter reference ("C", "AH") to a
// zero-based column index.
func ColumnIndex(letter string) int {
	letter = strings.ToUpper(strings.TrimSpace(letter))
	idx := 0
	for _, c := range letter {
		if c < 'A' || c > 'Z' {
			break
		}
		idx = idx*26 + int(c-'A') + 1
	}
	return idx - 1
}

// Headers returns the ordered logical field names.
func (s *Schema) Headers() []string {
	out := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		out[i] = f.Name
	}
	return out
}

// Index returns the source column index of the i-th field.
func (s *Schema) Index(i int) int {
	return s.indexes[i]
}

// Position returns the position of a field name within a row's values,
// or -1 when the schema has no such field.
func (s *Schema) Position(name string) int {
	if p, ok := s.position[name]; ok {
		return p
	}
	return -1
}

var receptionStatusMap = map[string]string{
	"0": "0 - Pendiente",
	"9": "9 - Completado",
}

var schemas = map[entity.DocumentType]*Schema{
	entity.DocReception: newSchema(Schema{
		Type: entity.DocReception,
		Fields: []Field{
			{Name: "RECEIPTKEY", Column: "C"},
			{Name: "SKU", Column: "D"},
			{Name: "STORERKEY", Column: "E"},
			{Name: "RECEIPTLINENUMBER", Column: "F"},
			{Name: "QTYRECEIVED", Column: "H"},
			{Name: "UOM", Column: "I"},
			{Name: "STATUS", Column: "O"},
			{Name: "DATERECEIVED", Column: "AH"},
			{Name: "EXTERNRECEIPTKEY", Column: "AN"},
		},
		KeyField:      "RECEIPTKEY",
		QuantityField: "QTYRECEIVED",
		DateField:     "DATERECEIVED",
		StatusField:   "STATUS",
		StatusMap:     receptionStatusMap,
	}),
	entity.DocDispatch: newSchema(Schema{
		Type: entity.DocDispatch,
		Fields: []Field{
			{Name: "ORDERKEY", Column: "C"},
			{Name: "SKU", Column: "D"},
			{Name: "STORERKEY", Column: "E"},
			{Name: "EXTERNORDERKEY", Column: "F"},
			{Name: "UOM", Column: "I"},
			{Name: "SHIPPEDQTY", Column: "O"},
			{Name: "STATUS", Column: "P"},
			{Name: "ADDDATE", Column: "CN"},
		},
		KeyField:      "ORDERKEY",
		QuantityField: "SHIPPEDQTY",
		DateField:     "ADDDATE",
		StatusField:   "STATUS",
	}),
	entity.DocPackage: newSchema(Schema{
		Type: entity.DocPackage,
		Fields: []Field{
			{Name: "ID_PAQUETE", Column: "A"},
			{Name: "TIPO", Column: "B"},
			{Name: "PESO", Column: "C"},
			{Name: "VOLUMEN", Column: "D"},
			{Name: "DIMENSIONES", Column: "E"},
			{Name: "ESTADO", Column: "F"},
		},
		KeyField:      "ID_PAQUETE",
		QuantityField: "PESO",
	}),
	entity.DocStorage: newSchema(Schema{
		Type: entity.DocStorage,
		Fields: []Field{
			{Name: "CODIGO", Column: "A"},
			{Name: "PRODUCTO", Column: "B"},
			{Name: "UBICACION", Column: "C"},
			{Name: "STOCK", Column: "D"},
			{Name: "STOCK_MIN", Column: "E"},
			{Name: "STOCK_MAX", Column: "F"},
			{Name: "VALOR", Column: "G"},
		},
		KeyField:      "CODIGO",
		QuantityField: "STOCK",
	}),
}

// SchemaFor returns the extraction schema for a document type.
func SchemaFor(t entity.DocumentType) *Schema {
	return schemas[t]
}
