package entity

import "fmt"

// DocumentType identifies which warehouse export module a file belongs to.
type DocumentType string

const (
	DocReception DocumentType = "recepcion"
	DocDispatch  DocumentType = "despacho"
	DocPackage   DocumentType = "paquete"
	DocStorage   DocumentType = "almacen"
)

// ParseDocumentType resolves the wire value of tipo_modulo once at request entry.
func ParseDocumentType(s string) (DocumentType, error) {
	switch DocumentType(s) {
	case DocReception, DocDispatch, DocPackage, DocStorage:
		return DocumentType(s), nil
	}
	return "", fmt.Errorf("unknown tipo_modulo %q", s)
}

func (d DocumentType) String() string {
	return string(d)
}
