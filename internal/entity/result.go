package entity

// FilteredRow is one valid extracted row with its filter classification.
// Values are ordered by the document schema. The compare date is internal
// and never serialized.
type FilteredRow struct {
	Values           []string `json:"values"`
	IsZeroQuantity   bool     `json:"-"`
	PassesDateFilter bool     `json:"-"`
	DateCompare      string   `json:"-"`
}

// AppliedFilters echoes the requested date bounds in display format (DD/MM/YYYY).
type AppliedFilters struct {
	FromDate string `json:"fecha_desde"`
	ToDate   string `json:"fecha_hasta"`
}

// Statistics is the aggregate block computed once per extraction.
type Statistics struct {
	TotalRows            int            `json:"total_filas"`
	Showing              int            `json:"mostrando"`
	UniqueKeys           int            `json:"receiptkeys_unicos"`
	TotalQuantity        string         `json:"total_unidades"`
	FilteredZeroQuantity int            `json:"filas_filtradas_cantidad"`
	FilteredByDate       int            `json:"filas_filtradas_fecha"`
	TotalBeforeFilter    int            `json:"total_sin_filtro"`
	DateMin              string         `json:"fecha_min"`
	DateMax              string         `json:"fecha_max"`
	AppliedFilters       AppliedFilters `json:"filtros_aplicados"`
}

// ExtractionResult is the extract endpoint's success envelope.
// Token and TotalChunks are present only when the passing row set was
// written to the chunk store.
type ExtractionResult struct {
	Success      bool       `json:"success"`
	TotalRecords int        `json:"total_registros"`
	Headers      []string   `json:"headers"`
	Data         [][]string `json:"data"`
	Stats        Statistics `json:"stats"`
	SheetUsed    string     `json:"hoja_usada"`
	Message      string     `json:"mensaje"`
	DateMessage  string     `json:"mensaje_fecha"`
	ProcessID    string     `json:"proceso_id,omitempty"`
	Token        string     `json:"token,omitempty"`
	TotalChunks  int        `json:"total_chunks,omitempty"`
}
