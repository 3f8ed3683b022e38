package constants

import "time"

// ChunkSize is the number of rows per stored chunk.
const ChunkSize = 1000

// PreviewRows caps the inline data slice of an extraction response.
const PreviewRows = 100

// CacheTTL is how long chunk sets stay on disk before the sweeper removes them.
const CacheTTL = time.Hour

// MaxUploadBytes limits the multipart upload size.
const MaxUploadBytes = 500 << 20

// InsertLotSize is the number of detail rows per batched insert.
// 11 columns per row against a 2100 bind-parameter ceiling.
const InsertLotSize = 190
