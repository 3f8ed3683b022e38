package entity

import "time"

// Chunk is one fixed-size, disk-persisted slice of a filtered row set,
// addressed by (token, index). Immutable once written.
type Chunk struct {
	Token string     `json:"token"`
	Index int        `json:"chunk_index"`
	Data  [][]string `json:"data"`
}

// ChunkMetadata is the per-token record written after all chunks succeed.
type ChunkMetadata struct {
	Token       string     `json:"token"`
	TotalRows   int        `json:"total_filas"`
	TotalChunks int        `json:"total_chunks"`
	ChunkSize   int        `json:"chunk_size"`
	CreatedAt   time.Time  `json:"created_at"`
	Stats       Statistics `json:"stats"`
}

// ChunkPage is the paginated read response assembled by the chunk reader.
type ChunkPage struct {
	Success      bool       `json:"success"`
	Page         int        `json:"pagina"`
	PerPage      int        `json:"por_pagina"`
	TotalRecords int        `json:"total_registros"`
	TotalPages   int        `json:"total_paginas"`
	Data         [][]string `json:"data"`
	Stats        Statistics `json:"stats"`
}
