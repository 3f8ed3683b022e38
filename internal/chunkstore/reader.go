package chunkstore

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/facbol/billing-intake/internal/common"
	"github.com/facbol/billing-intake/internal/entity"
)

// Reader reassembles pages from a stored chunk set. Chunks are immutable
// after store, so reads need no coordination.
type Reader struct {
	store  *Store
	logger *slog.Logger
}

func NewReader(store *Store, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{store: store, logger: logger}
}

// Metadata loads and validates the metadata record for a token. A missing
// record means the token is unknown or already swept.
func (r *Reader) Metadata(token string) (*entity.ChunkMetadata, error) {
	data, err := os.ReadFile(r.store.metadataPath(token))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, common.ErrTokenExpired
	}
	if err != nil {
		return nil, common.WrapError(err, "read metadata")
	}
	if err := validateMetadata(data); err != nil {
		r.logger.Error("chunkstore.metadata.corrupt", "token", token, "error", err)
		return nil, common.NewAppError("CACHE_CORRUPT", "metadata record invalid", common.ErrInternal)
	}
	var meta entity.ChunkMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, common.WrapError(err, "decode metadata")
	}
	return &meta, nil
}

// Read returns one page of rows. Page numbering is 1-based. The page is
// sliced out of the chunk containing its first row; when the page straddles
// a chunk boundary, or pageSize exceeds the chunk size, rows are pulled from
// as many subsequent chunks as needed. The final partial page returns fewer
// than pageSize rows without error. The context bounds the whole read;
// chunk page requests carry a short deadline.
func (r *Reader) Read(ctx context.Context, token string, page, pageSize int) (*entity.ChunkPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}

	meta, err := r.Metadata(token)
	if err != nil {
		return nil, err
	}

	resp := &entity.ChunkPage{
		Success:      true,
		Page:         page,
		PerPage:      pageSize,
		TotalRecords: meta.TotalRows,
		TotalPages:   (meta.TotalRows + pageSize - 1) / pageSize,
		Data:         [][]string{},
		Stats:        meta.Stats,
	}
	// Showing describes this page, not the stored preview.
	resp.Stats.Showing = 0

	start := (page - 1) * pageSize
	if start >= meta.TotalRows {
		return resp, nil
	}

	chunkIndex := start / meta.ChunkSize
	offset := start % meta.ChunkSize
	for len(resp.Data) < pageSize && chunkIndex < meta.TotalChunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		chunk, err := r.loadChunk(token, chunkIndex)
		if err != nil {
			return nil, err
		}
		if offset < len(chunk.Data) {
			need := pageSize - len(resp.Data)
			slice := chunk.Data[offset:]
			if len(slice) > need {
				slice = slice[:need]
			}
			resp.Data = append(resp.Data, slice...)
		}
		offset = 0
		chunkIndex++
	}
	resp.Stats.Showing = len(resp.Data)
	return resp, nil
}

// RawChunk returns the stored chunk file verbatim. The metadata record is
// checked first so an expired token reads as such rather than as a missing
// chunk.
func (r *Reader) RawChunk(ctx context.Context, token string, index int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(r.store.metadataPath(token)); errors.Is(err, fs.ErrNotExist) {
		return nil, common.ErrTokenExpired
	} else if err != nil {
		return nil, common.WrapError(err, "stat metadata")
	}

	data, err := os.ReadFile(r.store.chunkPath(token, index))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, common.ErrChunkMissing
	}
	if err != nil {
		return nil, common.WrapError(err, "read chunk")
	}
	return data, nil
}

// loadChunk decodes one chunk file. A chunk missing while its metadata
// exists is an internal inconsistency, distinct from an expired token.
func (r *Reader) loadChunk(token string, index int) (*entity.Chunk, error) {
	data, err := os.ReadFile(r.store.chunkPath(token, index))
	if errors.Is(err, fs.ErrNotExist) {
		r.logger.Error("chunkstore.chunk.missing", "token", token, "chunk", index)
		return nil, common.ErrChunkMissing
	}
	if err != nil {
		return nil, common.WrapError(err, "read chunk")
	}
	var chunk entity.Chunk
	if err := json.Unmarshal(data, &chunk); err != nil {
		return nil, common.WrapError(err, "decode chunk")
	}
	return &chunk, nil
}
