package chunkstore

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/facbol/billing-intake/internal/common"
	"github.com/facbol/billing-intake/internal/entity"
)

// Store persists filtered row sets as fixed-size JSON chunks plus one
// metadata record per token. Chunks are written first; the metadata record
// is renamed into place only after every chunk succeeded, so a reader never
// observes a partial store.
type Store struct {
	cacheDir  string
	chunksDir string
	chunkSize int
	logger    *slog.Logger
}

func New(cfg common.CacheConfig, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	for _, dir := range []string{cfg.CacheDir, cfg.ChunksDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, common.WrapError(err, "create cache dir")
		}
	}
	return &Store{
		cacheDir:  cfg.CacheDir,
		chunksDir: cfg.ChunksDir,
		chunkSize: cfg.ChunkSize,
		logger:    logger,
	}, nil
}

// NewToken returns a fresh opaque token. Random v4, never derived from
// request input.
func NewToken() string {
	return uuid.NewString()
}

// ChunkSize returns the configured rows-per-chunk.
func (s *Store) ChunkSize() int {
	return s.chunkSize
}

// Store splits rows into chunks of chunkSize (the last chunk holds the
// remainder) and writes them under token. Re-storing the same token
// replaces the previous chunk set. On any write failure every file written
// for the token is removed and no metadata becomes visible.
func (s *Store) Store(token string, rows [][]string, stats entity.Statistics) (*entity.ChunkMetadata, error) {
	if token == "" || strings.ContainsAny(token, "/\\.") {
		return nil, common.InputError("token inválido")
	}

	s.discard(token)

	totalChunks := (len(rows) + s.chunkSize - 1) / s.chunkSize
	for i := 0; i < totalChunks; i++ {
		lo := i * s.chunkSize
		hi := min(lo+s.chunkSize, len(rows))
		chunk := entity.Chunk{Token: token, Index: i, Data: rows[lo:hi]}
		if err := writeJSONFile(s.chunkPath(token, i), chunk); err != nil {
			s.discard(token)
			s.logger.Error("chunkstore.write.failed", "token", token, "chunk", i, "error", err)
			return nil, common.WrapError(err, "write chunk")
		}
	}

	meta := &entity.ChunkMetadata{
		Token:       token,
		TotalRows:   len(rows),
		TotalChunks: totalChunks,
		ChunkSize:   s.chunkSize,
		CreatedAt:   time.Now().UTC(),
		Stats:       stats,
	}
	if err := writeJSONFile(s.metadataPath(token), meta); err != nil {
		s.discard(token)
		s.logger.Error("chunkstore.write.failed", "token", token, "chunk", "metadata", "error", err)
		return nil, common.WrapError(err, "write metadata")
	}

	s.logger.Info("chunkstore.store.ok", "token", token, "rows", len(rows), "chunks", totalChunks)
	return meta, nil
}

// discard removes every file belonging to a token. Missing files are fine.
func (s *Store) discard(token string) {
	_ = os.Remove(s.metadataPath(token))
	matches, err := filepath.Glob(filepath.Join(s.chunksDir, token+"_chunk_*.json"))
	if err != nil {
		return
	}
	for _, m := range matches {
		_ = os.Remove(m)
	}
}

func (s *Store) metadataPath(token string) string {
	return filepath.Join(s.cacheDir, token+"_metadata.json")
}

func (s *Store) chunkPath(token string, index int) string {
	return filepath.Join(s.chunksDir, fmt.Sprintf("%s_chunk_%d.json", token, index))
}

// writeJSONFile writes via a temp file and rename so a concurrent reader
// sees either the whole record or nothing.
func writeJSONFile(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
