package api

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/PaalHalvorsenJR/Folktale-Compression-LZW-and-Huffman-Encoding/internal/compression"
	"github.com/PaalHalvorsenJR/Folktale-Compression-LZW-and-Huffman-Encoding/internal/compression/algorithms/lzw"
	"github.com/PaalHalvorsenJR/Folktale-Compression-LZW-and-Huffman-Encoding/internal/compression/errs"
	"github.com/PaalHalvorsenJR/Folktale-Compression-LZW-and-Huffman-Encoding/internal/config"
	"github.com/cespare/xxhash/v2"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	lru "github.com/hashicorp/golang-lru/v2"
)

// CompressRequest represents the compression request payload
type CompressRequest struct {
	Algorithm string `form:"algorithm"`
	MaxWidth  *uint  `form:"max_width,omitempty"`
}

// DecompressRequest represents the decompression request payload
type DecompressRequest struct {
	Algorithm string `form:"algorithm"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// StatsResponse describes one processed payload
type StatsResponse struct {
	Algorithm        string  `json:"algorithm"`
	OriginalSize     int     `json:"original_size"`
	ProcessedSize    int     `json:"processed_size"`
	CompressionRatio float64 `json:"compression_ratio"`
	Checksum         string  `json:"checksum"`
	ElapsedMicros    int64   `json:"elapsed_us"`
	Cached           bool    `json:"cached"`
}

type cachedResult struct {
	data  []byte
	stats compression.Stats
}

// Handler serves the compression API.
type Handler struct {
	cfg      *config.Config
	cache    *lru.Cache[uint64, cachedResult]
	upgrader websocket.Upgrader
	logger   *log.Logger
}

// NewHandler creates a handler. A CacheEntries of zero disables the result cache.
func NewHandler(cfg *config.Config) (*Handler, error) {
	h := &Handler{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
		},
		logger: log.New(os.Stdout, "[api] ", log.LstdFlags),
	}
	// A nil CheckOrigin makes the upgrader reject cross-origin requests.
	if cfg.AllowAnyOrigin {
		h.upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	}
	if cfg.CacheEntries > 0 {
		cache, err := lru.New[uint64, cachedResult](cfg.CacheEntries)
		if err != nil {
			return nil, fmt.Errorf("failed to create result cache: %w", err)
		}
		h.cache = cache
	}
	return h, nil
}

// cacheKey hashes the operation, its options and the input.
func cacheKey(operation string, options compression.Options, data []byte) uint64 {
	digest := xxhash.New()
	fmt.Fprintf(digest, "%s|%s|%d|", operation, options.Algorithm, options.MaxWidth)
	digest.Write(data)
	return digest.Sum64()
}

// process runs a compression or decompression through the result cache.
func (h *Handler) process(operation string, data []byte, options compression.Options) ([]byte, *compression.Stats, bool, error) {
	var key uint64
	if h.cache != nil {
		key = cacheKey(operation, options, data)
		if hit, ok := h.cache.Get(key); ok {
			stats := hit.stats
			return hit.data, &stats, true, nil
		}
	}
	run := compression.Compress
	if operation == "decompress" {
		run = compression.Decompress
	}
	output, stats, err := run(data, options)
	if err != nil {
		return nil, nil, false, err
	}
	if h.cache != nil {
		h.cache.Add(key, cachedResult{data: output, stats: *stats})
	}
	return output, stats, false, nil
}

func statsResponse(stats *compression.Stats, cached bool) StatsResponse {
	return StatsResponse{
		Algorithm:        stats.Algorithm,
		OriginalSize:     stats.OriginalSize,
		ProcessedSize:    stats.ProcessedSize,
		CompressionRatio: stats.CompressionRatio,
		Checksum:         fmt.Sprintf("%016x", stats.Checksum),
		ElapsedMicros:    stats.Elapsed.Microseconds(),
		Cached:           cached,
	}
}

// errorStatus maps codec error kinds to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, errs.ErrFormatMismatch), errors.Is(err, errs.ErrCorruptStream), errors.Is(err, errs.ErrEmptyInput):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) abort(c *gin.Context, status int, title, message string) {
	c.JSON(status, ErrorResponse{
		Error:   title,
		Code:    status,
		Message: message,
	})
}

// resolveOptions validates the algorithm and dictionary width of a request.
func (h *Handler) resolveOptions(algorithm string, maxWidth *uint) (compression.Options, error) {
	options := compression.Options{Algorithm: algorithm, MaxWidth: h.cfg.LZWMaxWidth}
	if options.Algorithm == "" {
		options.Algorithm = compression.DefaultAlgorithm
	}
	if !compression.IsValidAlgorithm(options.Algorithm) {
		return options, fmt.Errorf("unsupported algorithm %q, supported algorithms: %v", options.Algorithm, compression.GetSupportedAlgorithms())
	}
	if maxWidth != nil {
		options.MaxWidth = *maxWidth
	}
	if err := options.Validate(); err != nil {
		return options, err
	}
	return options, nil
}

// readUpload reads the multipart "file" field, enforcing the size limit.
func (h *Handler) readUpload(c *gin.Context) ([]byte, string, bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.abort(c, http.StatusBadRequest, "File upload error", "No file provided or file upload failed")
		return nil, "", false
	}
	defer file.Close()

	// Check file size
	if header.Size > h.cfg.MaxFileSize {
		h.abort(c, http.StatusBadRequest, "File too large", fmt.Sprintf("Maximum file size is %d bytes", h.cfg.MaxFileSize))
		return nil, "", false
	}

	fileContent, err := io.ReadAll(file)
	if err != nil {
		h.abort(c, http.StatusInternalServerError, "File read error", "Failed to read uploaded file")
		return nil, "", false
	}
	return fileContent, header.Filename, true
}

func setStatsHeaders(c *gin.Context, stats *compression.Stats, cached bool) {
	c.Header("X-Original-Size", strconv.Itoa(stats.OriginalSize))
	c.Header("X-Processed-Size", strconv.Itoa(stats.ProcessedSize))
	c.Header("X-Compression-Ratio", strconv.FormatFloat(stats.CompressionRatio, 'f', 2, 64))
	c.Header("X-Checksum", fmt.Sprintf("%016x", stats.Checksum))
	if cached {
		c.Header("X-Cache", "HIT")
	} else {
		c.Header("X-Cache", "MISS")
	}
}

// HandleCompress handles file compression requests
func (h *Handler) HandleCompress(c *gin.Context) {
	var req CompressRequest
	if err := c.ShouldBind(&req); err != nil {
		h.abort(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	options, err := h.resolveOptions(req.Algorithm, req.MaxWidth)
	if err != nil {
		h.abort(c, http.StatusBadRequest, "Invalid options", err.Error())
		return
	}
	fileContent, filename, ok := h.readUpload(c)
	if !ok {
		return
	}

	compressedData, stats, cached, err := h.process("compress", fileContent, options)
	if err != nil {
		h.logger.Printf("compress %q with %s failed: %v", filename, options.Algorithm, err)
		h.abort(c, errorStatus(err), "Compression failed", err.Error())
		return
	}

	// Set response headers for file download
	name := fmt.Sprintf("%s_compressed.%s", getBaseFilename(filename), getExtensionForAlgorithm(options.Algorithm))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", name))
	setStatsHeaders(c, stats, cached)
	c.Data(http.StatusOK, "application/octet-stream", compressedData)
}

// HandleDecompress handles file decompression requests
func (h *Handler) HandleDecompress(c *gin.Context) {
	var req DecompressRequest
	if err := c.ShouldBind(&req); err != nil {
		h.abort(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	options, err := h.resolveOptions(req.Algorithm, nil)
	if err != nil {
		h.abort(c, http.StatusBadRequest, "Invalid options", err.Error())
		return
	}
	fileContent, filename, ok := h.readUpload(c)
	if !ok {
		return
	}

	decompressedData, stats, cached, err := h.process("decompress", fileContent, options)
	if err != nil {
		h.logger.Printf("decompress %q with %s failed: %v", filename, options.Algorithm, err)
		h.abort(c, errorStatus(err), "Decompression failed", err.Error())
		return
	}

	name := fmt.Sprintf("%s_decompressed.bin", getBaseFilename(filename))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", name))
	setStatsHeaders(c, stats, cached)
	c.Data(http.StatusOK, "application/octet-stream", decompressedData)
}

// HandleStream upgrades to a websocket. Every binary message is compressed
// (or decompressed with ?mode=decompress) and answered with the result as a
// binary message followed by a JSON stats message.
func (h *Handler) HandleStream(c *gin.Context) {
	operation := c.DefaultQuery("mode", "compress")
	if operation != "compress" && operation != "decompress" {
		h.abort(c, http.StatusBadRequest, "Invalid mode", "mode must be compress or decompress")
		return
	}
	var maxWidth *uint
	if raw := c.Query("max_width"); raw != "" && operation == "compress" {
		parsed, err := strconv.ParseUint(raw, 10, 8)
		if err != nil {
			h.abort(c, http.StatusBadRequest, "Invalid options", err.Error())
			return
		}
		w := uint(parsed)
		maxWidth = &w
	}
	options, err := h.resolveOptions(c.Query("algorithm"), maxWidth)
	if err != nil {
		h.abort(c, http.StatusBadRequest, "Invalid options", err.Error())
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Printf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(h.cfg.MaxFileSize)

	for {
		messageType, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Printf("websocket read failed: %v", err)
			}
			return
		}
		if messageType != websocket.BinaryMessage {
			if err := conn.WriteJSON(ErrorResponse{
				Error:   "Invalid message",
				Code:    http.StatusBadRequest,
				Message: "only binary messages are processed",
			}); err != nil {
				return
			}
			continue
		}

		output, stats, cached, err := h.process(operation, payload, options)
		if err != nil {
			if err := conn.WriteJSON(ErrorResponse{
				Error:   "Processing failed",
				Code:    errorStatus(err),
				Message: err.Error(),
			}); err != nil {
				return
			}
			continue
		}
		if err := conn.WriteMessage(websocket.BinaryMessage, output); err != nil {
			h.logger.Printf("websocket write failed: %v", err)
			return
		}
		if err := conn.WriteJSON(statsResponse(stats, cached)); err != nil {
			h.logger.Printf("websocket write failed: %v", err)
			return
		}
	}
}

// HandleInfo provides information about supported algorithms
func (h *Handler) HandleInfo(c *gin.Context) {
	info := map[string]interface{}{
		"service": "Folktale LZW + Huffman Compression Service",
		"version": "1.0.0",
		"algorithms": map[string]interface{}{
			"supported": compression.GetSupportedAlgorithms(),
			"default":   compression.DefaultAlgorithm,
			"descriptions": map[string]string{
				compression.AlgorithmLZWHuffman: "LZW dictionary coding followed by canonical Huffman coding of the LZW codes",
				compression.AlgorithmLZW:        "LZW dictionary coding with variable-width codes",
				compression.AlgorithmHuffman:    "Canonical Huffman coding of raw bytes",
			},
		},
		"limits": map[string]interface{}{
			"max_file_size": fmt.Sprintf("%d bytes (%.1f MB)", h.cfg.MaxFileSize, float64(h.cfg.MaxFileSize)/(1024*1024)),
			"lzw_max_width": h.cfg.LZWMaxWidth,
			"lzw_width_range": map[string][2]uint{
				compression.AlgorithmLZWHuffman: {lzw.MinWidth, compression.MaxWidthFor(compression.AlgorithmLZWHuffman)},
				compression.AlgorithmLZW:        {lzw.MinWidth, compression.MaxWidthFor(compression.AlgorithmLZW)},
			},
		},
		"endpoints": map[string]interface{}{
			"compress":   "POST /api/v1/compress - Upload file for compression",
			"decompress": "POST /api/v1/decompress - Upload file for decompression",
			"stream":     "GET /api/v1/stream - Websocket, one binary message per payload",
			"info":       "GET /info - Get service information",
			"health":     "GET /health - Health check",
		},
	}

	c.JSON(http.StatusOK, info)
}

// HandleHealth provides a simple health check endpoint
func (h *Handler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "compression-service",
	})
}

// Helper functions
func getBaseFilename(filename string) string {
	if filename == "" {
		return "file"
	}

	// Remove extension
	for i := len(filename) - 1; i >= 0; i-- {
		if filename[i] == '.' {
			return filename[:i]
		}
	}
	return filename
}

func getExtensionForAlgorithm(algorithm string) string {
	extensions := map[string]string{
		compression.AlgorithmLZWHuffman: "flkz",
		compression.AlgorithmLZW:        "lzw",
		compression.AlgorithmHuffman:    "huff",
	}

	if ext, exists := extensions[algorithm]; exists {
		return ext
	}
	return "compressed"
}
