// Package main is the Kotae CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hyperjump/kotae/internal/chunker"
	"github.com/hyperjump/kotae/internal/cli"
	"github.com/hyperjump/kotae/internal/config"
	"github.com/hyperjump/kotae/internal/embedding"
	"github.com/hyperjump/kotae/internal/extract"
	"github.com/hyperjump/kotae/internal/fileid"
	"github.com/hyperjump/kotae/internal/indexer"
	"github.com/hyperjump/kotae/internal/llm"
	"github.com/hyperjump/kotae/internal/models"
	"github.com/hyperjump/kotae/internal/rag"
	"github.com/hyperjump/kotae/internal/server"
	"github.com/hyperjump/kotae/internal/storage"
	"github.com/hyperjump/kotae/internal/vector"
	"github.com/hyperjump/kotae/internal/watcher"
	"github.com/hyperjump/kotae/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/kotae/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory, so "kotae server" from the project
// dir uses the project's config. Returns the config and the path actually
// loaded (for saving watch directory changes).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	_ = godotenv.Load()
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	switch os.Args[1] {
	case "server":
		runServer()
	case "search":
		runSearch()
	case "ask":
		runAsk()
	case "index":
		runIndex()
	case "delete":
		runDelete()
	case "watch":
		runWatch()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("kotae version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (watch events, file indexing, etc.)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	idx := components.Indexer
	exts := cfg.Watch.Extensions
	watchOpts := []watcher.Option{}
	if debugMode {
		watchOpts = append(watchOpts, watcher.WithLogger(logger))
	}
	watchSvc := watcher.New(
		cfg.Watch.Directories,
		exts,
		cfg.Watch.RecursiveOrDefault(),
		func(path string) {
			if err := idx.IndexFile(context.Background(), path, exts); err != nil {
				logger.Warn("watch index file failed", zap.String("path", path), zap.Error(err))
			}
		},
		func(path string) {
			if err := idx.DeleteDocument(context.Background(), fileid.FileDocID(path)); err != nil {
				logger.Warn("watch delete by path failed", zap.String("path", path), zap.Error(err))
			}
		},
		watchOpts...,
	)
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if err := watchSvc.Start(watchCtx); err != nil {
		logger.Fatal("Failed to start watcher", zap.Error(err))
	}
	watchSvc.SyncExistingFiles()

	srv := server.NewServer(
		components.Engine,
		components.Synthesizer,
		components.Indexer,
		components.Storage,
		watchSvc,
		cfg,
		resolvedConfigPath,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// buildQuery joins all positional args with spaces so multi-word queries work
// the same with or without shell quoting.
func buildQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// argsReorder moves any flags (and their values) that appear after the query
// to the front of the slice so flag.Parse() sees them. The flag package stops
// at the first non-flag argument.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func runSearch() {
	args := argsReorder(os.Args[2:])
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct storage when server is not running)")
	topK := fs.Int("top-k", 0, "number of results (0 = config default)")
	withAnswer := fs.Bool("answer", false, "generate an answer grounded in the results")
	provider := fs.String("provider", "", "generation backend for --answer (empty = config default)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(args)

	queryStr := buildQuery(fs.Args())
	if queryStr == "" {
		fmt.Println("Usage: kotae search [flags] <query>")
		fs.PrintDefaults()
		os.Exit(1)
	}
	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	query := &models.SearchQuery{
		Query:          queryStr,
		TopK:           *topK,
		GenerateAnswer: *withAnswer,
		Provider:       *provider,
	}

	var response *models.SearchResponse
	if *serverURL != "" {
		// Use the HTTP API when the server is running (avoids an SQLite lock conflict).
		response, err = searchViaHTTP(*serverURL, query)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		components, cfg := mustInitialize(*configPath)
		defer components.Close()
		response, err = searchDirect(components, cfg, query)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			os.Exit(1)
		}
	}
	if err := cli.WriteSearchResults(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func searchDirect(c *Components, cfg *config.Config, query *models.SearchQuery) (*models.SearchResponse, error) {
	if query.TopK <= 0 {
		query.TopK = cfg.Search.DefaultTopK
	}
	if cfg.Search.MaxTopK > 0 && query.TopK > cfg.Search.MaxTopK {
		query.TopK = cfg.Search.MaxTopK
	}
	start := time.Now()
	results, err := c.Engine.Search(context.Background(), query.Query, query.TopK, query.Filter)
	if err != nil {
		return nil, err
	}
	response := &models.SearchResponse{
		Query:   query.Query,
		Results: results,
		Total:   len(results),
	}
	if query.GenerateAnswer {
		answer := c.Synthesizer.GenerateAnswer(context.Background(), query.Query, results)
		response.Answer = &answer
	}
	response.QueryTime = time.Since(start).Milliseconds()
	return response, nil
}

func searchViaHTTP(serverURL string, query *models.SearchQuery) (*models.SearchResponse, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/search", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var response models.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

func runAsk() {
	args := argsReorder(os.Args[2:])
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct storage)")
	topK := fs.Int("top-k", 0, "number of source chunks to retrieve (0 = config default)")
	provider := fs.String("provider", "", "generation backend (empty = config default)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(args)

	question := buildQuery(fs.Args())
	if question == "" {
		fmt.Println("Usage: kotae ask [flags] <question>")
		fs.PrintDefaults()
		os.Exit(1)
	}
	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	var answer models.AnswerWithSources
	if *serverURL != "" {
		res, err := askViaHTTP(*serverURL, question, *topK, *provider)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Ask failed: %v\n", err)
			os.Exit(1)
		}
		answer = *res
	} else {
		components, cfg := mustInitialize(*configPath)
		defer components.Close()
		query := &models.SearchQuery{Query: question, TopK: *topK}
		response, err := searchDirect(components, cfg, query)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Ask failed: %v\n", err)
			os.Exit(1)
		}
		answer = components.Synthesizer.GenerateAnswer(context.Background(), question, response.Results)
	}
	if err := cli.WriteAnswer(os.Stdout, &answer, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func askViaHTTP(serverURL, question string, topK int, provider string) (*models.AnswerWithSources, error) {
	body, err := json.Marshal(map[string]interface{}{
		"question": question,
		"top_k":    topK,
		"provider": provider,
	})
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/ask", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var out models.AnswerWithSources
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

// statusConfigResponse holds configuration info returned by status.
type statusConfigResponse struct {
	IndexKind           string `json:"index_kind"`
	EmbeddingProvider   string `json:"embedding_provider,omitempty"`
	EmbeddingDimensions int    `json:"embedding_dimensions,omitempty"`
	ChunkSize           int    `json:"chunk_size,omitempty"`
	ChunkOverlap        int    `json:"chunk_overlap,omitempty"`
	LLMProvider         string `json:"llm_provider,omitempty"`
	DatabasePath        string `json:"database_path,omitempty"`
	VectorIndexPath     string `json:"vector_index_path,omitempty"`
}

// statusResponse is the shape of GET /api/v1/status response.
type statusResponse struct {
	Documents      int64                 `json:"documents"`
	Chunks         int64                 `json:"chunks"`
	TotalVectors   int64                 `json:"total_vectors"`
	DiskUsageBytes *int64                `json:"disk_usage_bytes,omitempty"`
	Config         *statusConfigResponse `json:"config,omitempty"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct storage)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var status statusResponse
	if *serverURL != "" {
		res, err := statusViaHTTP(*serverURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		status = *res
	} else {
		components, cfg := mustInitialize(*configPath)
		defer components.Close()
		ctx := context.Background()
		docCount, err := components.Storage.CountDocuments(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Count documents failed: %v\n", err)
			os.Exit(1)
		}
		chunkCount, err := components.Storage.CountChunks(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Count chunks failed: %v\n", err)
			os.Exit(1)
		}
		stats := components.Engine.Stats()
		status = statusResponse{
			Documents:    docCount,
			Chunks:       chunkCount,
			TotalVectors: stats.TotalVectors,
			Config: &statusConfigResponse{
				IndexKind:           stats.IndexKind,
				EmbeddingProvider:   cfg.Embedding.Provider,
				EmbeddingDimensions: stats.Dimensions,
				ChunkSize:           cfg.Search.ChunkSize,
				ChunkOverlap:        cfg.Search.ChunkOverlap,
				LLMProvider:         cfg.LLM.Provider,
				DatabasePath:        cfg.Storage.DatabasePath,
				VectorIndexPath:     cfg.Storage.VectorIndexPath,
			},
		}
		diskBytes, err := storage.DiskUsageBytes(cfg.Storage.DatabasePath, cfg.Storage.VectorIndexPath)
		if err == nil {
			status.DiskUsageBytes = &diskBytes
		}
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		fmt.Printf("documents:      %d   # count of indexed documents\n", status.Documents)
		fmt.Printf("chunks:         %d   # count of text chunks\n", status.Chunks)
		fmt.Printf("total_vectors:  %d   # count of vectors in semantic index\n", status.TotalVectors)
		if status.DiskUsageBytes != nil {
			fmt.Printf("disk_usage:     %d   # database + index bytes on disk\n", *status.DiskUsageBytes)
		}
		if status.Config != nil {
			fmt.Println()
			fmt.Println("# configuration")
			fmt.Printf("index_kind:          %s\n", status.Config.IndexKind)
			if status.Config.EmbeddingProvider != "" {
				fmt.Printf("embedding_provider:  %s\n", status.Config.EmbeddingProvider)
			}
			if status.Config.EmbeddingDimensions > 0 {
				fmt.Printf("embedding_dims:      %d\n", status.Config.EmbeddingDimensions)
			}
			if status.Config.ChunkSize > 0 {
				fmt.Printf("chunk_size:          %d\n", status.Config.ChunkSize)
			}
			if status.Config.ChunkOverlap > 0 {
				fmt.Printf("chunk_overlap:       %d\n", status.Config.ChunkOverlap)
			}
			if status.Config.LLMProvider != "" {
				fmt.Printf("llm_provider:        %s\n", status.Config.LLMProvider)
			}
			if status.Config.DatabasePath != "" {
				fmt.Printf("database_path:       %s\n", status.Config.DatabasePath)
			}
			if status.Config.VectorIndexPath != "" {
				fmt.Printf("vector_index_path:   %s\n", status.Config.VectorIndexPath)
			}
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func statusViaHTTP(serverURL string) (*statusResponse, error) {
	resp, err := http.Get(serverURL + "/api/v1/status")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var s statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &s, nil
}

func runIndex() {
	fs := flag.NewFlagSet("index", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: kotae index [flags] <file-or-directory>")
		os.Exit(1)
	}
	path := fs.Arg(0)

	components, cfg := mustInitialize(*configPath)
	defer components.Close()

	ctx := context.Background()
	info, err := os.Stat(path)
	if err != nil {
		fmt.Printf("Failed to stat path: %v\n", err)
		os.Exit(1)
	}
	if info.IsDir() {
		n, err := components.Indexer.IndexDirectory(ctx, path, cfg.Watch.Extensions)
		if err != nil {
			fmt.Printf("Indexing directory failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Indexed %d file(s) from %s\n", n, path)
		return
	}
	// Single file: no extension filter
	if err := components.Indexer.IndexFile(ctx, path, nil); err != nil {
		fmt.Printf("Indexing failed: %v\n", err)
		os.Exit(1)
	}
	absPath, _ := filepath.Abs(path)
	fmt.Printf("Document indexed successfully: %s\n", fileid.FileDocID(absPath))
}

func runDelete() {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: kotae delete [flags] <document-id>")
		os.Exit(1)
	}
	docID := fs.Arg(0)

	components, _ := mustInitialize(*configPath)
	defer components.Close()

	if err := components.Indexer.DeleteDocument(context.Background(), docID); err != nil {
		fmt.Printf("Deletion failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Document deleted: %s\n", docID)
}

func runWatch() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: kotae watch <add|remove|list> [path]")
		fmt.Println("  kotae watch add <path>     Add directory to watch")
		fmt.Println("  kotae watch remove <path>  Remove directory from watch")
		fmt.Println("  kotae watch list           List watched directories")
		os.Exit(1)
	}
	sub := os.Args[2]
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	_ = fs.Parse(os.Args[3:])
	switch sub {
	case "add":
		if fs.NArg() < 1 {
			fmt.Println("Usage: kotae watch add <path>")
			os.Exit(1)
		}
		path, _ := filepath.Abs(fs.Arg(0))
		body, _ := json.Marshal(map[string]interface{}{"path": path, "sync": true})
		resp, err := http.Post(*serverURL+"/api/v1/watch/directories", "application/json", bytes.NewReader(body))
		if err != nil {
			fmt.Printf("Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			b, _ := io.ReadAll(resp.Body)
			fmt.Printf("Add failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		fmt.Printf("Added: %s\n", path)
	case "remove":
		if fs.NArg() < 1 {
			fmt.Println("Usage: kotae watch remove <path>")
			os.Exit(1)
		}
		path, _ := filepath.Abs(fs.Arg(0))
		req, _ := http.NewRequest(http.MethodDelete, *serverURL+"/api/v1/watch/directories?path="+url.QueryEscape(path), nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			fmt.Printf("Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			fmt.Printf("Remove failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		fmt.Printf("Removed: %s\n", path)
	case "list":
		resp, err := http.Get(*serverURL + "/api/v1/watch/directories")
		if err != nil {
			fmt.Printf("Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			fmt.Printf("List failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		var out struct {
			Directories []string `json:"directories"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			fmt.Printf("Parse failed: %v\n", err)
			os.Exit(1)
		}
		for _, d := range out.Directories {
			fmt.Println(d)
		}
	default:
		fmt.Printf("Unknown watch subcommand: %s\n", sub)
		os.Exit(1)
	}
}

// Components holds initialized services.
type Components struct {
	Storage     storage.Storage
	Embedder    embedding.Embedder
	VectorStore *vector.Store
	Engine      *rag.Engine
	Synthesizer *rag.Synthesizer
	Indexer     *indexer.Indexer
}

func (c *Components) Close() {
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
	if c.VectorStore != nil {
		_ = c.VectorStore.Close()
	}
}

func mustInitialize(configPath string) (*Components, *config.Config) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	components, err := initializeComponents(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	return components, cfg
}

func newEmbedder(cfg *config.EmbeddingConfig, logger *zap.Logger) (embedding.Embedder, error) {
	switch cfg.Provider {
	case "openai":
		return embedding.NewOpenAIEmbedder(os.Getenv("OPENAI_API_KEY"), cfg.Model, cfg.BatchSize, cfg.CacheSize)
	case "mock":
		return embedding.NewMockEmbedder(cfg.Dimensions), nil
	case "onnx", "":
		onnxEmbedder, err := embedding.NewONNXEmbedder(cfg.ModelPath, cfg.Dimensions, cfg.MaxTokens, cfg.CacheSize)
		if err != nil {
			// Model missing or built without cgo; keep the pipeline usable.
			logger.Warn("onnx embedder unavailable, using mock embeddings",
				zap.String("model_path", cfg.ModelPath),
				zap.Error(err))
			return embedding.NewMockEmbedder(cfg.Dimensions), nil
		}
		return onnxEmbedder, nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	embedder, err := newEmbedder(&cfg.Embedding, logger)
	if err != nil {
		return nil, err
	}

	index, err := vector.NewIndex(cfg.Search.IndexKind, embedder.Dimensions())
	if err != nil {
		if cfg.Search.IndexKind != string(vector.KindFlat) && cfg.Search.IndexKind != "" {
			logger.Warn("failed to create vector index, falling back to flat",
				zap.String("requested_kind", cfg.Search.IndexKind),
				zap.Error(err))
			index, err = vector.NewIndex(string(vector.KindFlat), embedder.Dimensions())
		}
		if err != nil {
			return nil, fmt.Errorf("failed to initialize vector index: %w", err)
		}
	}
	vecStore, err := vector.OpenStore(cfg.Storage.VectorIndexPath, index)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector store: %w", err)
	}
	logger.Info("vector store opened",
		zap.String("kind", index.Kind()),
		zap.Int64("vectors", index.Ntotal()),
		zap.Bool("faiss_available", vector.IsFAISSAvailable()))

	engine := rag.NewEngine(embedder, vecStore, logger)

	provider, err := llm.New(cfg.LLM.Provider, llm.Config{
		APIKey:    os.Getenv("OPENAI_API_KEY"),
		Model:     cfg.LLM.Model,
		OllamaURL: cfg.LLM.OllamaURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize llm provider: %w", err)
	}
	synth := rag.NewSynthesizer(provider, time.Duration(cfg.LLM.TimeoutSecs)*time.Second, logger)

	ch, err := chunker.NewChunker(cfg.Search.ChunkSize, cfg.Search.ChunkOverlap)
	if err != nil {
		return nil, fmt.Errorf("invalid chunking config: %w", err)
	}
	idx := indexer.NewIndexer(store, engine, ch, extract.NewExtractor(), logger)

	return &Components{
		Storage:     store,
		Embedder:    embedder,
		VectorStore: vecStore,
		Engine:      engine,
		Synthesizer: synth,
		Indexer:     idx,
	}, nil
}

func printUsage() {
	fmt.Println(`kotae - Local semantic document search with grounded answers

Usage:
  kotae server [flags]            Start the HTTP server
  kotae search [flags] <query>    Search indexed documents
  kotae ask [flags] <question>    Ask a question, get a cited answer
  kotae index [flags] <path>      Index a file or directory
  kotae delete [flags] <id>       Delete a document
  kotae status [flags]            Show storage and index status
  kotae watch <add|remove|list>   Manage watched directories
  kotae version                   Show version
  kotae help                      Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/kotae/config.yaml)
  --debug            Enable debug logging (watch events, file indexing, etc.)

Search Flags:
  --config string    Config file path (for direct storage mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") when the server is not running.
  --top-k int        Number of results (default from config)
  --answer           Generate an answer grounded in the results
  --provider string  Generation backend for --answer: openai, ollama, or offline
  --output string    Output format: text or json (default: text)

Ask Flags:
  --config string    Config file path (for direct storage mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") for direct storage.
  --top-k int        Number of source chunks to retrieve
  --provider string  Generation backend: openai, ollama, or offline
  --output string    Output format: text or json (default: text)

Examples:
  kotae server
  kotae search safety procedures
  kotae search --answer "machine guard requirements"
  kotae ask "What is the evacuation procedure?"
  kotae ask --provider ollama "Who approves purchase orders?"
  kotae index ./docs
  kotae delete doc-123
  kotae status --output json
  kotae watch add /path/to/docs`)
}
