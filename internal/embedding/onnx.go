//go:build cgo
// +build cgo

package embedding

import (
	"context"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// ONNXEmbedder runs a local sentence-embedding model through ONNX Runtime.
// The session is created lazily on first use and at most once per process;
// construction itself is cheap. Requires CGO and the onnxruntime shared library.
type ONNXEmbedder struct {
	modelPath  string
	dimensions int
	maxTokens  int
	cache      *EmbeddingCache
	tokenizer  Tokenizer

	loadOnce sync.Once
	loadErr  error
	session  *ort.AdvancedSession
	// Pre-allocated tensors reused across Run() calls; guarded by mu.
	inputIDsTensor      *ort.Tensor[int64]
	attentionMaskTensor *ort.Tensor[int64]
	tokenTypeIDsTensor  *ort.Tensor[int64]
	outputTensor        *ort.Tensor[float32]
	mu                  sync.Mutex
}

// NewONNXEmbedder returns an embedder for the model at modelPath. The model is
// not loaded until the first Embed call; load failures surface then as
// ErrModelUnavailable.
func NewONNXEmbedder(modelPath string, dimensions, maxTokens, cacheSize int) (*ONNXEmbedder, error) {
	if modelPath == "" {
		return nil, fmt.Errorf("%w: model path is empty", ErrModelUnavailable)
	}
	if dimensions <= 0 {
		return nil, fmt.Errorf("%w: dimensions must be positive", ErrModelUnavailable)
	}
	return &ONNXEmbedder{
		modelPath:  modelPath,
		dimensions: dimensions,
		maxTokens:  maxTokens,
		cache:      NewEmbeddingCache(cacheSize),
		tokenizer:  &HashTokenizer{},
	}, nil
}

// ensureSession initializes the ONNX environment, tensors, and session once.
func (e *ONNXEmbedder) ensureSession() error {
	e.loadOnce.Do(func() {
		e.loadErr = e.initSession()
	})
	if e.loadErr != nil {
		return fmt.Errorf("%w: %v", ErrModelUnavailable, e.loadErr)
	}
	return nil
}

func (e *ONNXEmbedder) initSession() error {
	if err := ort.InitializeEnvironment(); err != nil {
		return fmt.Errorf("initialize ONNX runtime: %w", err)
	}

	inputIDs, attentionMask, tokenTypeIDs := e.tokenizer.Tokenize("", e.maxTokens)

	inputIDsTensor, err := ort.NewTensor(ort.NewShape(1, int64(e.maxTokens)), inputIDs)
	if err != nil {
		return fmt.Errorf("create input_ids tensor: %w", err)
	}
	attentionMaskTensor, err := ort.NewTensor(ort.NewShape(1, int64(e.maxTokens)), attentionMask)
	if err != nil {
		inputIDsTensor.Destroy()
		return fmt.Errorf("create attention_mask tensor: %w", err)
	}
	tokenTypeIDsTensor, err := ort.NewTensor(ort.NewShape(1, int64(e.maxTokens)), tokenTypeIDs)
	if err != nil {
		inputIDsTensor.Destroy()
		attentionMaskTensor.Destroy()
		return fmt.Errorf("create token_type_ids tensor: %w", err)
	}
	outputTensor, err := ort.NewTensor(ort.NewShape(1, int64(e.dimensions)), make([]float32, e.dimensions))
	if err != nil {
		inputIDsTensor.Destroy()
		attentionMaskTensor.Destroy()
		tokenTypeIDsTensor.Destroy()
		return fmt.Errorf("create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(
		e.modelPath,
		[]string{"input_ids", "attention_mask", "token_type_ids"},
		[]string{"output"},
		[]ort.ArbitraryTensor{inputIDsTensor, attentionMaskTensor, tokenTypeIDsTensor},
		[]ort.ArbitraryTensor{outputTensor},
		nil,
	)
	if err != nil {
		inputIDsTensor.Destroy()
		attentionMaskTensor.Destroy()
		tokenTypeIDsTensor.Destroy()
		outputTensor.Destroy()
		return fmt.Errorf("create ONNX session: %w", err)
	}

	e.session = session
	e.inputIDsTensor = inputIDsTensor
	e.attentionMaskTensor = attentionMaskTensor
	e.tokenTypeIDsTensor = tokenTypeIDsTensor
	e.outputTensor = outputTensor
	return nil
}

// Embed returns the normalized embedding for text, using the cache when possible.
func (e *ONNXEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if cached, ok := e.cache.Get(text); ok {
		return cached, nil
	}
	if err := e.ensureSession(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	inputIDs, attentionMask, tokenTypeIDs := e.tokenizer.Tokenize(text, e.maxTokens)
	copy(e.inputIDsTensor.GetData(), inputIDs)
	copy(e.attentionMaskTensor.GetData(), attentionMask)
	copy(e.tokenTypeIDsTensor.GetData(), tokenTypeIDs)

	if err := e.session.Run(); err != nil {
		return nil, fmt.Errorf("%w: inference failed: %v", ErrModelUnavailable, err)
	}

	embedding := make([]float32, e.dimensions)
	copy(embedding, e.outputTensor.GetData()[:e.dimensions])
	NormalizeL2Slice(embedding)
	e.cache.Set(text, embedding)
	return embedding, nil
}

// EmbedBatch embeds each text in order. The session processes one text per run,
// so batching here is purely sequential.
func (e *ONNXEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		emb, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings[i] = emb
	}
	return embeddings, nil
}

// Dimensions returns the embedding dimension.
func (e *ONNXEmbedder) Dimensions() int {
	return e.dimensions
}

// Close destroys the session and tensors if they were created.
func (e *ONNXEmbedder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	var err error
	if e.session != nil {
		err = e.session.Destroy()
		e.session = nil
	}
	if e.inputIDsTensor != nil {
		_ = e.inputIDsTensor.Destroy()
		e.inputIDsTensor = nil
	}
	if e.attentionMaskTensor != nil {
		_ = e.attentionMaskTensor.Destroy()
		e.attentionMaskTensor = nil
	}
	if e.tokenTypeIDsTensor != nil {
		_ = e.tokenTypeIDsTensor.Destroy()
		e.tokenTypeIDsTensor = nil
	}
	if e.outputTensor != nil {
		_ = e.outputTensor.Destroy()
		e.outputTensor = nil
	}
	return err
}
