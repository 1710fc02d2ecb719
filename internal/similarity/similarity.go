// Package similarity compares texts by the cosine of their embeddings, falling back
// to TF-IDF vectors when no embedder is reachable.
package similarity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/james-bowman/nlp"
	"github.com/pscheid92/nlpnavigator/internal/domain"
	"github.com/pscheid92/nlpnavigator/internal/textproc"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

type Method string

const (
	MethodEmbedding Method = "embedding"
	MethodTFIDF     Method = "tfidf"
)

type Result struct {
	Score  float64
	Method Method
	Err    error // embedder failure that forced the TF-IDF fallback
}

func (r Result) Degraded() bool { return r.Method == MethodTFIDF && r.Err != nil }

// Cosine returns the cosine similarity of two equal-length vectors. Zero vectors compare as 0.
func Cosine(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector length mismatch: %d != %d", len(a), len(b))
	}
	if len(a) == 0 {
		return 0, errors.New("empty vectors")
	}
	na, nb := floats.Norm(a, 2), floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0, nil
	}
	return floats.Dot(a, b) / (na * nb), nil
}

// Compare embeds both texts and returns their cosine similarity. When the embedder
// fails the TF-IDF cosine is returned with the cause attached.
func Compare(ctx context.Context, embedder domain.Embedder, a, b string) Result {
	score, err := embeddingCosine(ctx, embedder, a, b)
	if err == nil {
		return Result{Score: score, Method: MethodEmbedding}
	}

	slog.WarnContext(ctx, "Embedder unavailable, falling back to TF-IDF similarity", "error", err)
	return Result{Score: TFIDFCosine(a, b), Method: MethodTFIDF, Err: err}
}

func embeddingCosine(ctx context.Context, embedder domain.Embedder, a, b string) (float64, error) {
	if embedder == nil {
		return 0, domain.ErrModelUnavailable
	}
	vecs, err := embedder.Embed(ctx, []string{a, b})
	if err != nil {
		return 0, err
	}
	if len(vecs) != 2 {
		return 0, fmt.Errorf("embedder returned %d vectors for 2 texts", len(vecs))
	}
	return Cosine(vecs[0], vecs[1])
}

// TFIDFCosine fits a TF-IDF model on the two texts and compares their columns.
func TFIDFCosine(a, b string) float64 {
	vectoriser := nlp.NewCountVectoriser(textproc.StopWords()...)
	pipeline := nlp.NewPipeline(vectoriser, nlp.NewTfidfTransformer())

	m, err := pipeline.FitTransform(a, b)
	if err != nil || len(vectoriser.Vocabulary) == 0 {
		return 0
	}

	va := mat.NewVecDense(len(vectoriser.Vocabulary), mat.Col(nil, 0, m))
	vb := mat.NewVecDense(len(vectoriser.Vocabulary), mat.Col(nil, 1, m))
	if mat.Norm(va, 2) == 0 || mat.Norm(vb, 2) == 0 {
		return 0
	}
	return nlp.CosineSimilarity(va, vb)
}
