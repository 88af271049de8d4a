package embedding

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math"
	"os"
	"strings"
	"unicode"

	"careerpilot/internal/domain"
)

const defaultLocalDimension = 384

// LocalModel is the on-disk form of a local hashing model: feature weights
// learned offline (typically IDF over a reference corpus).
type LocalModel struct {
	Name      string             `json:"name"`
	Dimension int                `json:"dimension"`
	Weights   map[string]float32 `json:"weights"`
}

// LocalProvider is an in-process embedding model. Text is mapped to word
// unigrams and boundary-padded character trigrams, hashed into a fixed number
// of buckets with sublinear term frequency. With non-negative weights every
// component is non-negative.
type LocalProvider struct {
	name      string
	dimension int
	weights   map[string]float32
}

// NewLocalProvider creates a local provider. With an empty modelPath all
// features weigh 1; otherwise the model file must load or ErrModelLoad is returned.
func NewLocalProvider(dimension int, modelPath string) (*LocalProvider, error) {
	if modelPath == "" {
		if dimension <= 0 {
			dimension = defaultLocalDimension
		}
		return &LocalProvider{
			name:      fmt.Sprintf("hash-%d", dimension),
			dimension: dimension,
		}, nil
	}

	model, err := LoadLocalModel(modelPath)
	if err != nil {
		return nil, err
	}
	name := model.Name
	if name == "" {
		name = fmt.Sprintf("hash-%d-weighted", model.Dimension)
	}
	return &LocalProvider{
		name:      name,
		dimension: model.Dimension,
		weights:   model.Weights,
	}, nil
}

// LoadLocalModel reads and validates a model file.
func LoadLocalModel(path string) (*LocalModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrModelLoad, err)
	}

	var model LocalModel
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrModelLoad, path, err)
	}
	if model.Dimension <= 0 {
		return nil, fmt.Errorf("%w: %s: dimension must be positive", domain.ErrModelLoad, path)
	}
	return &model, nil
}

func (p *LocalProvider) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = p.embed(text)
	}
	return out, nil
}

func (p *LocalProvider) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.embed(text), nil
}

func (p *LocalProvider) embed(text string) []float32 {
	vec := make([]float32, p.dimension)

	for feature, tf := range features(text) {
		w := float32(1)
		if p.weights != nil {
			if fw, ok := p.weights[feature]; ok {
				w = fw
			}
		}
		weight := (1 + float32(math.Log(float64(tf)))) * w
		vec[bucket(feature, p.dimension)] += weight
	}
	return vec
}

// features counts word and character-trigram features of text.
func features(text string) map[string]int {
	counts := make(map[string]int)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	for _, w := range words {
		counts["w:"+w]++

		padded := []rune("#" + w + "#")
		for i := 0; i+3 <= len(padded); i++ {
			counts["c:"+string(padded[i:i+3])]++
		}
	}
	return counts
}

func bucket(feature string, dimension int) int {
	h := fnv.New32a()
	h.Write([]byte(feature))
	return int(h.Sum32() % uint32(dimension))
}

func (p *LocalProvider) Dimension() int {
	return p.dimension
}

func (p *LocalProvider) ModelName() string {
	return p.name
}
