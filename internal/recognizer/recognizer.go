// Package recognizer estimates food macros from a photo or a food name.
package recognizer

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jgoulah/kcaltrack/internal/errs"
)

// Candidate is one food guessed from an image, with per-serving macros
type Candidate struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
	Macros
}

// ImageRecognizer identifies foods in an image. Results are ordered by
// descending confidence and may be empty.
type ImageRecognizer interface {
	Recognize(ctx context.Context, image []byte) ([]Candidate, error)
}

// SortByConfidence orders candidates from most to least confident
func SortByConfidence(c []Candidate) {
	sort.SliceStable(c, func(i, j int) bool { return c[i].Confidence > c[j].Confidence })
}

// Simulated picks random table items after a delay. It stands in for a real
// model when no vision endpoint is configured.
type Simulated struct {
	table *Table
	delay time.Duration

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSimulated creates a simulated recognizer over table. A nil rnd uses a
// randomly seeded source.
func NewSimulated(table *Table, delay time.Duration, rnd *rand.Rand) *Simulated {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Simulated{table: table, delay: delay, rnd: rnd}
}

// Recognize returns one to three distinct foods with confidence in [0.7, 1.0)
func (s *Simulated) Recognize(ctx context.Context, image []byte) ([]Candidate, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: empty image", errs.ErrRecognition)
	}

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	foods := s.table.Foods()
	if len(foods) == 0 {
		return []Candidate{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n := min(s.rnd.IntN(3)+1, len(foods))
	picked := make(map[int]bool, n)
	out := make([]Candidate, 0, n)
	for len(out) < n {
		i := s.rnd.IntN(len(foods))
		if picked[i] {
			continue
		}
		picked[i] = true
		out = append(out, Candidate{
			Name:       foods[i].Name,
			Confidence: 0.7 + s.rnd.Float64()*0.3,
			Macros:     foods[i].Macros,
		})
	}

	SortByConfidence(out)
	return out, nil
}

// Chain tries recognizers in order and returns the first non-empty result
type Chain struct {
	recognizers []ImageRecognizer
	logger      *zap.Logger
}

// NewChain creates a chain; nil recognizers are skipped
func NewChain(logger *zap.Logger, recognizers ...ImageRecognizer) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Chain{logger: logger}
	for _, r := range recognizers {
		if r != nil {
			c.recognizers = append(c.recognizers, r)
		}
	}
	return c
}

// Recognize returns the first successful non-empty result. When every
// recognizer fails or finds nothing the error wraps errs.ErrRecognition.
func (c *Chain) Recognize(ctx context.Context, image []byte) ([]Candidate, error) {
	var failures []error
	for i, r := range c.recognizers {
		results, err := r.Recognize(ctx, image)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Warn("recognizer failed, trying next", zap.Int("index", i), zap.Error(err))
			failures = append(failures, err)
			continue
		}
		if len(results) == 0 {
			c.logger.Info("recognizer found nothing", zap.Int("index", i))
			continue
		}
		SortByConfidence(results)
		return results, nil
	}

	if len(failures) > 0 {
		return nil, fmt.Errorf("%w: %w", errs.ErrRecognition, errors.Join(failures...))
	}
	return nil, fmt.Errorf("%w: no food recognized", errs.ErrRecognition)
}

// DecodeDataURI splits a data URI into its bytes and MIME type. Bare base64
// without the data: header is accepted and its type sniffed.
func DecodeDataURI(uri string) ([]byte, string, error) {
	payload := strings.TrimSpace(uri)
	mime := ""

	if strings.HasPrefix(payload, "data:") {
		header, data, ok := strings.Cut(payload, ",")
		if !ok {
			return nil, "", errors.New("data uri has no payload")
		}
		meta := strings.TrimPrefix(header, "data:")
		if !strings.HasSuffix(meta, ";base64") {
			return nil, "", errors.New("data uri is not base64 encoded")
		}
		mime = strings.TrimSuffix(meta, ";base64")
		payload = data
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("decoding image data: %w", err)
	}
	if mime == "" {
		mime = http.DetectContentType(raw)
	}
	return raw, mime, nil
}

// EncodeDataURI builds a base64 data URI, sniffing the type when mime is empty
func EncodeDataURI(image []byte, mime string) string {
	if mime == "" {
		mime = http.DetectContentType(image)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(image)
}
