// Package tokenizer resolves encoding names to tokenizers. Two providers
// exist: one backed by tiktoken BPE ranks and an approximate one that splits
// text on word and punctuation boundaries when the ranks are unavailable.
package tokenizer

import (
	"fmt"
	"sort"

	"github.com/bricks-cloud/tokencounter/internal/logger"
)

const (
	DefaultEncoding = "cl100k_base"

	BackendTiktoken    = "tiktoken"
	BackendApproximate = "approximate"
)

// Tokenizer turns text into token identifiers. Identifiers are only
// comparable between results of the same Tokenizer.
type Tokenizer interface {
	Encode(text string) []int
}

// Provider resolves an encoding name. Unknown names fail with an
// *errors.InvalidEncodingError.
type Provider interface {
	Resolve(name string) (Tokenizer, error)
	Encodings() []string
	Backend() string
}

var knownEncodings = map[string]struct{}{
	"cl100k_base": {},
	"p50k_base":   {},
	"p50k_edit":   {},
	"r50k_base":   {},
}

var defaultAliases = map[string]string{
	"gpt2": "r50k_base",
}

func mergeAliases(extra map[string]string) map[string]string {
	merged := make(map[string]string, len(defaultAliases)+len(extra))
	for alias, target := range defaultAliases {
		merged[alias] = target
	}

	for alias, target := range extra {
		merged[alias] = target
	}

	return merged
}

func listEncodings(aliases map[string]string) []string {
	names := make([]string, 0, len(knownEncodings)+len(aliases))
	for name := range knownEncodings {
		names = append(names, name)
	}

	for alias := range aliases {
		if _, ok := knownEncodings[alias]; !ok {
			names = append(names, alias)
		}
	}

	sort.Strings(names)
	return names
}

// NewProvider picks the provider for backend. The tiktoken provider is only
// returned when the baseline encoding loads; otherwise the approximate
// provider takes its place for the lifetime of the process.
func NewProvider(backend, baseline string, aliases map[string]string, log logger.Logger) (Provider, error) {
	switch backend {
	case BackendApproximate:
		log.Infof("using approximate tokenizer, encoding names are ignored")
		return NewApproximateProvider(aliases), nil
	case BackendTiktoken, "":
		tp := NewTiktokenProvider(aliases)
		if _, err := tp.Resolve(baseline); err != nil {
			if isInvalidEncoding(err) {
				return nil, fmt.Errorf("baseline encoding is not valid: %w", err)
			}

			log.Warnf("cannot load tiktoken encoding %s, falling back to approximate tokenizer: %v", baseline, err)
			return NewApproximateProvider(aliases), nil
		}

		return tp, nil
	}

	return nil, fmt.Errorf("unsupported tokenizer backend: %s", backend)
}
