package tokenizer

import (
	"errors"
	"fmt"

	internal_errors "github.com/bricks-cloud/tokencounter/internal/errors"
	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

type encoder interface {
	Encode(text string, allowedSpecial []string, disallowedSpecial []string) []int
}

type tiktokenTokenizer struct {
	enc encoder
}

// Encode treats special token text such as <|endoftext|> as ordinary text.
func (t *tiktokenTokenizer) Encode(text string) []int {
	return t.enc.Encode(text, nil, nil)
}

type TiktokenProvider struct {
	aliases map[string]string
}

func NewTiktokenProvider(aliases map[string]string) *TiktokenProvider {
	tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())

	return &TiktokenProvider{
		aliases: mergeAliases(aliases),
	}
}

// Resolve loads the ranks for name. tiktoken keeps loaded encodings in its
// own process wide table, so repeated lookups do not re-read the ranks.
func (tp *TiktokenProvider) Resolve(name string) (Tokenizer, error) {
	canonical := name
	if target, ok := tp.aliases[name]; ok {
		canonical = target
	}

	if _, ok := knownEncodings[canonical]; !ok {
		return nil, internal_errors.NewInvalidEncodingError(name)
	}

	enc, err := tiktoken.GetEncoding(canonical)
	if err != nil {
		return nil, fmt.Errorf("error when loading encoding %s: %w", canonical, err)
	}

	return &tiktokenTokenizer{enc: enc}, nil
}

func (tp *TiktokenProvider) Encodings() []string {
	return listEncodings(tp.aliases)
}

func (tp *TiktokenProvider) Backend() string {
	return BackendTiktoken
}

type invalidEncodingError interface {
	InvalidEncoding()
}

func isInvalidEncoding(err error) bool {
	var iee invalidEncodingError
	return errors.As(err, &iee)
}
