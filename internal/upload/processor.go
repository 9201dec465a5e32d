package upload

import (
	"bytes"
	"io"
	"strings"

	internal_errors "github.com/bricks-cloud/tokencounter/internal/errors"
	"github.com/bricks-cloud/tokencounter/internal/textstat"
	"github.com/bricks-cloud/tokencounter/internal/tokenizer"
	"github.com/klauspost/compress/zip"
)

var archiveMemberExtensions = []string{".txt", ".md"}

type FileResult struct {
	Name       string `json:"name"`
	TokenCount int    `json:"token_count"`
	Words      int    `json:"words"`
	Chars      int    `json:"chars"`
}

// Processor counts tokens for uploaded files with a single tokenizer.
type Processor struct {
	tk tokenizer.Tokenizer
}

func NewProcessor(tk tokenizer.Tokenizer) *Processor {
	return &Processor{
		tk: tk,
	}
}

// Process returns one result for a plain file, or one result per text
// member for a .zip archive, in archive order. filename must already be
// sanitised.
func (p *Processor) Process(filename string, data []byte) ([]*FileResult, error) {
	if strings.HasSuffix(strings.ToLower(filename), ".zip") {
		return p.processArchive(filename, data)
	}

	return []*FileResult{p.count(filename, data)}, nil
}

func (p *Processor) processArchive(filename string, data []byte) ([]*FileResult, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, internal_errors.NewBadArchiveError(filename, err)
	}

	results := []*FileResult{}
	for _, f := range r.File {
		if strings.HasSuffix(f.Name, "/") || !isTextMember(f.Name) {
			continue
		}

		content, err := readMember(f)
		if err != nil {
			return nil, internal_errors.NewBadArchiveError(filename, err)
		}

		results = append(results, p.count(filename+"/"+f.Name, content))
	}

	return results, nil
}

func (p *Processor) count(name string, data []byte) *FileResult {
	text := textstat.Decode(data)

	return &FileResult{
		Name:       name,
		TokenCount: len(p.tk.Encode(text)),
		Words:      textstat.CountWords(text),
		Chars:      textstat.CountChars(text),
	}
}

func readMember(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return io.ReadAll(rc)
}

func isTextMember(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range archiveMemberExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}

	return false
}

func TotalTokens(results []*FileResult) int {
	total := 0
	for _, r := range results {
		total += r.TokenCount
	}

	return total
}
