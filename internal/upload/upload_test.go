package upload

import (
	"bytes"
	"testing"

	internal_errors "github.com/bricks-cloud/tokencounter/internal/errors"
	"github.com/bricks-cloud/tokencounter/internal/tokenizer"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type member struct {
	name    string
	content []byte
}

func buildZip(t require.TestingT, members ...member) []byte {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, m := range members {
		fw, err := w.Create(m.name)
		require.NoError(t, err)
		_, err = fw.Write(m.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return buf.Bytes()
}

func TestSecureFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain", input: "notes.txt", expected: "notes.txt"},
		{name: "path traversal", input: "../../etc/passwd", expected: "etc_passwd"},
		{name: "backslashes are dropped", input: `C:\Users\me\notes.md`, expected: "CUsersmenotes.md"},
		{name: "directories are folded", input: "dir/x.txt", expected: "dir_x.txt"},
		{name: "spaces", input: "my  report final.md", expected: "my_report_final.md"},
		{name: "accents decomposed", input: "résumé.txt", expected: "resume.txt"},
		{name: "unsafe characters", input: "a<b>c|d?.txt", expected: "abcd.txt"},
		{name: "leading dots", input: ".hidden", expected: "hidden"},
		{name: "nothing left", input: "../", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SecureFilename(tt.input))
		})
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "notes.txt", DisplayName("notes.txt", "file0"))
	assert.Equal(t, "file0", DisplayName("日本", "file0"))
	assert.Equal(t, "upload", DisplayName("..", "../"))
}

func TestProcessor_PlainFile(t *testing.T) {
	p := NewProcessor(tokenizer.ApproximateTokenizer{})

	results, err := p.Process("hello.txt", []byte("hello, world!"))
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, &FileResult{Name: "hello.txt", TokenCount: 4, Words: 2, Chars: 13}, results[0])
}

func TestProcessor_LatinOneFile(t *testing.T) {
	p := NewProcessor(tokenizer.ApproximateTokenizer{})

	results, err := p.Process("legacy.md", []byte{'c', 'a', 'f', 0xe9})
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, 1, results[0].Words)
	assert.Equal(t, 4, results[0].Chars)
}

func TestProcessor_Archive(t *testing.T) {
	p := NewProcessor(tokenizer.ApproximateTokenizer{})

	t.Run("filters members by extension", func(t *testing.T) {
		data := buildZip(t,
			member{name: "notes.txt", content: []byte("a b c")},
			member{name: "image.png", content: []byte{0x89, 'P', 'N', 'G'}},
		)

		results, err := p.Process("bundle.zip", data)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "bundle.zip/notes.txt", results[0].Name)
		assert.Equal(t, 3, results[0].TokenCount)
	})

	t.Run("keeps archive order and skips directories", func(t *testing.T) {
		data := buildZip(t,
			member{name: "docs/", content: nil},
			member{name: "docs/b.MD", content: []byte("# Title")},
			member{name: "a.txt", content: []byte("x")},
			member{name: "docs/c.md.bak", content: []byte("ignored")},
		)

		results, err := p.Process("Mixed.ZIP", data)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "Mixed.ZIP/docs/b.MD", results[0].Name)
		assert.Equal(t, "Mixed.ZIP/a.txt", results[1].Name)
	})

	t.Run("empty archive", func(t *testing.T) {
		results, err := p.Process("empty.zip", buildZip(t))
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("malformed archive", func(t *testing.T) {
		_, err := p.Process("bad.zip", []byte("definitely not a zip"))
		require.Error(t, err)

		bae, ok := err.(*internal_errors.BadArchiveError)
		require.True(t, ok)
		assert.Equal(t, "bad.zip", bae.Filename())
		assert.Contains(t, err.Error(), "bad.zip")
	})
}

func TestProperty_TotalTokensIsSumOfResults(t *testing.T) {
	p := NewProcessor(tokenizer.ApproximateTokenizer{})

	rapid.Check(t, func(rt *rapid.T) {
		texts := rapid.SliceOfN(rapid.String(), 1, 5).Draw(rt, "texts")

		members := make([]member, 0, len(texts))
		expected := 0
		for i, text := range texts {
			members = append(members, member{name: string(rune('a'+i)) + ".txt", content: []byte(text)})
			expected += len(tokenizer.ApproximateTokenizer{}.Encode(text))
		}

		results, err := p.Process("r.zip", buildZip(rt, members...))
		require.NoError(rt, err)
		require.Len(rt, results, len(texts))
		assert.Equal(rt, expected, TotalTokens(results))
	})
}
