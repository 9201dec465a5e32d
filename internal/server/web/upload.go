package web

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	internal_errors "github.com/bricks-cloud/tokencounter/internal/errors"
	"github.com/bricks-cloud/tokencounter/internal/telemetry"
	"github.com/bricks-cloud/tokencounter/internal/tokenizer"
	"github.com/bricks-cloud/tokencounter/internal/upload"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const encodingFormField = "encoding"

type CountTokensResponse struct {
	Files       []*upload.FileResult `json:"files"`
	TotalTokens int                  `json:"total_tokens"`
}

type uploadedFile struct {
	field    string
	filename string
	data     []byte
}

// rawFileName returns the filename parameter as sent. Part.FileName strips
// directories, which would hide them from upload.SecureFilename.
func rawFileName(part *multipart.Part) string {
	_, params, err := mime.ParseMediaType(part.Header.Get("Content-Disposition"))
	if err != nil {
		return part.FileName()
	}

	return params["filename"]
}

// readUploads reads every part of the multipart body into memory in the
// order it was sent. Every file part is returned, including several sent
// under the same field name, not only the first per field. The first
// "encoding" value part is returned separately.
func readUploads(c *gin.Context, maxSize int64) ([]*uploadedFile, string, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)

	mr, err := c.Request.MultipartReader()
	if err != nil {
		return nil, "", internal_errors.NewValidationError("No files uploaded")
	}

	files := []*uploadedFile{}
	encoding := ""
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, "", uploadReadError(err, maxSize)
		}

		data, err := io.ReadAll(part)
		part.Close()
		if err != nil {
			return nil, "", uploadReadError(err, maxSize)
		}

		filename := rawFileName(part)
		if len(filename) == 0 {
			if part.FormName() == encodingFormField && len(encoding) == 0 {
				encoding = string(data)
			}
			continue
		}

		files = append(files, &uploadedFile{
			field:    part.FormName(),
			filename: filename,
			data:     data,
		})
	}

	return files, encoding, nil
}

func uploadReadError(err error, maxSize int64) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return internal_errors.NewValidationErrorf("upload exceeds the limit of %d bytes", maxSize)
	}

	return internal_errors.NewValidationErrorf("malformed multipart body: %v", err)
}

// resolveOrDefault never reports an unknown or unloadable encoding to the
// caller; it substitutes the baseline encoding instead.
func resolveOrDefault(p tokenizer.Provider, name, defaultEncoding string) (tokenizer.Tokenizer, string, error) {
	if tk, err := p.Resolve(name); err == nil {
		return tk, name, nil
	}

	tk, err := p.Resolve(defaultEncoding)
	if err != nil {
		return nil, "", err
	}

	return tk, defaultEncoding, nil
}

func getCountTokensHandler(p tokenizer.Provider, defaultEncoding string, maxSize int64, log *zap.Logger, prod bool) gin.HandlerFunc {
	const handler = "get_count_tokens_handler"

	return func(c *gin.Context) {
		telemetry.Incr("tokencounter.web."+handler+".requests", nil, 1)

		files, encoding, err := readUploads(c, maxSize)
		if err != nil {
			writeError(c, log, prod, handler, err)
			return
		}

		if len(files) == 0 {
			writeError(c, log, prod, handler, internal_errors.NewValidationError("No files uploaded"))
			return
		}

		if len(encoding) == 0 {
			encoding = defaultEncoding
		}

		tk, resolved, err := resolveOrDefault(p, encoding, defaultEncoding)
		if err != nil {
			writeError(c, log, prod, handler, err)
			return
		}

		if resolved != encoding {
			telemetry.Incr("tokencounter.web."+handler+".encoding_substituted", nil, 1)
		}
		c.Set(encodingKey, resolved)

		processor := upload.NewProcessor(tk)
		results := []*upload.FileResult{}
		for _, f := range files {
			processed, err := processor.Process(upload.DisplayName(f.filename, f.field), f.data)
			if err != nil {
				writeError(c, log, prod, handler, err)
				return
			}

			results = append(results, processed...)
		}

		c.JSON(http.StatusOK, &CountTokensResponse{
			Files:       results,
			TotalTokens: upload.TotalTokens(results),
		})
	}
}
