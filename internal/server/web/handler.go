package web

import (
	"errors"
	"net/http"

	"github.com/bricks-cloud/tokencounter/internal/telemetry"
	"github.com/bricks-cloud/tokencounter/internal/textstat"
	"github.com/bricks-cloud/tokencounter/internal/tokenizer"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const invalidEncoding = "Invalid encoding"

type validationError interface {
	Validation()
}

type invalidEncodingError interface {
	InvalidEncoding()
}

type badArchiveError interface {
	BadArchive()
}

type HealthResponse struct {
	Status string `json:"status"`
}

type EncodingsResponse struct {
	Default   string   `json:"default"`
	Encodings []string `json:"encodings"`
	Backend   string   `json:"backend"`
}

type AnalyzeResponse struct {
	TokenCount int   `json:"token_count"`
	WordCount  int   `json:"word_count"`
	Tokens     []int `json:"tokens"`
}

type TextCount struct {
	TokenCount int `json:"token_count"`
	WordCount  int `json:"word_count"`
}

type BatchTokenizeResponse struct {
	Results []*TextCount `json:"results"`
}

type CompareTokenizersResponse struct {
	Results map[string]interface{} `json:"results"`
}

// writeError maps err to a status code. Validation, unknown encoding and
// malformed archive errors are the caller's fault; anything else is a 500
// carrying only the error message.
func writeError(c *gin.Context, log *zap.Logger, prod bool, handler string, err error) {
	var ve validationError
	var iee invalidEncodingError
	var bae badArchiveError

	switch {
	case errors.As(err, &ve):
		telemetry.Incr("tokencounter.web."+handler+".validation_error", nil, 1)
		JSON(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &iee):
		telemetry.Incr("tokencounter.web."+handler+".invalid_encoding", nil, 1)
		JSON(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &bae):
		telemetry.Incr("tokencounter.web."+handler+".bad_archive", nil, 1)
		JSON(c, http.StatusBadRequest, err.Error())
	default:
		telemetry.Incr("tokencounter.web."+handler+".internal_error", nil, 1)
		logError(log, "error when handling "+handler, prod, c.GetString(correlationId), err)
		JSON(c, http.StatusInternalServerError, err.Error())
	}
}

func encodeText(tk tokenizer.Tokenizer, text string) []int {
	tokens := tk.Encode(text)
	if tokens == nil {
		return []int{}
	}

	return tokens
}

func getHealthCheckHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, &HealthResponse{Status: "healthy"})
	}
}

func getEncodingsHandler(p tokenizer.Provider, defaultEncoding string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, &EncodingsResponse{
			Default:   defaultEncoding,
			Encodings: p.Encodings(),
			Backend:   p.Backend(),
		})
	}
}

func getAnalyzeHandler(p tokenizer.Provider, defaultEncoding string, log *zap.Logger, prod bool) gin.HandlerFunc {
	const handler = "get_analyze_handler"

	return func(c *gin.Context) {
		telemetry.Incr("tokencounter.web."+handler+".requests", nil, 1)

		body, err := readJSONBody(c)
		if err != nil {
			writeError(c, log, prod, handler, err)
			return
		}

		req, err := parseAnalyzeRequest(body, defaultEncoding)
		if err != nil {
			writeError(c, log, prod, handler, err)
			return
		}

		c.Set(encodingKey, req.Encoding)

		tk, err := p.Resolve(req.Encoding)
		if err != nil {
			writeError(c, log, prod, handler, err)
			return
		}

		tokens := encodeText(tk, req.Text)

		c.JSON(http.StatusOK, &AnalyzeResponse{
			TokenCount: len(tokens),
			WordCount:  textstat.CountWords(req.Text),
			Tokens:     tokens,
		})
	}
}

func getBatchTokenizeHandler(p tokenizer.Provider, defaultEncoding string, log *zap.Logger, prod bool) gin.HandlerFunc {
	const handler = "get_batch_tokenize_handler"

	return func(c *gin.Context) {
		telemetry.Incr("tokencounter.web."+handler+".requests", nil, 1)

		body, err := readJSONBody(c)
		if err != nil {
			writeError(c, log, prod, handler, err)
			return
		}

		req, err := parseBatchTokenizeRequest(body, defaultEncoding)
		if err != nil {
			writeError(c, log, prod, handler, err)
			return
		}

		c.Set(encodingKey, req.Encoding)

		tk, err := p.Resolve(req.Encoding)
		if err != nil {
			writeError(c, log, prod, handler, err)
			return
		}

		results := make([]*TextCount, 0, len(req.Texts))
		for _, text := range req.Texts {
			results = append(results, &TextCount{
				TokenCount: len(tk.Encode(text)),
				WordCount:  textstat.CountWords(text),
			})
		}

		c.JSON(http.StatusOK, &BatchTokenizeResponse{Results: results})
	}
}

// getCompareTokenizersHandler isolates failures per encoding: an unknown
// name reports "Invalid encoding" and any other failure its message, while
// the request itself still succeeds.
func getCompareTokenizersHandler(p tokenizer.Provider, log *zap.Logger, prod bool) gin.HandlerFunc {
	const handler = "get_compare_tokenizers_handler"

	return func(c *gin.Context) {
		telemetry.Incr("tokencounter.web."+handler+".requests", nil, 1)

		body, err := readJSONBody(c)
		if err != nil {
			writeError(c, log, prod, handler, err)
			return
		}

		req, err := parseCompareTokenizersRequest(body)
		if err != nil {
			writeError(c, log, prod, handler, err)
			return
		}

		results := make(map[string]interface{}, len(req.Encodings))
		for _, name := range req.Encodings {
			tk, err := p.Resolve(name)
			if err != nil {
				var iee invalidEncodingError
				if errors.As(err, &iee) {
					results[name] = invalidEncoding
					continue
				}

				logError(log, "error when resolving encoding "+name, prod, c.GetString(correlationId), err)
				results[name] = err.Error()
				continue
			}

			results[name] = len(tk.Encode(req.Text))
		}

		c.JSON(http.StatusOK, &CompareTokenizersResponse{Results: results})
	}
}
