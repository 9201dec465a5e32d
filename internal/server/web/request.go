package web

import (
	"io"

	internal_errors "github.com/bricks-cloud/tokencounter/internal/errors"
	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
)

type AnalyzeRequest struct {
	Text     string
	Encoding string
}

type BatchTokenizeRequest struct {
	Texts    []string
	Encoding string
}

type CompareTokenizersRequest struct {
	Text      string
	Encodings []string
}

func readJSONBody(c *gin.Context) ([]byte, error) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, internal_errors.NewValidationErrorf("cannot read request body: %v", err)
	}

	if !gjson.ValidBytes(body) {
		return nil, internal_errors.NewValidationError("invalid json body")
	}

	return body, nil
}

func present(r gjson.Result) bool {
	return r.Exists() && r.Type != gjson.Null
}

// encodingField returns the optional "encoding" member, or fallback when it
// is absent or null.
func encodingField(body []byte, fallback string) (string, error) {
	r := gjson.GetBytes(body, "encoding")
	if !present(r) {
		return fallback, nil
	}

	if r.Type != gjson.String {
		return "", internal_errors.NewValidationError("encoding must be a string")
	}

	return r.String(), nil
}

func stringList(r gjson.Result, field string) ([]string, error) {
	values := []string{}
	for _, item := range r.Array() {
		if item.Type != gjson.String {
			return nil, internal_errors.NewValidationErrorf("%s must contain only strings", field)
		}
		values = append(values, item.String())
	}

	return values, nil
}

func parseAnalyzeRequest(body []byte, defaultEncoding string) (*AnalyzeRequest, error) {
	text := gjson.GetBytes(body, "text")
	if !present(text) {
		return nil, internal_errors.NewValidationError("No text provided")
	}

	if text.Type != gjson.String {
		return nil, internal_errors.NewValidationError("text must be a string")
	}

	encoding, err := encodingField(body, defaultEncoding)
	if err != nil {
		return nil, err
	}

	return &AnalyzeRequest{
		Text:     text.String(),
		Encoding: encoding,
	}, nil
}

func parseBatchTokenizeRequest(body []byte, defaultEncoding string) (*BatchTokenizeRequest, error) {
	texts := gjson.GetBytes(body, "texts")
	if !texts.IsArray() {
		return nil, internal_errors.NewValidationError("No texts provided in a list")
	}

	values, err := stringList(texts, "texts")
	if err != nil {
		return nil, err
	}

	encoding, err := encodingField(body, defaultEncoding)
	if err != nil {
		return nil, err
	}

	return &BatchTokenizeRequest{
		Texts:    values,
		Encoding: encoding,
	}, nil
}

func parseCompareTokenizersRequest(body []byte) (*CompareTokenizersRequest, error) {
	text := gjson.GetBytes(body, "text")
	encodings := gjson.GetBytes(body, "encodings")
	if !present(text) || !present(encodings) {
		return nil, internal_errors.NewValidationError("Missing text or encodings in request")
	}

	if text.Type != gjson.String {
		return nil, internal_errors.NewValidationError("text must be a string")
	}

	if !encodings.IsArray() {
		return nil, internal_errors.NewValidationError("encodings must be a list")
	}

	values, err := stringList(encodings, "encodings")
	if err != nil {
		return nil, err
	}

	return &CompareTokenizersRequest{
		Text:      text.String(),
		Encodings: values,
	}, nil
}
