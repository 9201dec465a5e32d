package testing

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/caarlos0/env"
)

type config struct {
	BaseUrl string `env:"TOKENCOUNTER_URL" envDefault:""`
}

func parseEnvVariables() (*config, error) {
	cfg := &config{}
	err := env.Parse(cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func postJSON(baseUrl, path string, payload interface{}) (int, []byte, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, err
	}

	resp, err := http.Post(baseUrl+path, "application/json", bytes.NewReader(jsonData))
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	bs, err := io.ReadAll(resp.Body)
	return resp.StatusCode, bs, err
}

func postFiles(baseUrl string, encoding string, files map[string][]byte) (int, []byte, error) {
	var b bytes.Buffer
	writer := multipart.NewWriter(&b)

	i := 0
	for name, content := range files {
		fw, err := writer.CreateFormFile("file"+string(rune('0'+i)), name)
		if err != nil {
			return 0, nil, err
		}

		if _, err := fw.Write(content); err != nil {
			return 0, nil, err
		}
		i++
	}

	if err := writer.WriteField("encoding", encoding); err != nil {
		return 0, nil, err
	}

	if err := writer.Close(); err != nil {
		return 0, nil, err
	}

	resp, err := http.Post(baseUrl+"/api/count-tokens", writer.FormDataContentType(), &b)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	bs, err := io.ReadAll(resp.Body)
	return resp.StatusCode, bs, err
}
