package tesseract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/metrodocs/docflow/internal/core/domain"
	"github.com/metrodocs/docflow/internal/infrastructure/resilience"
)

// Client calls a tesseract HTTP service: multipart POST /recognize with the
// image and a language hint, JSON {text, confidence} back.
type Client struct {
	baseURL    string
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(baseURL string, timeout time.Duration, executor *resilience.Executor) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		executor:   executor,
	}
}

func (c *Client) Recognize(ctx context.Context, image io.Reader, languageHint string) (domain.OCRResult, error) {
	// The resilience executor may retry; buffer the image once up front.
	raw, err := io.ReadAll(image)
	if err != nil {
		return domain.OCRResult{}, fmt.Errorf("read image: %w", err)
	}
	if languageHint == "" {
		languageHint = "eng"
	}

	var result domain.OCRResult
	call := func(ctx context.Context) error {
		var err error
		result, err = c.recognizeOnce(ctx, raw, languageHint)
		return err
	}

	if c.executor != nil {
		err = c.executor.Do(ctx, "ocr.recognize", resilience.ClassifyHTTP, call)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return domain.OCRResult{}, err
	}
	return result, nil
}

func (c *Client) recognizeOnce(ctx context.Context, image []byte, languageHint string) (domain.OCRResult, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	part, err := form.CreateFormFile("file", "document")
	if err != nil {
		return domain.OCRResult{}, fmt.Errorf("build multipart body: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return domain.OCRResult{}, fmt.Errorf("write multipart body: %w", err)
	}
	if err := form.WriteField("lang", languageHint); err != nil {
		return domain.OCRResult{}, fmt.Errorf("write lang field: %w", err)
	}
	if err := form.Close(); err != nil {
		return domain.OCRResult{}, fmt.Errorf("close multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/recognize", &body)
	if err != nil {
		return domain.OCRResult{}, fmt.Errorf("create recognize request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.OCRResult{}, fmt.Errorf("ocr recognize request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return domain.OCRResult{}, resilience.NewHTTPStatusError("ocr recognize", resp)
	}

	var decoded struct {
		Text       string  `json:"text"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.OCRResult{}, fmt.Errorf("decode recognize response: %w", err)
	}

	// Tesseract reports confidence on a 0-100 scale.
	confidence := decoded.Confidence
	if confidence > 1 {
		confidence = confidence / 100
	}
	if confidence < 0 {
		confidence = 0
	}
	return domain.OCRResult{Text: decoded.Text, Confidence: confidence}, nil
}
