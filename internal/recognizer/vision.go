package recognizer

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/jgoulah/kcaltrack/internal/errs"
)

// DefaultVisionEndpoint is the generateContent endpoint used when none is configured
const DefaultVisionEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"

const visionPrompt = `Identify the foods in this image. For each food give its Korean name, ` +
	`estimated calories, carbohydrates (g), protein (g) and fat (g) for one serving. ` +
	`Reply with JSON only: [{"name":"...","calories":0,"carbs":0,"protein":0,"fat":0}]`

var jsonArray = regexp.MustCompile(`(?s)\[.*\]`)

// Vision calls a cloud generateContent endpoint with the image inline
type Vision struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewVision creates a vision client
func NewVision(endpoint, apiKey string, timeout time.Duration) *Vision {
	if endpoint == "" {
		endpoint = DefaultVisionEndpoint
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Vision{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type visionFood struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
	Calories   float64 `json:"calories"`
	Carbs      float64 `json:"carbs"`
	Protein    float64 `json:"protein"`
	Fat        float64 `json:"fat"`
}

// Recognize sends the image and parses the food list from the reply
func (v *Vision) Recognize(ctx context.Context, image []byte) ([]Candidate, error) {
	if v.apiKey == "" {
		return nil, fmt.Errorf("%w: vision api key is not configured", errs.ErrRecognition)
	}
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: empty image", errs.ErrRecognition)
	}

	payload := generateRequest{Contents: []content{{Parts: []part{
		{Text: visionPrompt},
		{InlineData: &inlineData{
			MimeType: http.DetectContentType(image),
			Data:     base64.StdEncoding.EncodeToString(image),
		}},
	}}}}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-goog-api-key", v.apiKey)

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request error: %w", errs.ErrRecognition, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", errs.ErrRecognition, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP error: status %d, response: %s", errs.ErrRecognition, resp.StatusCode, string(respBody))
	}

	var gr generateResponse
	if err := json.Unmarshal(respBody, &gr); err != nil {
		return nil, fmt.Errorf("%w: parsing response: %w", errs.ErrRecognition, err)
	}

	return parseFoods(gr)
}

func parseFoods(gr generateResponse) ([]Candidate, error) {
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return []Candidate{}, nil
	}

	text := gr.Candidates[0].Content.Parts[0].Text
	match := jsonArray.FindString(text)
	if match == "" {
		return nil, fmt.Errorf("%w: no food list in reply", errs.ErrRecognition)
	}

	var foods []visionFood
	if err := json.Unmarshal([]byte(match), &foods); err != nil {
		return nil, fmt.Errorf("%w: parsing food list: %w", errs.ErrRecognition, err)
	}

	out := make([]Candidate, 0, len(foods))
	for _, f := range foods {
		if f.Name == "" {
			continue
		}
		conf := f.Confidence
		if conf <= 0 || conf > 1 {
			conf = 1
		}
		out = append(out, Candidate{
			Name:       f.Name,
			Confidence: conf,
			Macros: Macros{
				Calories: max(0, f.Calories),
				Carbs:    max(0, f.Carbs),
				Protein:  max(0, f.Protein),
				Fat:      max(0, f.Fat),
			},
		})
	}

	SortByConfidence(out)
	return out, nil
}
