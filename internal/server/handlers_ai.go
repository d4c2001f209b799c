package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const geminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent"

type generateRequest struct {
	Prompt string `json:"prompt"`
	Image  string `json:"image"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiGenerateRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiGenerationConfig struct {
	ResponseModalities []string `json:"responseModalities"`
}

type geminiGenerateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// handleGenerate proxies an image-transform request to Gemini. The drawing is
// passed through as inline PNG data; the model keeps the sketch style.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if strings.TrimSpace(s.cfg.GeminiAPIKey) == "" {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   "GEMINI_API_KEY is not configured",
		})
		return
	}
	var req generateRequest
	if err := readJSON(r.Body, &req); err != nil || strings.TrimSpace(req.Prompt) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "prompt is required",
		})
		return
	}

	message, imageData, err := s.generateImage(r.Context(), req.Prompt, req.Image)
	if err != nil {
		s.log.Errorw("ai generation failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   "generation failed",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   message,
		"imageData": imageData,
	})
}

func (s *Server) generateImage(ctx context.Context, prompt, image string) (message, imageData string, err error) {
	var contents []geminiContent
	if base64Data := stripDataURIPrefix(image); base64Data != "" {
		contents = append(contents, geminiContent{
			Role: "user",
			Parts: []geminiPart{
				{InlineData: &geminiInlineData{MimeType: "image/png", Data: base64Data}},
			},
		})
		prompt += ". Keep the same minimal line drawing style."
	}
	contents = append(contents, geminiContent{
		Role:  "user",
		Parts: []geminiPart{{Text: prompt}},
	})

	payload, err := json.Marshal(geminiGenerateRequest{
		Contents: contents,
		GenerationConfig: geminiGenerationConfig{
			ResponseModalities: []string{"TEXT", "IMAGE"},
		},
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to build Gemini request")
	}

	reqCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	url := fmt.Sprintf(geminiEndpoint, s.cfg.GeminiModel)
	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", "", fmt.Errorf("failed to build Gemini request")
	}
	req.Header.Set("x-goog-api-key", strings.TrimSpace(s.cfg.GeminiAPIKey))
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("failed to reach Gemini")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("failed to read Gemini response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", "", fmt.Errorf("Gemini request failed (%d)", resp.StatusCode)
	}

	var parsed geminiGenerateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", "", fmt.Errorf("failed to parse Gemini response")
	}
	if parsed.Error != nil && parsed.Error.Message != "" {
		return "", "", fmt.Errorf("Gemini error: %s", parsed.Error.Message)
	}
	if len(parsed.Candidates) == 0 {
		return "", "", fmt.Errorf("Gemini returned no candidates")
	}
	for _, part := range parsed.Candidates[0].Content.Parts {
		if part.Text != "" {
			message = part.Text
		}
		if part.InlineData != nil && part.InlineData.Data != "" {
			imageData = part.InlineData.Data
		}
	}
	return message, imageData, nil
}

// stripDataURIPrefix removes a leading data:image/...;base64, marker so the
// raw base64 payload can be sent inline.
func stripDataURIPrefix(data string) string {
	data = strings.TrimSpace(data)
	if data == "" {
		return ""
	}
	if before, after, found := strings.Cut(data, ","); found && strings.HasPrefix(before, "data:image/") {
		return after
	}
	return data
}
