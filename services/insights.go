package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"internfolio-backend/models/forms"
)

const AIMLAPIEndpoint = "https://api.aimlapi.com/chat/completions"

type ChatCompletionRequest struct {
	Model     string                  `json:"model"`
	Messages  []ChatCompletionMessage `json:"messages"`
	MaxTokens int                     `json:"max_tokens"`
}

// Структура сообщения
type ChatCompletionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Структура ответа
type ChatCompletionResponse struct {
	Choices []struct {
		Message ChatCompletionMessage `json:"message"`
	} `json:"choices"`
}

// GenerateInsightsPrompt сжимает черновик в короткий prompt
func GenerateInsightsPrompt(d *forms.Draft) string {
	projects := []string{}
	for _, p := range d.Projects {
		projects = append(projects, p.Title)
	}

	return fmt.Sprintf("Role: %s at %s. Languages: %s. Projects: %s. Write a 3-sentence highlight of this internship.",
		d.BasicInfo.InternshipRole,
		d.BasicInfo.TeamDepartment,
		strings.Join(d.TechStack.Languages, ", "),
		strings.Join(projects, ", "))
}

// Взаимодействие с AI/ML API
func GenerateInsights(apiKey, prompt string) (string, error) {
	messages := []ChatCompletionMessage{
		{Role: "system", Content: "You are a career assistant summarising internship reports."},
		{Role: "user", Content: prompt},
	}

	requestData := ChatCompletionRequest{
		Model:     "gpt-4",
		Messages:  messages,
		MaxTokens: 200,
	}

	jsonData, err := json.Marshal(requestData)
	if err != nil {
		return "", fmt.Errorf("failed to serialize request: %w", err)
	}

	req, err := http.NewRequest("POST", AIMLAPIEndpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var completionResp ChatCompletionResponse
	err = json.Unmarshal(body, &completionResp)
	if err != nil {
		return "", fmt.Errorf("failed to decode API response: %w", err)
	}

	if len(completionResp.Choices) > 0 {
		return completionResp.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("no insights returned by the API")
}
