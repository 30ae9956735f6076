package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api"

// Run with a valid token: SIM_TOKEN=... go run ./cmd/simulation
func token() string {
	return os.Getenv("SIM_TOKEN")
}

// Simplified DTOs for the script
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type sessionData struct {
	Id string `json:"id"`
}

type exchangeData struct {
	SessionId string `json:"session_id"`
	Assistant struct {
		Content string `json:"content"`
		Type    string `json:"type"`
	} `json:"assistant"`
}

func main() {
	color.Cyan("=== Chatspace Gateway Simulation Client ===")

	workspaceId, err := loadHomeWorkspace()
	if err != nil {
		color.Red("Failed to load workspace snapshot: %v", err)
		os.Exit(1)
	}
	color.Green("Workspace ready: %s", workspaceId)

	questions := []string{
		"최신 AI 뉴스는?",
		"오늘의 추천 기사를 요약해줘",
	}

	sessionId := ""
	for _, q := range questions {
		color.Yellow("\nUSER: %s", q)

		start := time.Now()
		exchange, err := sendMessage(workspaceId, sessionId, q)
		elapsed := time.Since(start)

		if err != nil {
			color.Red("Error: %v", err)
			continue
		}
		sessionId = exchange.SessionId
		color.Green("AI (%v) [%s]: %s", elapsed, exchange.Assistant.Type, exchange.Assistant.Content)
	}
}

func loadHomeWorkspace() (string, error) {
	body, err := call("GET", "/workspace/v1/home/snapshot", nil)
	if err != nil {
		return "", err
	}
	var snapshot struct {
		Workspace struct {
			Id string `json:"id"`
		} `json:"workspace"`
		Phase string `json:"phase"`
	}
	if err := json.Unmarshal(body, &snapshot); err != nil {
		return "", err
	}
	fmt.Printf("Snapshot phase: %s\n", snapshot.Phase)
	return snapshot.Workspace.Id, nil
}

func sendMessage(workspaceId, sessionId, content string) (*exchangeData, error) {
	payload := map[string]string{
		"workspace_id": workspaceId,
		"session_id":   sessionId,
		"content":      content,
	}
	if sessionId == "" {
		delete(payload, "session_id")
	}
	body, err := call("POST", "/chat/v1/message", payload)
	if err != nil {
		return nil, err
	}
	var exchange exchangeData
	if err := json.Unmarshal(body, &exchange); err != nil {
		return nil, err
	}
	return &exchange, nil
}

func call(method, path string, payload interface{}) (json.RawMessage, error) {
	var bodyReader io.Reader
	if payload != nil {
		jsonBody, _ := json.Marshal(payload)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token())

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %s: %s", resp.Status, string(raw))
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}
