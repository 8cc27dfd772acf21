package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/virlife/worldsim/pkg/chat"
	"github.com/virlife/worldsim/pkg/world"
)

// stateResponse mirrors the API's world-state envelope.
type stateResponse struct {
	UserID   string          `json:"user_id,omitempty"`
	WorldID  string          `json:"world_id"`
	State    *world.Document `json:"state,omitempty"`
	Messages []chat.Message  `json:"messages,omitempty"`
	Error    string          `json:"error,omitempty"`
}

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusServiceUnavailable
}

func sendTurn(client *http.Client, baseURL string, req chat.TurnRequest) (*chat.TurnResponse, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		baseURL+"/v1/world/chat",
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var turnResp chat.TurnResponse
	if err := json.Unmarshal(body, &turnResp); err != nil {
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}
	if resp.StatusCode != http.StatusOK {
		if turnResp.Error != "" {
			return nil, fmt.Errorf("turn request failed: %s", turnResp.Error)
		}
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	return &turnResp, nil
}

func getWorldState(client *http.Client, baseURL, userID, worldID string) (*stateResponse, error) {
	url := fmt.Sprintf("%s/v1/world/state?user_id=%s", baseURL, userID)
	if worldID != "" {
		url += "&world_id=" + worldID
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var stateResp stateResponse
	if err := json.Unmarshal(body, &stateResp); err != nil {
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}
	if resp.StatusCode != http.StatusOK {
		if stateResp.Error != "" {
			return nil, fmt.Errorf("state request failed: %s", stateResp.Error)
		}
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	return &stateResp, nil
}
