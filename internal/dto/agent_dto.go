package dto

import "encoding/json"

type OrderInput struct {
	Contenido string `json:"contenido"`
}

type SettingDto struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

type SettingInput struct {
	Value json.RawMessage `json:"value"`
}

type AgentStatusDto struct {
	Enabled bool `json:"enabled"`
}

type PromptPreviewDto struct {
	Enabled      bool   `json:"enabled"`
	ActiveOrders int    `json:"active_orders"`
	Prompt       string `json:"prompt"`
}

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

type IntentResponse struct {
	Intent string `json:"intent"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
