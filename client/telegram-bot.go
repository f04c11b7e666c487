package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type TelegramClient struct {
	Client  *http.Client
	BaseURL string
	token   string
}

func NewTelegramClient(token string) *TelegramClient {
	return &TelegramClient{
		Client:  &http.Client{Timeout: 10 * time.Second},
		BaseURL: "https://api.telegram.org",
		token:   token,
	}
}

func (c *TelegramClient) SendMessage(chatId int64, text string) error {
	body, err := json.Marshal(map[string]any{"chat_id": chatId, "text": text})
	if err != nil {
		return err
	}
	resp, err := c.Client.Post(
		fmt.Sprintf("%s/bot%s/sendMessage", c.BaseURL, c.token),
		"application/json",
		bytes.NewReader(body),
	)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram responded with status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
