// Package cli implements the HTTP client the cemp terminal client uses to
// talk to the simulation API.
package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/TayDa64/CryptoEmpire/internal/game"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// AssetDetail is the payload of GET /v1/assets/{id}.
type AssetDetail struct {
	Asset  game.Asset `json:"asset"`
	Series []struct {
		AssetID string    `json:"asset_id"`
		TickAt  time.Time `json:"tick_at"`
		Price   float64   `json:"price"`
	} `json:"series"`
}

// SubscribeResult mirrors the email-capture response.
type SubscribeResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (c *Client) State(ctx context.Context) (game.State, error) {
	var out game.State
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/state", nil, &out)
	return out, err
}

func (c *Client) Asset(ctx context.Context, id string) (AssetDetail, error) {
	var out AssetDetail
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/assets/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) SelectLocation(ctx context.Context, id string) (game.State, error) {
	var out game.State
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/location", map[string]any{"id": id}, &out)
	return out, err
}

func (c *Client) SelectAsset(ctx context.Context, id string) (game.State, error) {
	var out game.State
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/asset/select", map[string]any{"id": id}, &out)
	return out, err
}

func (c *Client) SetTradeQuantity(ctx context.Context, quantity int64) (game.State, error) {
	var out game.State
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/trade/quantity", map[string]any{"quantity": quantity}, &out)
	return out, err
}

func (c *Client) Trade(ctx context.Context, side string) (game.State, error) {
	var out game.State
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/trade", map[string]any{"side": side}, &out)
	return out, err
}

// Order selects the asset, sets the pending quantity and executes the trade
// in sequence, mirroring the select/quantity/trade flow of the UI.
func (c *Client) Order(ctx context.Context, assetID, side string, quantity int64) (game.State, error) {
	if _, err := c.SelectAsset(ctx, assetID); err != nil {
		return game.State{}, err
	}
	if _, err := c.SetTradeQuantity(ctx, quantity); err != nil {
		return game.State{}, err
	}
	return c.Trade(ctx, side)
}

func (c *Client) Craft(ctx context.Context, assetID string) (game.State, error) {
	var out game.State
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/craft", map[string]any{"asset_id": assetID}, &out)
	return out, err
}

func (c *Client) StartMining(ctx context.Context, assetID string) (game.State, error) {
	var out game.State
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/mining/start", map[string]any{"asset_id": assetID}, &out)
	return out, err
}

func (c *Client) Subscribe(ctx context.Context, email string) (SubscribeResult, error) {
	form := url.Values{}
	form.Set("email", email)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/subscribe", strings.NewReader(form.Encode()))
	if err != nil {
		return SubscribeResult{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return SubscribeResult{}, err
	}
	defer resp.Body.Close()
	var out SubscribeResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return SubscribeResult{}, err
	}
	return out, nil
}

func (c *Client) jsonRequest(ctx context.Context, method, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("api status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
