// Package shipping quotes delivery rates from a RajaOngkir-compatible
// courier API.
package shipping

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Rate struct {
	Courier     string          `json:"courier"`
	Service     string          `json:"service"`
	Description string          `json:"description,omitempty"`
	Cost        decimal.Decimal `json:"cost"`
	ETD         string          `json:"etd,omitempty"`
}

type Client struct {
	HTTP    *http.Client
	BaseURL string
	APIKey  string
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		HTTP:    &http.Client{Timeout: 5 * time.Second},
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
	}
}

// costResponse mirrors the rajaongkir envelope.
type costResponse struct {
	Rajaongkir struct {
		Status struct {
			Code        int    `json:"code"`
			Description string `json:"description"`
		} `json:"status"`
		Results []struct {
			Code  string `json:"code"`
			Costs []struct {
				Service     string `json:"service"`
				Description string `json:"description"`
				Cost        []struct {
					Value int64  `json:"value"`
					ETD   string `json:"etd"`
				} `json:"cost"`
			} `json:"costs"`
		} `json:"results"`
	} `json:"rajaongkir"`
}

// Cost quotes rates for a shipment between two city ids. Weight is in
// grams; couriers are the API's codes (jne, pos, tiki).
func (c *Client) Cost(ctx context.Context, origin, destination string, weightGrams int, courier string) ([]Rate, error) {
	if origin == "" || destination == "" || weightGrams <= 0 {
		return nil, fmt.Errorf("origin, destination and a positive weight are required")
	}
	form := url.Values{}
	form.Set("origin", origin)
	form.Set("destination", destination)
	form.Set("weight", strconv.Itoa(weightGrams))
	form.Set("courier", courier)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/cost", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("key", c.APIKey)

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("courier api: %s", res.Status)
	}

	var body costResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, err
	}
	if code := body.Rajaongkir.Status.Code; code != 200 {
		return nil, fmt.Errorf("courier api: %d %s", code, body.Rajaongkir.Status.Description)
	}

	var out []Rate
	for _, result := range body.Rajaongkir.Results {
		for _, svc := range result.Costs {
			if len(svc.Cost) == 0 {
				continue
			}
			out = append(out, Rate{
				Courier:     result.Code,
				Service:     svc.Service,
				Description: svc.Description,
				Cost:        decimal.NewFromInt(svc.Cost[0].Value),
				ETD:         svc.Cost[0].ETD,
			})
		}
	}
	return out, nil
}
