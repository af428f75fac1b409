package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Cloudsky01/storeadmin/pkg/models"
)

// sensorHistory accepts both shapes the backend has shipped: a bare array
// and a page object.
type sensorHistory []models.SensorReading

func (h *sensorHistory) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var readings []models.SensorReading
		if err := json.Unmarshal(data, &readings); err != nil {
			return err
		}
		*h = readings
		return nil
	}
	var page models.Page[models.SensorReading]
	if err := json.Unmarshal(data, &page); err != nil {
		return err
	}
	*h = page.Content
	return nil
}

// SensorHistory accepts sensorId, start and end (YYYY-MM-DD)
func (c *Client) SensorHistory(ctx context.Context, q Query) ([]models.SensorReading, error) {
	var history sensorHistory
	if err := c.do(ctx, http.MethodGet, "/api/sensors/history", q.Values(), nil, &history); err != nil {
		return nil, fmt.Errorf("failed to load sensor history: %w", err)
	}
	return history, nil
}
