// Package thingspeak uploads channel records to ThingSpeak over its REST
// update API or its MQTT broker.
package thingspeak

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/gr-butler/weatherstation/channel"
	logger "github.com/sirupsen/logrus"
)

/*
https://www.mathworks.com/help/thingspeak/writedata.html

 GET https://api.thingspeak.com/update?api_key=<write key>&field1=<value>...

KEY			Description
api_key		Write API key for the channel (required)
field<X>	Field X data, X = 1..8
created_at	Date when the entry was created, ISO 8601

The response body is the new entry id, or 0 if the update failed.
*/

const DefaultURL = "https://api.thingspeak.com/update"

// update carries the fixed keys; fields are added per record.
type update struct {
	APIKey    string `url:"api_key"`
	CreatedAt string `url:"created_at,omitempty"`
}

type HTTP struct {
	url    string
	client *http.Client
}

// NewHTTP sends updates to baseURL, DefaultURL when empty.
func NewHTTP(baseURL string) *HTTP {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	return &HTTP{
		url: baseURL,
		// sane timeout so a hung server cannot hold idle connections open
		client: &http.Client{Timeout: time.Second * 30},
	}
}

// Values is the query string for one record on ch.
func Values(ch channel.Channel, rec channel.Record) (url.Values, error) {
	u := update{APIKey: ch.APIKey}
	if !rec.Time.IsZero() {
		u.CreatedAt = rec.Time.UTC().Format(time.RFC3339)
	}
	vals, err := query.Values(u)
	if err != nil {
		return nil, fmt.Errorf("encode update: %w", err)
	}
	for _, i := range rec.Indices() {
		vals.Set(channel.FieldName(i), channel.FormatValue(rec.Fields[i]))
	}
	return vals, nil
}

func (h *HTTP) Send(ctx context.Context, ch channel.Channel, rec channel.Record) error {
	vals, err := Values(ch, rec)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url+"?"+vals.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("update channel %v: %w", ch.ID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("update channel %v: HTTP %v", ch.ID, resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	entry := strings.TrimSpace(string(body))
	if entry == "0" || entry == "" {
		return fmt.Errorf("channel %v: %w", ch.ID, channel.ErrRejected)
	}
	logger.Debugf("Channel %v entry %v", ch.ID, entry)
	return nil
}

func (h *HTTP) Close() error {
	h.client.CloseIdleConnections()
	return nil
}
