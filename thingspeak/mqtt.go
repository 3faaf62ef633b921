package thingspeak

import (
	"context"
	"fmt"
	"net/url"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/gr-butler/weatherstation/channel"
)

// client is the part of paho.Client the transport needs.
type client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Disconnect(quiesce uint)
}

type connector interface {
	Connect() paho.Token
	Disconnect(quiesce uint)
}

type MQTT struct {
	client client
}

var connectTimeout = 10 * time.Second

// NewMQTT connects to broker. Connection attempts are retried until
// connectTimeout, after which the client is shut down and an error returned.
// Once connected, a lost connection is re-established in the background.
func NewMQTT(broker, clientID, username, password string) (*MQTT, error) {
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetUsername(username).
		SetPassword(password).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	c := paho.NewClient(opts)
	if err := connect(c, connectTimeout); err != nil {
		return nil, err
	}
	return &MQTT{client: c}, nil
}

func connect(c connector, timeout time.Duration) error {
	token := c.Connect()
	if !token.WaitTimeout(timeout) {
		// stop the retry loop
		c.Disconnect(0)
		return fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		c.Disconnect(0)
		return fmt.Errorf("connect to broker: %w", err)
	}
	return nil
}

// Topic is the publish topic for a channel.
func Topic(ch channel.Channel) string {
	return fmt.Sprintf("channels/%s/publish/%s", ch.ID, ch.APIKey)
}

// Payload is the field list for one record, without the API key.
func Payload(rec channel.Record) string {
	vals := url.Values{}
	for _, i := range rec.Indices() {
		vals.Set(channel.FieldName(i), channel.FormatValue(rec.Fields[i]))
	}
	if !rec.Time.IsZero() {
		vals.Set("created_at", rec.Time.UTC().Format(time.RFC3339))
	}
	return vals.Encode()
}

func (m *MQTT) Send(ctx context.Context, ch channel.Channel, rec channel.Record) error {
	// QoS 0 (at-most-once), not retained
	token := m.client.Publish(Topic(ch), 0, false, Payload(rec))
	select {
	case <-token.Done():
	case <-ctx.Done():
		return fmt.Errorf("publish channel %v: %w", ch.ID, ctx.Err())
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish channel %v: %w", ch.ID, err)
	}
	return nil
}

// Close disconnects from the broker.
func (m *MQTT) Close() error {
	m.client.Disconnect(1000) // 1 second timeout
	return nil
}
