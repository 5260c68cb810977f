package vacmap

import (
	"context"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const mqttConnectTimeout = 10 * time.Second

// MQTTSource subscribes to a state topic and yields the most recent pushed
// payload per fetch. Between fetches only the latest message is kept: the
// viewer wants current state, not history.
type MQTTSource struct {
	client mqtt.Client
	topic  string
	msgs   chan []byte
}

// NewMQTTSource connects to the broker and subscribes to the state topic.
// The paho client reconnects and resubscribes on its own; a broker outage
// shows up as fetches that block until the context ends the cycle.
func NewMQTTSource(broker, topic, clientID, username, password string) (*MQTTSource, error) {
	s := &MQTTSource{
		topic: topic,
		msgs:  make(chan []byte, 1),
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	if username != "" {
		opts.SetUsername(username)
		opts.SetPassword(password)
	}
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(mqttConnectTimeout)
	opts.SetOnConnectHandler(func(c mqtt.Client) {
		c.Subscribe(topic, 0, func(_ mqtt.Client, m mqtt.Message) {
			s.deliver(m.Payload())
		})
	})

	s.client = mqtt.NewClient(opts)
	tok := s.client.Connect()
	if !tok.WaitTimeout(mqttConnectTimeout) {
		return nil, fmt.Errorf("mqtt connect %s: timeout", broker)
	}
	if err := tok.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", broker, err)
	}
	return s, nil
}

// deliver hands one payload to the next fetch, displacing any payload that
// was never picked up.
func (s *MQTTSource) deliver(payload []byte) {
	for {
		select {
		case s.msgs <- payload:
			return
		default:
			select {
			case <-s.msgs:
			default:
			}
		}
	}
}

// Fetch blocks until the next payload arrives or the context is done.
func (s *MQTTSource) Fetch(ctx context.Context) ([]byte, error) {
	select {
	case msg := <-s.msgs:
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close disconnects from the broker.
func (s *MQTTSource) Close() error {
	if s.client != nil {
		s.client.Disconnect(250)
	}
	return nil
}
