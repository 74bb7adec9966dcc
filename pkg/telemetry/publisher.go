package telemetry

import (
	"os"
	"strings"
	"time"

	"github.com/denisbrodbeck/machineid"
	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"

	"github.com/robotalks/rover.go/pkg/display"
	"github.com/robotalks/rover.go/pkg/telemetry/mqtt"
)

// Topics relative to the rover id.
const (
	TopicDisplay = "display"
	TopicStatus  = "status"
)

// RoverID derives a stable id for this machine.
func RoverID() string {
	id, err := machineid.ProtectedID("rover.go")
	if err != nil {
		glog.Warningf("machine id unavailable: %v", err)
		if id, err = os.Hostname(); err != nil {
			return "rover"
		}
		return id
	}
	if len(id) > 12 {
		id = id[:12]
	}
	return id
}

// Topic returns the topic of a rover.
func Topic(roverID, name string) string {
	return roverID + "/" + name
}

// PubSub is the subset of mqtt.Queue used by telemetry.
type PubSub interface {
	PubWith(topic string, payload []byte, qos byte, retain bool) paho.Token
	Sub(topic string, handler mqtt.Handler) *mqtt.Subscription
}

// Publisher implements display.Sink by publishing DisplayFrame messages.
type Publisher struct {
	Queue   PubSub
	RoverID string
}

// NewPublisher creates a Publisher.
func NewPublisher(q PubSub, roverID string) *Publisher {
	return &Publisher{Queue: q, RoverID: roverID}
}

// Name implements display.Sink.
func (p *Publisher) Name() string {
	return "mqtt"
}

// Render implements display.Sink.
func (p *Publisher) Render(f *display.Frame) error {
	payload, err := Encode(&DisplayFrame{
		Seq:   f.Seq,
		Lines: f.Lines,
		Graph: f.Graph,
		Fresh: uint32(f.Fresh),
	})
	if err != nil {
		return err
	}
	return tokenError(p.Queue.PubWith(Topic(p.RoverID, TopicDisplay), payload, 0, false))
}

// PublishStatus publishes the retained presence of the rover.
func (p *Publisher) PublishStatus(status *Status) error {
	status.RoverId = p.RoverID
	payload, err := Encode(status)
	if err != nil {
		return err
	}
	return tokenError(p.Queue.PubWith(Topic(p.RoverID, TopicStatus), payload, 1, true))
}

// OfflineWill creates the will message announcing the rover offline.
func OfflineWill(roverID string) *mqtt.Will {
	payload, err := Encode(&Status{RoverId: roverID})
	if err != nil {
		return nil
	}
	return &mqtt.Will{Topic: Topic(roverID, TopicStatus), Payload: payload}
}

// tokenError reports a failure already known without waiting.
func tokenError(token paho.Token) error {
	select {
	case <-token.Done():
		return token.Error()
	default:
		return nil
	}
}

// Monitor decodes telemetry of all rovers.
type Monitor struct {
	Queue PubSub
	// Timeout bounds the subscribe calls.
	Timeout time.Duration
}

// MessageHandler receives decoded telemetry.
type MessageHandler func(roverID, topic string, msg Message, err error)

// Watch subscribes to the named topic of every rover, "#" for all.
// Close the returned Subscription to stop watching.
func (m *Monitor) Watch(name string, handler MessageHandler) (*mqtt.Subscription, error) {
	pattern := "+/" + name
	if name == "#" {
		pattern = "#"
	}
	sub := m.Queue.Sub(pattern, func(topic string, payload []byte) {
		roverID := topic
		if n := strings.IndexByte(topic, '/'); n >= 0 {
			roverID = topic[:n]
		}
		msg, err := Decode(payload)
		handler(roverID, topic, msg, err)
	})
	timeout := m.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if !sub.Token.WaitTimeout(timeout) {
		sub.Close()
		return nil, paho.ErrNotConnected
	}
	if err := sub.Token.Error(); err != nil {
		sub.Close()
		return nil, err
	}
	return sub, nil
}
