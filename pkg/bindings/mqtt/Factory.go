// Package mqtt is a protocol.Client/protocol.ClientFactory binding over
// github.com/eclipse/paho.mqtt.golang: one MQTT connection per client,
// correlated request/response topics for read/invoke, direct publish for
// write, and topic subscription for subscribe/observe.
package mqtt

import (
	"crypto/tls"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"

	"github.com/wostzone/wot-consume/pkg/protocol"
	"github.com/wostzone/wot-consume/pkg/security"
)

// Scheme is the URI scheme this binding registers under.
const Scheme = "mqtt"

// defaultReadTimeout bounds how long readResource/invokeResource wait on a
// correlated response topic before giving up.
const defaultReadTimeout = 10 * time.Second

// Factory builds mqtt Clients that all share one broker address and TLS
// config; each Client still owns its own paho connection, since paho
// clients are not safe to share SetCredentials calls across.
type Factory struct {
	BrokerURL   string
	ClientIDSeq func() string
	TLSConfig   *tls.Config
	ReadTimeout time.Duration
}

// NewFactory returns a Factory targeting brokerURL (e.g. "tls://broker:8883").
func NewFactory(brokerURL string, tlsConfig *tls.Config) *Factory {
	n := 0
	return &Factory{
		BrokerURL: brokerURL,
		TLSConfig: tlsConfig,
		ClientIDSeq: func() string {
			n++
			return fmt.Sprintf("wotconsume-%d-%d", time.Now().UnixNano(), n)
		},
		ReadTimeout: defaultReadTimeout,
	}
}

// Scheme implements protocol.ClientFactory.
func (f *Factory) Scheme() string { return Scheme }

// Init implements protocol.ClientFactory. The binding has no process-wide
// state to set up; each Client dials its own connection on Start.
func (f *Factory) Init() error { return nil }

// Destroy implements protocol.ClientFactory.
func (f *Factory) Destroy() error { return nil }

// CreateClient implements protocol.ClientFactory.
func (f *Factory) CreateClient() (protocol.Client, error) {
	opts := paho.NewClientOptions()
	opts.AddBroker(f.BrokerURL)
	opts.SetClientID(f.ClientIDSeq())
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(10 * time.Second)
	if f.TLSConfig != nil {
		opts.SetTLSConfig(f.TLSConfig)
	}
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		logrus.Warnf("mqtt binding: connection lost: %v", err)
	})

	timeout := f.ReadTimeout
	if timeout <= 0 {
		timeout = defaultReadTimeout
	}
	return &Client{opts: opts, readTimeout: timeout}, nil
}

// applyCredentials installs creds on opts, in place, prior to Start.
func applyCredentials(opts *paho.ClientOptions, creds security.Credentials) error {
	switch c := creds.(type) {
	case security.NoCredentials:
		return nil
	case security.BasicCredentials:
		opts.SetUsername(c.Username)
		opts.SetPassword(c.Password)
		return nil
	case security.BearerCredentials:
		opts.SetUsername(c.Token)
		return nil
	default:
		return fmt.Errorf("mqtt binding: unsupported credentials kind %q", creds.Kind())
	}
}
