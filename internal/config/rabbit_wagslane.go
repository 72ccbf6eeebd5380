package config

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/url"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wagslane/go-rabbitmq"
)

func mqURL(mq MQConfig) string {
	scheme := "amqp"
	if mq.TLS {
		scheme = "amqps"
	}
	return fmt.Sprintf("%s://%s:%s@%s:%d/%s",
		scheme, url.QueryEscape(mq.User), url.QueryEscape(mq.Password), mq.Host, mq.Port, url.PathEscape(mq.VHost))
}

func tlsConfig() *tls.Config {
	rootCAs, _ := x509.SystemCertPool()
	return &tls.Config{
		RootCAs:    rootCAs,
		MinVersion: tls.VersionTLS12,
	}
}

// RabbitConn abre una conexión administrada (reconexión automática).
func RabbitConn(mq MQConfig) (*rabbitmq.Conn, error) {
	amqpCfg := rabbitmq.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(30 * time.Second),
	}
	if mq.TLS {
		amqpCfg.TLSClientConfig = tlsConfig()
	}
	return rabbitmq.NewConn(
		mqURL(mq),
		rabbitmq.WithConnectionOptionsConfig(amqpCfg),
		rabbitmq.WithConnectionOptionsLogging,
		rabbitmq.WithConnectionOptionsReconnectInterval(5*time.Second),
	)
}

// RabbitPublisher declara el exchange topic de eventos y devuelve un publisher con confirmaciones.
func RabbitPublisher(mq MQConfig) (*rabbitmq.Conn, *rabbitmq.Publisher, error) {
	conn, err := RabbitConn(mq)
	if err != nil {
		return nil, nil, err
	}
	pub, err := rabbitmq.NewPublisher(
		conn,
		rabbitmq.WithPublisherOptionsLogging,
		rabbitmq.WithPublisherOptionsExchangeName(mq.Exchange),
		rabbitmq.WithPublisherOptionsExchangeKind("topic"),
		rabbitmq.WithPublisherOptionsExchangeDurable,
		rabbitmq.WithPublisherOptionsExchangeDeclare,
		rabbitmq.WithPublisherOptionsConfirm,
	)
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return conn, pub, nil
}
