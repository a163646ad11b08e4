package messaging

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

type RabbitMQClient struct {
	config     *RabbitMQConfig
	connection *amqp.Connection
	channel    *amqp.Channel
	mu         sync.RWMutex
	isClosing  bool
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewRabbitMQClient(config *RabbitMQConfig) *RabbitMQClient {
	ctx, cancel := context.WithCancel(context.Background())

	return &RabbitMQClient{
		config: config,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (r *RabbitMQClient) Connect() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	for i := 0; i < r.config.RetryCount; i++ {
		r.connection, err = amqp.Dial(r.config.ConnectionURL())
		if err != nil {
			log.WithError(err).Warnf("rabbitmq connect attempt %d/%d failed", i+1, r.config.RetryCount)
			if i < r.config.RetryCount-1 {
				time.Sleep(r.config.RetryDelay)
				continue
			}
			return fmt.Errorf("connect to rabbitmq: %w", err)
		}

		r.channel, err = r.connection.Channel()
		if err != nil {
			r.connection.Close()
			return fmt.Errorf("open rabbitmq channel: %w", err)
		}

		err = r.channel.ExchangeDeclare(
			r.config.Exchange, // name
			"topic",           // type
			true,              // durable
			false,             // auto-deleted
			false,             // internal
			false,             // no-wait
			nil,               // arguments
		)
		if err != nil {
			r.channel.Close()
			r.connection.Close()
			return fmt.Errorf("declare exchange: %w", err)
		}

		log.WithField("host", r.config.Host).Info("connected to rabbitmq")

		go r.handleReconnection()

		return nil
	}

	return err
}

func (r *RabbitMQClient) handleReconnection() {
	notifyClose := make(chan *amqp.Error)
	r.connection.NotifyClose(notifyClose)

	err := <-notifyClose
	if !r.isClosing {
		log.WithField("reason", err).Warn("rabbitmq connection lost, reconnecting")
		time.Sleep(time.Second * 2)
		if reconnectErr := r.Connect(); reconnectErr != nil {
			log.WithError(reconnectErr).Error("rabbitmq reconnect failed")
		}
	}
}

func (r *RabbitMQClient) Channel() *amqp.Channel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.channel
}

func (r *RabbitMQClient) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isClosing {
		return nil
	}

	r.isClosing = true
	r.cancel()

	var closeErr error

	if r.channel != nil {
		if err := r.channel.Close(); err != nil {
			closeErr = fmt.Errorf("close channel: %w", err)
		}
	}

	if r.connection != nil {
		if err := r.connection.Close(); err != nil {
			if closeErr != nil {
				closeErr = fmt.Errorf("%v; close connection: %w", closeErr, err)
			} else {
				closeErr = fmt.Errorf("close connection: %w", err)
			}
		}
	}

	return closeErr
}

func (r *RabbitMQClient) IsConnected() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.connection != nil && !r.connection.IsClosed()
}
