package clientmqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"artnetmapper/internal/artnet"
	"artnetmapper/internal/logger"
	"artnetmapper/internal/output"
)

// ClientMQTT структура клиента MQTT.
type ClientMQTT struct {
	ctx       context.Context
	log       logger.Logger
	cfgClient MQTTConf
	client    mqtt.Client
	opts      *mqtt.ClientOptions
	updates   chan<- OutputUpdate
}

// NewClient конструктор.
func NewClient(log logger.Logger, cfgClient MQTTConf) *ClientMQTT {
	return &ClientMQTT{
		log:       log,
		cfgClient: cfgClient,
	}
}

// SetTopic receives output configuration updates.
func (c *ClientMQTT) SetTopic() string {
	return c.cfgClient.Prefix + "/outputs/set"
}

// StateTopic carries the summary of the installed plan.
func (c *ClientMQTT) StateTopic() string {
	return c.cfgClient.Prefix + "/outputs/state"
}

// NodesTopic carries the discovered Art-Net nodes.
func (c *ClientMQTT) NodesTopic() string {
	return c.cfgClient.Prefix + "/nodes"
}

func (c *ClientMQTT) Start(ctx context.Context, updates chan<- OutputUpdate) error {
	if c.log.GetLevel() == "debug" {
		mqtt.ERROR = log.New(os.Stdout, "[ERROR] ", 0)
		mqtt.CRITICAL = log.New(os.Stdout, "[CRIT] ", 0)
		mqtt.WARN = log.New(os.Stdout, "[WARN]  ", 0)
	}

	c.ctx = ctx
	c.updates = updates

	c.opts = mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("%s://%s:%s", c.cfgClient.Schema, c.cfgClient.Host, c.cfgClient.Port)).
		SetUsername(c.cfgClient.User).
		SetPassword(c.cfgClient.Password).
		SetOnConnectHandler(c.connectHandler).
		SetConnectionLostHandler(c.connectLostHandler).
		SetClientID(c.cfgClient.ClientID).
		SetOrderMatters(true).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetMaxReconnectInterval(5 * time.Second).
		SetKeepAlive(30 * time.Second)

	c.client = mqtt.NewClient(c.opts)

	token := c.client.Connect()
	select {
	case <-token.Done():
		if token.Error() != nil {
			return token.Error()
		}
	case <-c.ctx.Done():
		return errors.New("context canceled")
	}

	c.log.With(logger.Fields{"module": "mqtt"}).Infof("Status: %v", c.client.IsConnected())
	return nil
}

func (c *ClientMQTT) Stop() error {
	if c.client != nil && c.client.IsConnected() {
		c.client.Disconnect(500)
	}
	return nil
}

// Subscriptions are made on every (re)connect since the session is not kept.
func (c *ClientMQTT) connectHandler(client mqtt.Client) {
	c.log.With(logger.Fields{"module": "mqtt"}).Info("client connected to server")
	token := client.Subscribe(c.SetTopic(), c.cfgClient.Qos, c.messageHandler)
	go func() {
		select {
		case <-c.ctx.Done():
			return
		case <-token.Done():
			if token.Error() != nil {
				c.log.With(logger.Fields{"module": "mqtt"}).Errorf("topic %s subscription error. %v", c.SetTopic(), token.Error())
				return
			}
		}
		c.log.With(logger.Fields{"module": "mqtt"}).Debugf("topic %s subscribed", c.SetTopic())
	}()
}

func (c *ClientMQTT) connectLostHandler(_ mqtt.Client, err error) {
	c.log.With(logger.Fields{"module": "mqtt"}).Errorf("server connect lost: %v", err)
}

func (c *ClientMQTT) messageHandler(_ mqtt.Client, msg mqtt.Message) {
	c.log.With(logger.Fields{"module": "mqtt"}).Debugf("received message: %s from topic: %s", msg.Payload(), msg.Topic())
	u, err := DecodeUpdate(msg.Payload())
	if err != nil {
		c.log.With(logger.Fields{"module": "mqtt"}).Errorf("output update rejected: %v", err)
		return
	}
	select {
	case c.updates <- u:
	case <-c.ctx.Done():
	}
}

// PublishPlan publishes the summary of the installed plan as a retained message.
func (c *ClientMQTT) PublishPlan(s output.Summary) {
	c.publish(c.StateTopic(), s)
}

// PublishNodes publishes the discovered nodes as a retained message.
func (c *ClientMQTT) PublishNodes(nodes []artnet.Node) {
	c.publish(c.NodesTopic(), nodes)
}

func (c *ClientMQTT) publish(topic string, v interface{}) {
	if c.client == nil {
		return
	}
	msg, err := json.Marshal(v)
	if err != nil {
		c.log.With(logger.Fields{"module": "mqtt"}).Errorf("public topic %s. msg: %v", topic, err)
		return
	}
	token := c.client.Publish(topic, c.cfgClient.Qos, true, msg)
	go func() {
		select {
		case <-c.ctx.Done():
			return
		case <-token.Done():
			if token.Error() != nil {
				c.log.With(logger.Fields{"module": "mqtt"}).Errorf("error publish topic %s. %v", topic, token.Error())
			}
		}
	}()
}
