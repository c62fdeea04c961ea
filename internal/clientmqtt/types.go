package clientmqtt

import (
	"encoding/json"
	"fmt"

	"artnetmapper/internal/config"
	"artnetmapper/internal/output"
)

type MQTTConf struct {
	ClientID string // ClientID - уникальное имя клиента для брокеров.
	Schema   string // Schema - тип подключения.
	Host     string // Host - адрес MQTT сервера.
	Port     string // Port - порт MQTT сервера.
	User     string // User - логин для подключения к MQTT серверу.
	Password string // Password - пароль для подключения к MQTT серверу.
	Qos      byte   // Qos - качество обслуживания.
	Prefix   string // Prefix - префикс топиков.
}

// OutputUpdate is an operator edit of the output configuration. Fields left out keep
// their current value.
type OutputUpdate struct {
	Host          *string  `json:"host,omitempty"`
	Port          *int     `json:"port,omitempty"`
	StartUniverse *int     `json:"startUniverse,omitempty"`
	Outputs       []string `json:"outputs,omitempty"`
}

// DecodeUpdate parses and checks an update payload.
func DecodeUpdate(payload []byte) (OutputUpdate, error) {
	var u OutputUpdate
	if err := json.Unmarshal(payload, &u); err != nil {
		return u, fmt.Errorf("message could not be parsed: %w", err)
	}
	if len(u.Outputs) > config.MaxOutputs {
		return u, fmt.Errorf("%d outputs in update, at most %d supported", len(u.Outputs), config.MaxOutputs)
	}
	if u.Port != nil && (*u.Port <= 0 || *u.Port > 65535) {
		return u, fmt.Errorf("invalid port %d", *u.Port)
	}
	if u.StartUniverse != nil && (*u.StartUniverse < 0 || *u.StartUniverse > output.MaxUniverse) {
		return u, fmt.Errorf("invalid start universe %d", *u.StartUniverse)
	}
	return u, nil
}

// Apply returns cfg with the update applied.
func (u OutputUpdate) Apply(cfg output.Config) output.Config {
	if u.Host != nil {
		cfg.Host = *u.Host
	}
	if u.Port != nil {
		cfg.Port = *u.Port
	}
	if u.StartUniverse != nil {
		cfg.StartUniverse = *u.StartUniverse
	}
	if u.Outputs != nil {
		cfg.Outputs = append([]string{}, u.Outputs...)
	}
	return cfg
}
