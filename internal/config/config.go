package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// MaxOutputs is the number of controller outputs in expanded mode.
const MaxOutputs = 32

// Config структура конфигурации.
type Config struct {
	Logger    LogConf        // Logger - конфигурация регистратора.
	Model     ModelConf      // Model - топология инсталляции.
	Strands   map[string]int // Strands - число светильников на каждом strand, ключ - id strand.
	Output    OutputConf     // Output - раскладка strand по выходам контроллера.
	Render    RenderConf     // Render - тестовый паттерн и частота кадров.
	MQTT      MQTTConf       // MQTT - конфигурация MQTT клиента.
	Discovery DiscoveryConf  // Discovery - поиск узлов Art-Net.
}

// LogConf структура конфигурации.
type LogConf struct {
	Level  string `toml:"log-level"`  // Level - уровень логирования.
	Format string `toml:"log-format"` // Format - text или json.
	File   string `toml:"log-file"`   // File - дополнительный файл журнала.
}

// ModelConf структура конфигурации.
type ModelConf struct {
	Runs              int     `toml:"runs"`                // Runs - количество run бабочек.
	StrandsPerRun     int     `toml:"strands-per-run"`     // StrandsPerRun - strand на run.
	FixturesPerStrand int     `toml:"fixtures-per-strand"` // FixturesPerStrand - расчётная длина strand.
	SecondaryRuns     int     `toml:"secondary-runs"`      // SecondaryRuns - количество run цветков.
	FixtureSpacing    float64 `toml:"fixture-spacing"`     // FixtureSpacing - шаг бабочек, дюймы.
	LineSpacing       float64 `toml:"line-spacing"`        // LineSpacing - расстояние между run, дюймы.
	CurveOffsetX      float64 `toml:"curve-offset-x"`      // CurveOffsetX - изгиб кривой по X.
	CurveOffsetY      float64 `toml:"curve-offset-y"`      // CurveOffsetY - изгиб кривой по Y.
}

// OutputConf структура конфигурации.
type OutputConf struct {
	Host          string   `toml:"host"`           // Host - адрес контроллера.
	Port          int      `toml:"port"`           // Port - UDP порт Art-Net.
	StartUniverse int      `toml:"start-universe"` // StartUniverse - номер первого universe.
	Outputs       []string `toml:"outputs"`        // Outputs - id strand через запятую, по одному на выход.
}

// RenderConf структура конфигурации.
type RenderConf struct {
	FPS     float64 `toml:"fps"`     // FPS - частота кадров.
	Pattern string  `toml:"pattern"` // Pattern - имя тестового паттерна.
	Strand  int     `toml:"strand"`  // Strand - strand для паттерна strand.
	Run     int     `toml:"run"`     // Run - run для паттерна run.
	Tracer  bool    `toml:"tracer"`  // Tracer - бегущая точка вместо заливки.
	Color   string  `toml:"color"`   // Color - цвет в формате #rrggbb.
}

// MQTTConf структура конфигурации.
type MQTTConf struct {
	ClientID string `toml:"clientID"` // ClientID - имя клиента.
	Host     string `toml:"server"`   // Host - адрес MQTT сервера, пусто - MQTT выключен.
	Port     string `toml:"port"`     // Port - порт MQTT сервера.
	User     string `toml:"user"`     // User - логин для подключения к MQTT серверу.
	Password string `toml:"password"` // Password - пароль для подключения к MQTT серверу.
	Qos      byte   `toml:"qos"`      // Qos - качество обслуживания.
	Prefix   string `toml:"prefix"`   // Prefix - префикс топиков.
}

// DiscoveryConf структура конфигурации.
type DiscoveryConf struct {
	Enabled  bool   `toml:"enabled"`  // Enabled - включить ArtPoll.
	CIDR     string `toml:"cidr"`     // CIDR - сеть, в которой ищется локальный интерфейс Art-Net.
	Interval int    `toml:"interval"` // Interval - период вывода списка узлов, секунды.
}

// Default returns the configuration used for values missing from the file.
func Default() Config {
	return Config{
		Logger: LogConf{Level: "info", Format: "text"},
		Model: ModelConf{
			Runs:              3,
			StrandsPerRun:     2,
			FixturesPerStrand: 20,
			SecondaryRuns:     4,
			FixtureSpacing:    12,
			LineSpacing:       24,
			CurveOffsetX:      100,
			CurveOffsetY:      30,
		},
		Strands: map[string]int{},
		Output:  OutputConf{Port: 6454},
		Render:  RenderConf{FPS: 30, Pattern: "solid", Color: "#ffffff"},
		MQTT:    MQTTConf{ClientID: "artnetmapper", Port: "1883", Prefix: "artnetmapper"},
		Discovery: DiscoveryConf{
			CIDR:     "192.168.6.0/24",
			Interval: 30,
		},
	}
}

// NewConfig конструктор.
func NewConfig(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return &cfg, err
	}
	return &cfg, cfg.Validate()
}

// Parse decodes configuration from a TOML document.
func Parse(data string) (*Config, error) {
	cfg := Default()
	if _, err := toml.Decode(data, &cfg); err != nil {
		return &cfg, err
	}
	return &cfg, cfg.Validate()
}

// Validate checks the values that are not checked by the model builder.
func (c *Config) Validate() error {
	if len(c.Output.Outputs) > MaxOutputs {
		return fmt.Errorf("output: %d outputs configured, at most %d supported", len(c.Output.Outputs), MaxOutputs)
	}
	if c.Output.Port <= 0 || c.Output.Port > 65535 {
		return fmt.Errorf("output: invalid port %d", c.Output.Port)
	}
	if c.Output.StartUniverse < 0 || c.Output.StartUniverse > 0x7fff {
		return fmt.Errorf("output: invalid start-universe %d", c.Output.StartUniverse)
	}
	if c.Render.FPS <= 0 {
		return fmt.Errorf("render: fps must be positive, got %v", c.Render.FPS)
	}
	return nil
}
