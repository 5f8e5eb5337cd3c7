package util

import (
	"io/ioutil"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// ServerConfig holds the table tunables. Every field has a sane default
// so the server runs without a config file.
type ServerConfig struct {
	MaxSeats          uint32 `yaml:"max-seats"`
	BetStep           int64  `yaml:"bet-step"`
	RechargeStep      int64  `yaml:"recharge-step"`
	StartingStack     int64  `yaml:"starting-stack"`
	ActionLogSize     int    `yaml:"action-log-size"`
	LivenessThreshold int64  `yaml:"liveness-threshold-seconds"`
	BotActionDelay    int64  `yaml:"bot-action-delay-millis"`
}

func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		MaxSeats:          9,
		BetStep:           10,
		RechargeStep:      100,
		StartingStack:     1000,
		ActionLogSize:     100,
		LivenessThreshold: 30,
		BotActionDelay:    800,
	}
}

func ParseServerConfig(configFile string) (ServerConfig, error) {
	config := DefaultServerConfig()
	if configFile == "" {
		return config, nil
	}
	bytes, err := ioutil.ReadFile(configFile)
	if err != nil {
		return config, errors.Wrapf(err, "Error reading config file [%s]", configFile)
	}
	err = yaml.Unmarshal(bytes, &config)
	if err != nil {
		return config, errors.Wrapf(err, "Error parsing YAML file [%s]", configFile)
	}
	return config, nil
}

func (c ServerConfig) LivenessWindow() time.Duration {
	return time.Duration(c.LivenessThreshold) * time.Second
}

func (c ServerConfig) BotDelay() time.Duration {
	return time.Duration(c.BotActionDelay) * time.Millisecond
}
