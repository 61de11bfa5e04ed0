package config

import (
	"encoding/json"
	"os"
	"sync"
)

type Config struct {
	ListenAddr     string `json:"listenAddr"`
	DatabasePath   string `json:"databasePath"`
	SessionSecret  string `json:"sessionSecret"`
	DefaultStaffID int    `json:"defaultStaffID"`
	OpenBrowser    bool   `json:"openBrowser"`
}

var (
	cfg Config
	mu  sync.RWMutex
)

const configFilePath = "./pantry_config.json"

func applyDefaults(c *Config) {
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "./pantry_track.db"
	}
	// 明示的な担当者が決まらないときに使うスタッフ ID。
	// セッションに担当者がいない場合のフォールバックです。
	if c.DefaultStaffID == 0 {
		c.DefaultStaffID = 1
	}
}

func LoadConfig() (Config, error) {
	mu.Lock()
	defer mu.Unlock()

	file, err := os.ReadFile(configFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			tempCfg := Config{OpenBrowser: true}
			applyDefaults(&tempCfg)
			cfg = tempCfg
			return cfg, nil
		}
		return Config{}, err
	}

	var tempCfg Config
	if err := json.Unmarshal(file, &tempCfg); err != nil {
		return Config{}, err
	}
	applyDefaults(&tempCfg)
	cfg = tempCfg

	return cfg, nil
}

func SaveConfig(newCfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	applyDefaults(&newCfg)

	file, err := json.MarshalIndent(newCfg, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(configFilePath, file, 0644); err != nil {
		return err
	}
	cfg = newCfg
	return nil
}

func GetConfig() Config {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}
