package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/hoshinonyaruko/snake-expert/structs"
	"github.com/pkg/errors"
)

// AppConfig holds the structure of the configuration
type AppConfig struct {
	SelfPath   string  `json:"selfpath"`
	Port       string  `json:"port"`
	Blocksize  int     `json:"blocksize"`
	TileCount  int     `json:"tilecount"`
	BaseTickMs float64 `json:"basetickms"`
	Difficulty string  `json:"difficulty"`
	DBPath     string  `json:"dbpath"`
	SpriteDir  string  `json:"spritedir"`
	Seed       uint64  `json:"seed"` // 0 = 每局随机
}

var (
	instance *AppConfig
	mu       sync.RWMutex
	once     sync.Once
)

func defaultConfig() *AppConfig {
	return &AppConfig{
		SelfPath:   "127.0.0.1:38870", // Default value
		Port:       "38870",           // Default value
		Blocksize:  20,
		TileCount:  25,
		BaseTickMs: 120,
		Difficulty: string(structs.Normal),
		DBPath:     "game.db",
		SpriteDir:  "./sprites",
	}
}

// LoadConfig initializes and returns the instance of AppConfig
func LoadConfig(filePath string) *AppConfig {
	once.Do(func() {
		cfg, err := readConfig(filePath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		mu.Lock()
		instance = cfg
		mu.Unlock()
	})
	return Current()
}

// Current 返回当前配置的副本
func Current() *AppConfig {
	mu.RLock()
	defer mu.RUnlock()
	if instance == nil {
		return defaultConfig()
	}
	cfg := *instance
	return &cfg
}

// readConfig 文件不存在时用默认值创建一个
func readConfig(filePath string) (*AppConfig, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		if err := saveConfig(filePath, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "open config")
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(cfg); err != nil {
		return nil, errors.Wrapf(err, "decode %s", filePath)
	}
	normalize(cfg)
	return cfg, nil
}

// normalize 不合法的值换回默认值
func normalize(cfg *AppConfig) {
	def := defaultConfig()
	if cfg.Port == "" {
		cfg.Port = def.Port
	}
	if cfg.Blocksize <= 0 {
		cfg.Blocksize = def.Blocksize
	}
	if cfg.TileCount < 10 {
		cfg.TileCount = def.TileCount
	}
	if cfg.BaseTickMs <= 0 {
		cfg.BaseTickMs = def.BaseTickMs
	}
	cfg.Difficulty = string(structs.ParseDifficulty(cfg.Difficulty))
	if cfg.DBPath == "" {
		cfg.DBPath = def.DBPath
	}
	if cfg.SpriteDir == "" {
		cfg.SpriteDir = def.SpriteDir
	}
}

// saveConfig saves the current settings to the file
func saveConfig(filePath string, cfg *AppConfig) error {
	file, err := os.Create(filePath)
	if err != nil {
		return errors.Wrap(err, "create config")
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return errors.Wrap(encoder.Encode(cfg), "encode config")
}

// WatchConfig 监听配置文件，修改后重新读取并回调。阻塞直到 done 被关闭。
func WatchConfig(filePath string, done <-chan struct{}, onChange func(*AppConfig)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create config watcher")
	}
	defer watcher.Close()

	// 编辑器常常是 rename 覆盖，监听目录更可靠
	if err := watcher.Add(filepath.Dir(filePath)); err != nil {
		return errors.Wrap(err, "watch config dir")
	}
	name := filepath.Clean(filePath)

	for {
		select {
		case <-done:
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != name {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			cfg, err := readConfig(filePath)
			if err != nil {
				// 写到一半的文件，等下一次事件
				log.Printf("config reload skipped: %v", err)
				continue
			}
			mu.Lock()
			instance = cfg
			mu.Unlock()
			log.Printf("config reloaded from %s", filePath)
			if onChange != nil {
				onChange(Current())
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Println("config watcher error:", err)
		}
	}
}

// GetConfigValue returns the value of the configuration by key
func GetConfigValue(key string) interface{} {
	cfg := Current()
	switch key {
	case "selfpath":
		return cfg.SelfPath
	case "port":
		return cfg.Port
	case "blocksize":
		return cfg.Blocksize
	case "tilecount":
		return cfg.TileCount
	case "basetickms":
		return cfg.BaseTickMs
	case "difficulty":
		return cfg.Difficulty
	case "dbpath":
		return cfg.DBPath
	case "spritedir":
		return cfg.SpriteDir
	case "seed":
		return cfg.Seed
	default:
		return ""
	}
}
