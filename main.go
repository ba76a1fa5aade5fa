package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/hoshinonyaruko/snake-expert/api"
	"github.com/hoshinonyaruko/snake-expert/config"
	"github.com/hoshinonyaruko/snake-expert/memimg"
	"github.com/hoshinonyaruko/snake-expert/snake"
	"github.com/hoshinonyaruko/snake-expert/sqlite"
	"github.com/hoshinonyaruko/snake-expert/structs"
)

func main() {
	// Initialize the configuration
	cfg := config.LoadConfig("./config.json")
	EnsureFoldersExist(cfg.SpriteDir)

	// 载入精灵图到内存，检测并热更新 加速绘图
	blockSize := config.GetConfigValue("blocksize").(int)
	if err := memimg.LoadSprites(cfg.SpriteDir, blockSize); err != nil {
		log.Printf("Failed to load sprites, falling back to plain blocks: %v", err)
	}
	done := make(chan struct{})
	go func() {
		if err := memimg.WatchSprites(cfg.SpriteDir, blockSize, done); err != nil {
			log.Printf("Sprite watcher stopped: %v", err)
		}
	}()

	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	hub := api.NewHub(db, snake.Options{
		TileCount:  cfg.TileCount,
		BaseTickMs: cfg.BaseTickMs,
		Difficulty: structs.Difficulty(cfg.Difficulty),
		Seed:       cfg.Seed,
	})
	defer hub.Close()

	// 配置热更新只影响新会话的默认难度
	go func() {
		err := config.WatchConfig("./config.json", done, func(c *config.AppConfig) {
			hub.SetDefaultDifficulty(c.Difficulty)
		})
		if err != nil {
			log.Printf("Config watcher stopped: %v", err)
		}
	}()

	router := gin.Default()
	api.Routes(router, hub)
	router.Static("/static", "./static") // 静态文件服务
	// 从配置单例读取端口 监听
	defer close(done)
	if err := router.Run(":" + config.GetConfigValue("port").(string)); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}

// EnsureFoldersExist 检查并创建必需的文件夹
func EnsureFoldersExist(spriteDir string) {
	folders := []string{"static", spriteDir}

	for _, folder := range folders {
		if _, err := os.Stat(folder); os.IsNotExist(err) {
			// 文件夹不存在，尝试创建它
			err := os.MkdirAll(folder, 0755) // 使用0755权限以确保读写权限
			if err != nil {
				// 如果创建失败，则记录错误并可能退出程序
				log.Fatalf("Failed to create %s directory: %s", folder, err)
			}
			log.Printf("Created %s directory", folder)
		} else {
			// 文件夹已存在
			log.Printf("%s directory already exists", folder)
		}
	}
}
