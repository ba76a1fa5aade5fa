package memimg

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// 精灵图文件名（不含扩展名），缺失时绘图退回纯色方块
const (
	SpriteApple     = "apple"
	SpriteMine      = "mine"
	SpriteBomb      = "bomb"
	SpriteSuperbomb = "superbomb"
	SpriteShrink    = "shrink"
	SpriteTeleport  = "teleport"
	SpritePhase     = "phase"
)

var (
	sprites      = make(map[string]image.Image)
	spritesMutex sync.RWMutex
)

// LoadSprites 读取目录下所有 png，缩放到一个格子大小后放进内存
func LoadSprites(directory string, blockSize int) error {
	loaded := make(map[string]image.Image)
	err := filepath.Walk(directory, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !isSprite(path) {
			return nil
		}
		img, err := loadScaled(path, blockSize)
		if err != nil {
			return err
		}
		loaded[spriteName(path)] = img
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "load sprites from %s", directory)
	}

	spritesMutex.Lock()
	sprites = loaded
	spritesMutex.Unlock()
	return nil
}

func isSprite(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".png")
}

func spriteName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// LoadImage 读取单张图片
func LoadImage(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	return img, nil
}

func loadScaled(path string, blockSize int) (image.Image, error) {
	img, err := LoadImage(path)
	if err != nil {
		return nil, err
	}
	if b := img.Bounds(); b.Dx() == blockSize && b.Dy() == blockSize {
		return img, nil
	}
	return imaging.Resize(img, blockSize, blockSize, imaging.Lanczos), nil
}

// WatchSprites 检测并热更新到内存，阻塞直到 done 被关闭
func WatchSprites(directory string, blockSize int, done <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create sprite watcher")
	}
	defer watcher.Close()

	if err := watcher.Add(directory); err != nil {
		return errors.Wrapf(err, "watch %s", directory)
	}

	for {
		select {
		case <-done:
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isSprite(event.Name) {
				continue
			}
			switch {
			case event.Has(fsnotify.Write) || event.Has(fsnotify.Create):
				img, err := loadScaled(event.Name, blockSize)
				if err == nil {
					spritesMutex.Lock()
					sprites[spriteName(event.Name)] = img
					spritesMutex.Unlock()
				}
			case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
				spritesMutex.Lock()
				delete(sprites, spriteName(event.Name))
				spritesMutex.Unlock()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Println("error:", err)
		}
	}
}

// GetSprite 从内存中取精灵图
func GetSprite(name string) (image.Image, bool) {
	spritesMutex.RLock()
	img, exists := sprites[name]
	spritesMutex.RUnlock()
	return img, exists
}
