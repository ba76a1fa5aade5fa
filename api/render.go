package api

import (
	"fmt"
	"image"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/gin-gonic/gin"
	"github.com/hoshinonyaruko/snake-expert/config"
	"github.com/hoshinonyaruko/snake-expert/memimg"
	"github.com/hoshinonyaruko/snake-expert/structs"
)

// 背景网格缓存，按 地图大小_格子大小
var drawingCache sync.Map

var itemSprites = map[structs.ItemKind]string{
	structs.ItemBomb:      memimg.SpriteBomb,
	structs.ItemSuperbomb: memimg.SpriteSuperbomb,
	structs.ItemShrink:    memimg.SpriteShrink,
	structs.ItemTeleport:  memimg.SpriteTeleport,
	structs.ItemPhase:     memimg.SpritePhase,
}

// 没有精灵图时的颜色
var itemColors = map[structs.ItemKind][3]float64{
	structs.ItemBomb:      {1, 0.5, 0},
	structs.ItemSuperbomb: {0.8, 0, 0.8},
	structs.ItemShrink:    {0, 0.6, 1},
	structs.ItemTeleport:  {0.5, 0.3, 1},
	structs.ItemPhase:     {0, 0.8, 0.8},
}

func RenderMapHandler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, ok := sessionFromQuery(c, hub)
		if !ok {
			return
		}
		snap := r.Snapshot()
		blockSize := config.GetConfigValue("blocksize").(int)

		// 绘图
		if err := renderImageAndSave(snap, blockSize, "./static"); err != nil {
			log.Printf("err renderImageAndSave: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to render map"})
			return
		}

		imageUrl := fmt.Sprintf("http://%s/static/%s.png", config.GetConfigValue("selfpath").(string), snap.SessionID)
		c.JSON(http.StatusOK, gin.H{"image_url": imageUrl})
	}
}

// renderImageAndSave 渲染地图并保存为图片
func renderImageAndSave(snap structs.Snapshot, blockSize int, dir string) error {
	img := renderSnapshot(snap, blockSize)
	fileName := filepath.Join(dir, snap.SessionID+".png")
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return err
	}
	return imaging.Save(img, fileName)
}

// renderSnapshot 把一帧画成图片。相位移动时整张图反色。
func renderSnapshot(snap structs.Snapshot, blockSize int) image.Image {
	size := snap.TileCount * blockSize
	dc := gg.NewContext(size, size)
	dc.DrawImage(background(snap.TileCount, blockSize), 0, 0)

	fillCell := func(p structs.Position, r, g, b, a float64) {
		dc.SetRGBA(r, g, b, a)
		dc.DrawRectangle(float64(p.X*blockSize), float64(p.Y*blockSize), float64(blockSize), float64(blockSize))
		dc.Fill()
	}
	// 优先用精灵图，没有就画纯色方块
	drawSprite := func(p structs.Position, name string, rgb [3]float64) {
		if img, found := memimg.GetSprite(name); found {
			dc.DrawImage(img, p.X*blockSize, p.Y*blockSize)
			return
		}
		fillCell(p, rgb[0], rgb[1], rgb[2], 1)
	}

	for _, h := range snap.Highlights {
		fillCell(structs.Position{X: h.X, Y: h.Y}, 1, 0.9, 0.2, 0.15+0.05*float64(h.TTL))
	}
	for _, p := range snap.Preview {
		// 预告障碍只画边框
		dc.SetRGBA(0.8, 0.1, 0.1, 0.8)
		dc.SetLineWidth(2)
		dc.DrawRectangle(float64(p.X*blockSize)+1, float64(p.Y*blockSize)+1, float64(blockSize)-2, float64(blockSize)-2)
		dc.Stroke()
	}
	for _, p := range snap.Obstacles {
		fillCell(p, 0.3, 0.3, 0.3, 1)
	}
	for _, it := range snap.Items {
		drawSprite(it.Pos(), itemSprites[it.Type], itemColors[it.Type])
	}
	if snap.Apple != nil {
		drawSprite(*snap.Apple, memimg.SpriteApple, [3]float64{0.9, 0.1, 0.1})
	}
	if snap.Mine != nil {
		drawSprite(*snap.Mine, memimg.SpriteMine, [3]float64{0, 0, 0})
	}
	if snap.PhaseExit != nil {
		p := *snap.PhaseExit
		dc.SetRGB(0, 0.8, 0.8)
		dc.DrawCircle(float64(p.X*blockSize)+float64(blockSize)/2, float64(p.Y*blockSize)+float64(blockSize)/2, float64(blockSize)/2-1)
		dc.Fill()
	}
	for i, p := range snap.Snake {
		if i == 0 {
			fillCell(p, 0.05, 0.45, 0.05, 1)
		} else {
			fillCell(p, 0.2, 0.75, 0.2, 1)
		}
	}
	if snap.Portal != nil && !snap.Portal.Used {
		drawPortal(dc, snap.Portal.Axis, size)
	}
	if snap.HUDMessage != "" {
		dc.SetRGB(0, 0, 0)
		dc.DrawStringAnchored(snap.HUDMessage, float64(size)/2, 12, 0.5, 0.5)
	}

	if snap.Phasing {
		return imaging.Invert(dc.Image())
	}
	return dc.Image()
}

// drawPortal 在可穿越的两条边界上画线
func drawPortal(dc *gg.Context, axis structs.Axis, size int) {
	s := float64(size)
	dc.SetRGB(0.5, 0.3, 1)
	dc.SetLineWidth(4)
	if axis == structs.AxisHorizontal {
		dc.DrawLine(0, 0, s, 0)
		dc.DrawLine(0, s, s, s)
	} else {
		dc.DrawLine(0, 0, 0, s)
		dc.DrawLine(s, 0, s, s)
	}
	dc.Stroke()
}

// background 白底加网格，按尺寸缓存
func background(tileCount, blockSize int) image.Image {
	cacheKey := fmt.Sprintf("%d_%d", tileCount, blockSize)
	if cached, ok := drawingCache.Load(cacheKey); ok {
		return cached.(image.Image)
	}

	size := tileCount * blockSize
	dc := gg.NewContext(size, size)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	renderGrid(dc, size, size, blockSize)

	img := dc.Image()
	drawingCache.Store(cacheKey, img)
	return img
}

func renderGrid(dc *gg.Context, width, height, blockSize int) {
	dc.SetRGB(0.9, 0.9, 0.9)
	for x := 0; x <= width; x += blockSize {
		dc.DrawLine(float64(x), 0, float64(x), float64(height))
		dc.Stroke()
	}
	for y := 0; y <= height; y += blockSize {
		dc.DrawLine(0, float64(y), float64(width), float64(y))
		dc.Stroke()
	}
}
