package api

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/hoshinonyaruko/snake-expert/structs"
	"github.com/hoshinonyaruko/snake-expert/ticker"
	"github.com/vmihailenco/msgpack/v5"
)

const writeWait = 2 * time.Second

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// StreamHandler 每一帧以 msgpack 二进制消息推送。
// 客户端可以发送文本命令：up/down/left/right/start/stop/pause/reset/difficulty:<name>
func StreamHandler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, ok := sessionFromQuery(c, hub)
		if !ok {
			return
		}
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("websocket upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		frames, cancel := r.Subscribe()
		defer cancel()

		go func() {
			defer cancel()
			for {
				messageType, data, err := conn.ReadMessage()
				if err != nil {
					return
				}
				if messageType == websocket.TextMessage {
					handleClientMessage(r, strings.TrimSpace(string(data)))
				}
			}
		}()

		// 先发一帧完整状态
		if err := writeSnapshot(conn, r.Snapshot()); err != nil {
			return
		}
		for snap := range frames {
			if err := writeSnapshot(conn, snap); err != nil {
				return
			}
		}
	}
}

func writeSnapshot(conn *websocket.Conn, snap structs.Snapshot) error {
	data, err := msgpack.Marshal(&snap)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.BinaryMessage, data)
}

func handleClientMessage(r *ticker.Runner, msg string) {
	if dir, ok := structs.ParseDirection(msg); ok {
		r.SetDirection(dir)
		return
	}
	switch {
	case msg == "start":
		r.Start()
	case msg == "stop":
		r.Stop()
	case msg == "pause":
		r.PauseToggle()
	case msg == "reset":
		r.Reset()
	case strings.HasPrefix(msg, "difficulty:"):
		r.SetDifficulty(strings.TrimPrefix(msg, "difficulty:"))
	}
}
