package api

import (
	"database/sql"
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hoshinonyaruko/snake-expert/snake"
	"github.com/hoshinonyaruko/snake-expert/sqlite"
	"github.com/hoshinonyaruko/snake-expert/structs"
	"github.com/hoshinonyaruko/snake-expert/ticker"
)

// Hub 管理所有会话，每个会话一局游戏
type Hub struct {
	mu         sync.RWMutex
	sessions   map[string]*ticker.Runner
	db         *sql.DB
	opts       snake.Options
	difficulty structs.Difficulty
}

// NewHub db 可以为 nil，此时不保存成绩
func NewHub(db *sql.DB, opts snake.Options) *Hub {
	return &Hub{
		sessions:   make(map[string]*ticker.Runner),
		db:         db,
		opts:       opts,
		difficulty: structs.ParseDifficulty(string(opts.Difficulty)),
	}
}

// SetDefaultDifficulty 新会话使用的默认难度（配置热更新时调用）
func (h *Hub) SetDefaultDifficulty(s string) {
	h.mu.Lock()
	h.difficulty = structs.ParseDifficulty(s)
	h.mu.Unlock()
}

// Create 新建会话
func (h *Hub) Create(difficulty string) *ticker.Runner {
	h.mu.Lock()
	defer h.mu.Unlock()

	opts := h.opts
	opts.Difficulty = h.difficulty
	if difficulty != "" {
		opts.Difficulty = structs.ParseDifficulty(difficulty)
	}

	id := uuid.NewString()
	r := ticker.New(id, snake.New(opts))
	r.OnGameOver(h.saveRun)
	h.sessions[id] = r
	log.Printf("session %s created (%s)", id, opts.Difficulty)
	return r
}

func (h *Hub) Get(id string) (*ticker.Runner, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	r, ok := h.sessions[id]
	return r, ok
}

// Delete 停止并移除会话
func (h *Hub) Delete(id string) bool {
	h.mu.Lock()
	r, ok := h.sessions[id]
	delete(h.sessions, id)
	h.mu.Unlock()
	if ok {
		r.Close()
	}
	return ok
}

// Close 停止全部会话
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, r := range h.sessions {
		r.Close()
		delete(h.sessions, id)
	}
}

func (h *Hub) saveRun(rec structs.RunRecord) {
	if h.db == nil {
		return
	}
	if err := sqlite.InsertRun(h.db, &rec); err != nil {
		log.Printf("failed to save run for session %s: %v", rec.SessionID, err)
	}
}

// Routes 注册全部接口
func Routes(router gin.IRoutes, hub *Hub) {
	// 新建会话
	router.GET("/new-session", NewSessionHandler(hub))
	router.GET("/start", StartHandler(hub))
	router.GET("/stop", StopHandler(hub))
	router.GET("/pause-toggle", PauseToggleHandler(hub))
	// 处理玩家改变方向
	router.GET("/update-direction", UpdateDirection(hub))
	router.GET("/difficulty", DifficultyHandler(hub))
	router.GET("/reset", ResetHandler(hub))
	router.GET("/snapshot", SnapshotHandler(hub))
	// 渲染函数 返回静态地址
	router.GET("/render-map", RenderMapHandler(hub))
	router.GET("/delete-session", DeleteSessionHandler(hub))
	router.GET("/scores", ScoresHandler(hub))
	// 实时推送
	router.GET("/stream", StreamHandler(hub))
}

// sessionFromQuery 读取 sessionid，找不到时直接写错误响应
func sessionFromQuery(c *gin.Context, hub *Hub) (*ticker.Runner, bool) {
	id := c.Query("sessionid")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required query parameter: sessionid"})
		return nil, false
	}
	r, ok := hub.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No session found with the specified sessionid"})
		return nil, false
	}
	return r, true
}

func NewSessionHandler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		r := hub.Create(c.Query("difficulty"))
		c.JSON(http.StatusOK, gin.H{"session_id": r.ID(), "snapshot": r.Snapshot()})
	}
}

func StartHandler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, ok := sessionFromQuery(c, hub)
		if !ok {
			return
		}
		started := r.Start()
		c.JSON(http.StatusOK, gin.H{"started": started, "snapshot": r.Snapshot()})
	}
}

func StopHandler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, ok := sessionFromQuery(c, hub)
		if !ok {
			return
		}
		r.Stop()
		c.JSON(http.StatusOK, gin.H{"snapshot": r.Snapshot()})
	}
}

func PauseToggleHandler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, ok := sessionFromQuery(c, hub)
		if !ok {
			return
		}
		r.PauseToggle()
		c.JSON(http.StatusOK, gin.H{"snapshot": r.Snapshot()})
	}
}

func UpdateDirection(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		newDirection := c.Query("direction")
		if newDirection == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required query parameters: sessionid or direction"})
			return
		}
		// 检查新方向是否合法
		dir, valid := structs.ParseDirection(newDirection)
		if !valid {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid direction '" + newDirection + "' provided"})
			return
		}
		r, ok := sessionFromQuery(c, hub)
		if !ok {
			return
		}

		if !r.SetDirection(dir) {
			// 掉头或刚结束时的输入，不算错误
			c.JSON(http.StatusOK, gin.H{"message": "Direction ignored", "accepted": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Direction updated successfully", "accepted": true})
	}
}

func DifficultyHandler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, ok := sessionFromQuery(c, hub)
		if !ok {
			return
		}
		d := r.SetDifficulty(c.Query("difficulty"))
		c.JSON(http.StatusOK, gin.H{"difficulty": d})
	}
}

func ResetHandler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, ok := sessionFromQuery(c, hub)
		if !ok {
			return
		}
		r.Reset()
		c.JSON(http.StatusOK, gin.H{"snapshot": r.Snapshot()})
	}
}

func SnapshotHandler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, ok := sessionFromQuery(c, hub)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, r.Snapshot())
	}
}

// DeleteSessionHandler purge=1 时同时删除该会话的成绩
func DeleteSessionHandler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Query("sessionid")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required query parameter: sessionid"})
			return
		}
		if !hub.Delete(id) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No session found with the specified sessionid"})
			return
		}

		resp := gin.H{"message": "Session deleted successfully"}
		if c.Query("purge") == "1" && hub.db != nil {
			n, err := sqlite.DeleteSessionRuns(hub.db, id)
			if err != nil {
				log.Printf("failed to purge runs of %s: %v", id, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete runs"})
				return
			}
			resp["runs_deleted"] = n
		}
		c.JSON(http.StatusOK, resp)
	}
}

func ScoresHandler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		if hub.db == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Score storage is not configured"})
			return
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
		difficulty := c.Query("difficulty")
		if difficulty != "" {
			difficulty = string(structs.ParseDifficulty(difficulty))
		}

		runs, err := sqlite.TopRuns(hub.db, limit, difficulty)
		if err != nil {
			log.Printf("err TopRuns: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch scores"})
			return
		}
		resp := gin.H{"runs": runs}
		if difficulty != "" {
			best, err := sqlite.BestScore(hub.db, difficulty)
			if err != nil {
				log.Printf("err BestScore: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch scores"})
				return
			}
			resp["best"] = best
		}
		c.JSON(http.StatusOK, resp)
	}
}
