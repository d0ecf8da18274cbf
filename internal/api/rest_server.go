// Package api предоставляет REST API поверх мира террейна: чтение и запись
// полей блоков, управление жизненным циклом чанков, статистика сервиса.
//
// Мир однопоточный, поэтому сервер сериализует все обращения к нему
// собственным мьютексом.
package api

import (
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/annel0/voxel-terrain/internal/logging"
	"github.com/annel0/voxel-terrain/internal/middleware"
	"github.com/annel0/voxel-terrain/internal/vec"
	"github.com/annel0/voxel-terrain/internal/world"
)

// RestServer представляет REST API сервер террейна.
type RestServer struct {
	router  *gin.Engine
	world   *world.World
	mu      sync.Mutex // мир не потокобезопасен
	port    string
	metrics *ServerMetrics
}

// Config содержит конфигурацию для REST сервера.
type Config struct {
	Port  string       // порт для запуска сервера, например ":8088"
	World *world.World // обслуживаемый мир
}

// NewRestServer создает новый REST API сервер.
func NewRestServer(config Config) *RestServer {
	if config.Port == "" {
		config.Port = ":8088"
	}

	// Устанавливаем режим релиза для gin
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()        // без стандартного logger/recovery
	router.Use(gin.Recovery()) // добавим только recovery

	// === Observability middleware ===
	loggerMw := middleware.NewRequestLogger()
	router.Use(loggerMw.Handler())

	promMw := middleware.NewPrometheusMiddleware("terrain_api")
	router.Use(promMw.Handler())
	promMw.RegisterMetricsEndpoint(router)

	server := &RestServer{
		router:  router,
		world:   config.World,
		port:    config.Port,
		metrics: NewServerMetrics(),
	}

	server.setupRoutes()

	return server
}

// setupRoutes настраивает маршруты REST API.
func (rs *RestServer) setupRoutes() {
	api := rs.router.Group("/api")
	{
		api.GET("/stats", rs.handleStats)

		// Поля блоков
		api.GET("/field/:name", rs.handleGetField)
		api.PUT("/field/:name", rs.handleSetField)

		// Жизненный цикл чанков
		chunks := api.Group("/chunks")
		{
			chunks.POST("", rs.handleAddChunk)
			chunks.POST("/load", rs.handleLoadChunk)
			chunks.POST("/unload", rs.handleUnloadChunk)
			chunks.POST("/dirty/consume", rs.handleConsumeDirty)
		}
	}

	// Health check
	rs.router.GET("/health", rs.handleHealth)
}

// Start запускает HTTP сервер (блокирующий вызов).
func (rs *RestServer) Start() error {
	logging.Info("🌐 REST API сервер запущен на %s", rs.port)
	return rs.router.Run(rs.port)
}

// Router возвращает gin.Engine (используется в тестах).
func (rs *RestServer) Router() *gin.Engine {
	return rs.router
}

//================ Обработчики =================//

func (rs *RestServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": rs.metrics.GetUptime(),
	})
}

func (rs *RestServer) handleStats(c *gin.Context) {
	rs.mu.Lock()
	loaded := rs.world.LoadedChunkCount()
	params := rs.world.Params()
	rs.mu.Unlock()

	memoryMB, _ := rs.metrics.GetMemoryUsage()

	c.JSON(http.StatusOK, gin.H{
		"loaded_chunks": loaded,
		"chunk_width":   params.ChunkWidth,
		"chunk_height":  params.ChunkHeight,
		"chunk_depth":   params.ChunkDepth(),
		"uptime":        rs.metrics.GetUptime(),
		"memory_mb":     fmt.Sprintf("%.1f", memoryMB),
		"memory_stats":  rs.metrics.GetDetailedMemoryStats(),
	})
}

// blockQuery общие query-параметры позиции блока.
type blockQuery struct {
	X int `form:"x"`
	Y int `form:"y"`
	Z int `form:"z"`
}

// FieldWriteRequest тело запроса записи поля.
type FieldWriteRequest struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Z     int    `json:"z"`
	Value uint64 `json:"value"`
}

// ChunkRequest тело запроса операций над чанком.
type ChunkRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// GET /api/field/:name?x=&y=&z=
func (rs *RestServer) handleGetField(c *gin.Context) {
	field, ok := world.FieldByName(c.Param("name"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "неизвестное поле: " + c.Param("name")})
		return
	}

	var q blockQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pos := vec.Vec3{X: q.X, Y: q.Y, Z: q.Z}

	rs.mu.Lock()
	value, err := rs.world.Item(field, pos)
	rs.mu.Unlock()

	if err != nil {
		rs.writeWorldError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"field": field.String(),
		"x":     pos.X,
		"y":     pos.Y,
		"z":     pos.Z,
		"value": value,
	})
}

// PUT /api/field/:name
func (rs *RestServer) handleSetField(c *gin.Context) {
	field, ok := world.FieldByName(c.Param("name"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "неизвестное поле: " + c.Param("name")})
		return
	}

	var req FieldWriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректное тело запроса: " + err.Error()})
		return
	}
	pos := vec.Vec3{X: req.X, Y: req.Y, Z: req.Z}

	rs.mu.Lock()
	err := rs.world.SetItem(field, pos, req.Value)
	rs.mu.Unlock()

	if err != nil {
		rs.writeWorldError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// POST /api/chunks — создать пустой чанк.
func (rs *RestServer) handleAddChunk(c *gin.Context) {
	var req ChunkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректное тело запроса: " + err.Error()})
		return
	}
	pos := vec.Vec2{X: req.X, Y: req.Y}

	rs.mu.Lock()
	err := rs.world.AddEmptyChunk(pos)
	rs.mu.Unlock()

	if err != nil {
		rs.writeWorldError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "ok"})
}

// POST /api/chunks/load — загрузить чанк из хранилища.
func (rs *RestServer) handleLoadChunk(c *gin.Context) {
	var req ChunkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректное тело запроса: " + err.Error()})
		return
	}
	pos := vec.Vec2{X: req.X, Y: req.Y}

	rs.mu.Lock()
	err := rs.world.LoadChunk(pos)
	rs.mu.Unlock()

	if err != nil {
		rs.writeWorldError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// POST /api/chunks/unload — закодировать, сохранить и выгрузить чанк.
func (rs *RestServer) handleUnloadChunk(c *gin.Context) {
	var req ChunkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректное тело запроса: " + err.Error()})
		return
	}
	pos := vec.Vec2{X: req.X, Y: req.Y}

	rs.mu.Lock()
	err := rs.world.UnloadChunk(pos)
	rs.mu.Unlock()

	if err != nil {
		rs.writeWorldError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ConsumeDirty забирает грязные чанки под мьютексом сервера.
// Используется фоновым циклом публикации событий.
func (rs *RestServer) ConsumeDirty() []vec.Vec2 {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.world.ConsumeDirty()
}

// POST /api/chunks/dirty/consume — забрать и сбросить грязные чанки.
func (rs *RestServer) handleConsumeDirty(c *gin.Context) {
	dirty := rs.ConsumeDirty()

	chunks := make([]gin.H, 0, len(dirty))
	for _, pos := range dirty {
		chunks = append(chunks, gin.H{"x": pos.X, "y": pos.Y})
	}

	c.JSON(http.StatusOK, gin.H{"chunks": chunks})
}

// writeWorldError переводит ошибки мира в HTTP-статусы.
func (rs *RestServer) writeWorldError(c *gin.Context, err error) {
	var (
		boundsErr   *world.BoundsError
		unloadedErr *world.ChunkUnloadedError
		loadedErr   *world.ChunkAlreadyLoadedError
		fieldErr    *world.FieldError
	)

	switch {
	case errors.As(err, &boundsErr), errors.As(err, &fieldErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &unloadedErr):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &loadedErr):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, world.ErrCorruptChunk):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		logging.Error("внутренняя ошибка API: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
