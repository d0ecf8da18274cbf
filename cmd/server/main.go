package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/voxel-terrain/internal/api"
	"github.com/annel0/voxel-terrain/internal/config"
	"github.com/annel0/voxel-terrain/internal/eventbus"
	"github.com/annel0/voxel-terrain/internal/logging"
	"github.com/annel0/voxel-terrain/internal/storage"
	"github.com/annel0/voxel-terrain/internal/world"
	"github.com/annel0/voxel-terrain/internal/world/block"
)

func main() {
	configPath := flag.String("config", "", "путь к YAML конфигурации (по умолчанию TERRAIN_CONFIG)")
	flag.Parse()

	// Инициализируем систему логирования
	if err := logging.InitDefaultLogger("terrain"); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()

	logging.Info("🗺️  Запуск сервера террейна...")

	// === КОНФИГУРАЦИЯ ===
	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Error("❌ Ошибка чтения конфигурации: %v", err)
		log.Fatalf("❌ Ошибка чтения конфигурации: %v", err)
	}
	if cfg == nil {
		cfg = &config.Config{} // дефолты
	}

	params, err := cfg.World.Params()
	if err != nil {
		logging.Error("❌ Некорректная конфигурация мира: %v", err)
		log.Fatalf("❌ Некорректная конфигурация мира: %v", err)
	}
	logging.Info("📐 Геометрия: чанк %dx%dx%d, субчанков %d",
		params.ChunkWidth, params.ChunkHeight, params.ChunkDepth(), params.NumSubchunks)

	// Загружаем YAML-описания блоков (если файл задан)
	if cfg.World.BlocksFile != "" {
		if err := block.LoadYAML(cfg.World.BlocksFile); err != nil && !os.IsNotExist(err) {
			logging.Error("Ошибка загрузки описаний блоков: %v", err)
		}
	}

	// === ХРАНИЛИЩЕ ЧАНКОВ ===
	store, closeStore, err := newChunkStore(cfg.Storage)
	if err != nil {
		logging.Error("❌ Ошибка инициализации хранилища: %v", err)
		log.Fatalf("❌ Ошибка инициализации хранилища: %v", err)
	}
	defer closeStore()

	// === МИР ===
	w, err := world.NewWorld(params, store)
	if err != nil {
		logging.Error("❌ Ошибка создания мира: %v", err)
		log.Fatalf("❌ Ошибка создания мира: %v", err)
	}

	// === ШИНА СОБЫТИЙ ===
	bus, err := newEventBus(cfg.EventBus)
	if err != nil {
		logging.Error("❌ Ошибка подключения шины событий: %v", err)
		log.Fatalf("❌ Ошибка подключения шины событий: %v", err)
	}
	defer bus.Close()

	exporter := eventbus.NewMetricsExporter(bus)
	exporter.StartHTTP(fmt.Sprintf(":%d", cfg.Server.GetMetricsPort()))
	defer exporter.Stop()

	// === REST API ===
	restPort := fmt.Sprintf(":%d", cfg.Server.GetRESTPort())
	restServer := api.NewRestServer(api.Config{
		Port:  restPort,
		World: w,
	})
	go func() {
		if err := restServer.Start(); err != nil {
			logging.Error("❌ Ошибка REST сервера: %v", err)
		}
	}()

	logging.Info("✅ Сервер террейна готов")
	logging.Info("   🌐 REST API: http://localhost%s", restPort)
	logging.Info("   📈 Метрики: http://localhost:%d/metrics", cfg.Server.GetMetricsPort())
	logging.Info("   ❤️  Health check: http://localhost%s/health", restPort)

	// === ЦИКЛ ПУБЛИКАЦИИ ГРЯЗНЫХ ЧАНКОВ ===
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go publishDirtyLoop(ctx, restServer, bus)

	// Ждем сигнала для завершения
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logging.Info("📡 Получен сигнал %v, завершение работы...", sig)
}

// newChunkStore выбирает backend по конфигурации: файлы или BadgerDB.
func newChunkStore(cfg config.StorageConfig) (world.ChunkStore, func(), error) {
	path := cfg.Path
	if path == "" {
		path = "chunks"
	}

	switch cfg.Backend {
	case "badger":
		bs, err := storage.NewBadgerChunkStore(path)
		if err != nil {
			return nil, nil, err
		}
		logging.Info("💾 Хранилище чанков: BadgerDB (%s)", path)
		return bs, func() { bs.Close() }, nil
	case "", "file":
		fs := storage.NewFileChunkStore(path, cfg.Compression)
		logging.Info("💾 Хранилище чанков: файлы (%s, gzip=%v)", path, cfg.Compression)
		return fs, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("неизвестный storage backend: %q", cfg.Backend)
	}
}

// newEventBus подключает NATS JetStream, если задан URL, иначе in-memory шину.
func newEventBus(cfg config.EventBusConfig) (eventbus.EventBus, error) {
	if cfg.URL == "" {
		logging.Info("📨 Шина событий: in-memory")
		return eventbus.NewMemoryBus(1024), nil
	}

	retention := time.Duration(cfg.Retention) * time.Hour
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	bus, err := eventbus.NewJetStreamBus(cfg.URL, cfg.Stream, retention)
	if err != nil {
		return nil, err
	}
	logging.Info("📨 Шина событий: NATS JetStream (%s)", cfg.URL)
	return bus, nil
}

// publishDirtyLoop раз в секунду забирает грязные чанки и публикует событие.
// Мир не потокобезопасен, поэтому забор идёт через мьютекс REST сервера.
func publishDirtyLoop(ctx context.Context, rs *api.RestServer, bus eventbus.EventBus) {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			dirty := rs.ConsumeDirty()
			if len(dirty) == 0 {
				continue
			}

			ev, err := eventbus.NewChunksEnvelope("terrain-server", eventbus.EventChunksDirty, dirty)
			if err != nil {
				logging.Error("Ошибка сборки события: %v", err)
				continue
			}
			if err := bus.Publish(ctx, ev); err != nil {
				logging.Error("Ошибка публикации события: %v", err)
				continue
			}
			logging.Debug("Опубликовано %d грязных чанков", len(dirty))
		}
	}
}
