// event-cli подключается к шине событий террейна и выводит события
// в реальном времени. Полезен для отладки пайплайна грязных чанков
// без запуска полноценного потребителя.
//
// Примеры:
//
//	event-cli -server nats://127.0.0.1:4222 -cmd tail
//	event-cli -cmd tail -types chunks_dirty -duration 30s
//	event-cli -cmd stats -duration 10s
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/annel0/voxel-terrain/internal/eventbus"
)

const defaultServerAddr = "nats://127.0.0.1:4222"

func main() {
	var (
		serverAddr = flag.String("server", defaultServerAddr, "адрес NATS сервера")
		stream     = flag.String("stream", "TERRAIN", "имя JetStream стрима")
		command    = flag.String("cmd", "tail", "команда: tail, stats")
		eventTypes = flag.String("types", "", "фильтр типов событий (через запятую)")
		sources    = flag.String("sources", "", "фильтр источников (через запятую)")
		duration   = flag.String("duration", "", "длительность наблюдения (например, 30s; пусто — до Ctrl+C)")
	)
	flag.Parse()

	bus, err := eventbus.NewJetStreamBus(*serverAddr, *stream, 24*time.Hour)
	if err != nil {
		log.Fatalf("❌ Не удалось подключиться к шине: %v", err)
	}
	defer bus.Close()

	ctx, cancel := watchContext(*duration)
	defer cancel()

	filter := eventbus.Filter{
		Types:   parseStringList(*eventTypes),
		Sources: parseStringList(*sources),
	}

	switch *command {
	case "tail":
		if err := tailEvents(ctx, bus, filter); err != nil {
			log.Fatalf("❌ Ошибка tail: %v", err)
		}
	case "stats":
		if err := showStats(ctx, bus, filter); err != nil {
			log.Fatalf("❌ Ошибка stats: %v", err)
		}
	default:
		fmt.Printf("❌ Неизвестная команда: %s\n", *command)
		fmt.Println("Доступные команды: tail, stats")
		os.Exit(1)
	}
}

// tailEvents печатает события по мере поступления.
func tailEvents(ctx context.Context, bus eventbus.EventBus, filter eventbus.Filter) error {
	fmt.Printf("🎬 Наблюдение за событиями (фильтр типов: %v)\n", filter.Types)

	count := 0
	sub, err := bus.Subscribe(ctx, filter, func(ctx context.Context, ev *eventbus.Envelope) {
		printEvent(ev)
		count++
	})
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()

	<-ctx.Done()
	fmt.Printf("\n📊 Всего событий: %d\n", count)
	return nil
}

// showStats копит счётчики по типам событий за период наблюдения.
func showStats(ctx context.Context, bus eventbus.EventBus, filter eventbus.Filter) error {
	fmt.Println("📊 Сбор статистики событий...")

	counts := make(map[string]int)
	total := 0
	sub, err := bus.Subscribe(ctx, filter, func(ctx context.Context, ev *eventbus.Envelope) {
		counts[ev.EventType]++
		total++
	})
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()

	<-ctx.Done()

	fmt.Printf("Всего событий: %d\n", total)
	fmt.Println("По типам:")
	for eventType, n := range counts {
		fmt.Printf("  %s: %d\n", eventType, n)
	}
	return nil
}

// printEvent выводит событие в читаемом формате.
func printEvent(ev *eventbus.Envelope) {
	fmt.Printf("[%s] %s [%s] %s\n",
		ev.Timestamp.Local().Format("15:04:05"),
		ev.Source,
		ev.EventType,
		ev.ID)

	var payload eventbus.ChunksPayload
	if err := json.Unmarshal(ev.Payload, &payload); err == nil && len(payload.Chunks) > 0 {
		fmt.Printf("  Чанки (%d): ", len(payload.Chunks))
		for i, pos := range payload.Chunks {
			if i > 0 {
				fmt.Print(", ")
			}
			fmt.Print(pos)
		}
		fmt.Println()
	}
}

// watchContext возвращает контекст, завершающийся по таймауту или Ctrl+C.
func watchContext(duration string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	if duration != "" {
		if d, err := time.ParseDuration(duration); err == nil {
			ctx, cancel = context.WithTimeout(context.Background(), d)
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// parseStringList парсит строку с разделителями-запятыми.
func parseStringList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
