package world

import "github.com/prometheus/client_golang/prometheus"

// Prometheus-метрики операций мира. Регистрируются в глобальном регистре
// один раз при инициализации пакета.
var (
	metricFieldWrites = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "terrain",
		Name:      "field_writes_total",
		Help:      "Количество материализовавшихся записей значений полей.",
	}, []string{"field"})

	metricChunksAdded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "terrain",
		Name:      "chunks_added_total",
		Help:      "Количество созданных пустых чанков.",
	})

	metricChunksLoaded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "terrain",
		Name:      "chunks_loaded_total",
		Help:      "Количество чанков, загруженных из хранилища.",
	})

	metricChunksUnloaded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "terrain",
		Name:      "chunks_unloaded_total",
		Help:      "Количество чанков, выгруженных в хранилище.",
	})

	metricLoadedChunks = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "terrain",
		Name:      "chunks_resident",
		Help:      "Текущее количество чанков в памяти.",
	})

	metricDirtyConsumed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "terrain",
		Name:      "dirty_chunks_consumed_total",
		Help:      "Количество грязных координат, отданных потребителю.",
	})
)

func init() {
	prometheus.MustRegister(
		metricFieldWrites,
		metricChunksAdded,
		metricChunksLoaded,
		metricChunksUnloaded,
		metricLoadedChunks,
		metricDirtyConsumed,
	)
}
