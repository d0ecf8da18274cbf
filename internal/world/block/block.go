package block

// Block представляет тип блока. Хранится как u8 для экономии памяти:
// в поле «тип блока» мира значение занимает всего 4 бита.
type Block uint8

// Встроенные типы блоков. Missing — зарезервированный безопасный
// fallback для неизвестных и некорректных значений.
const (
	Air Block = iota
	Grass
	Dirt
	Stone
	Bedrock
	Missing

	blockCount // всегда последний: количество типов
)

// FromID выполняет явное полное отображение числа в тип блока.
// Значение вне известного диапазона даёт Missing — сырые байты
// никогда не интерпретируются как тип напрямую.
func FromID(v uint64) Block {
	if v < uint64(blockCount) {
		return Block(v)
	}
	return Missing
}

// FromString возвращает тип блока по имени из конфигурации.
// Неизвестное имя даёт Missing.
func FromString(s string) Block {
	switch s {
	case "air":
		return Air
	case "grass":
		return Grass
	case "dirt":
		return Dirt
	case "stone":
		return Stone
	case "bedrock":
		return Bedrock
	default:
		return Missing
	}
}

// ID возвращает числовое представление типа блока для хранения в мире.
func (b Block) ID() uint64 {
	return uint64(b)
}

// String возвращает имя типа блока.
func (b Block) String() string {
	switch b {
	case Air:
		return "air"
	case Grass:
		return "grass"
	case Dirt:
		return "dirt"
	case Stone:
		return "stone"
	case Bedrock:
		return "bedrock"
	default:
		return "missing"
	}
}
