package world

// Field идентифицирует один скалярный канал вокселя.
//
// Набор полей закрыт и фиксирован на этапе сборки: каждое поле несёт
// собственную битовую ширину в таблице дескрипторов ниже. Значение 0
// любого поля считается значением по умолчанию и не занимает памяти.
type Field uint8

const (
	// FieldBlock тип блока (идентификатор из пакета block).
	FieldBlock Field = iota
	// FieldSkyLight уровень небесного освещения.
	FieldSkyLight
	// FieldBlockLight уровень освещения от блоков.
	FieldBlockLight
	// FieldExposed флаг «блок имеет хотя бы одного непрозрачного соседа».
	FieldExposed

	// FieldCount количество полей; всегда последний.
	FieldCount
)

type fieldInfo struct {
	name string
	bits uint8
}

// Таблица дескрипторов полей, индексируется значением Field.
var fieldTable = [FieldCount]fieldInfo{
	FieldBlock:      {name: "block", bits: 4},
	FieldSkyLight:   {name: "sky_light", bits: 5},
	FieldBlockLight: {name: "block_light", bits: 4},
	FieldExposed:    {name: "exposed", bits: 1},
}

// Valid возвращает true для известного идентификатора поля.
func (f Field) Valid() bool {
	return f < FieldCount
}

// Bits возвращает битовую ширину значений поля.
func (f Field) Bits() uint8 {
	return fieldTable[f].bits
}

// String возвращает имя поля.
func (f Field) String() string {
	if !f.Valid() {
		return "unknown"
	}
	return fieldTable[f].name
}

// FieldByName находит поле по имени (используется REST-слоем и конфигурацией).
func FieldByName(name string) (Field, bool) {
	for f := Field(0); f < FieldCount; f++ {
		if fieldTable[f].name == name {
			return f, true
		}
	}
	return FieldCount, false
}

// BoolToValue кодирует булево значение поля в его представление u64.
func BoolToValue(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// ValueToBool декодирует представление u64 в булево: любое ненулевое — true.
func ValueToBool(v uint64) bool {
	return v != 0
}
