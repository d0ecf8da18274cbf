package block

// Definition хранит статические свойства типа блока, упакованные в u32.
// Одна запись на тип блока, создаётся при загрузке конфигурации и больше
// не изменяется; все воксели одного типа разделяют одну запись.
//
// Раскладка битов:
//
//	0–7  тип блока
//	8    hoverable  — блок подсвечивается при наведении
//	9    visible    — блок отрисовывается
//	10   breakable  — блок может быть разрушен игроком
//	11   collidable — блок не пропускает сущности
//	12   replaceable — блок можно заменить установкой другого
type Definition struct {
	data uint32
}

const (
	nameMask  uint32 = 0xff
	nameShift uint32 = 0

	hoverableMask   uint32 = 1 << 8
	visibleMask     uint32 = 1 << 9
	breakableMask   uint32 = 1 << 10
	collidableMask  uint32 = 1 << 11
	replaceableMask uint32 = 1 << 12
)

// NewDefinition собирает запись свойств для типа блока.
func NewDefinition(name Block, hoverable, visible, breakable, collidable, replaceable bool) Definition {
	data := (uint32(name) & nameMask) << nameShift

	if hoverable {
		data |= hoverableMask
	}
	if visible {
		data |= visibleMask
	}
	if breakable {
		data |= breakableMask
	}
	if collidable {
		data |= collidableMask
	}
	if replaceable {
		data |= replaceableMask
	}
	return Definition{data: data}
}

// Name возвращает тип блока, которому принадлежит запись.
func (d Definition) Name() Block {
	return FromID(uint64((d.data >> nameShift) & nameMask))
}

// IsHoverable возвращает true, если блок подсвечивается при наведении.
func (d Definition) IsHoverable() bool {
	return d.data&hoverableMask != 0
}

// IsVisible возвращает true, если блок отрисовывается в мире.
func (d Definition) IsVisible() bool {
	return d.data&visibleMask != 0
}

// IsBreakable возвращает true, если блок может быть разрушен.
func (d Definition) IsBreakable() bool {
	return d.data&breakableMask != 0
}

// IsCollidable возвращает true, если блок не пропускает сущности.
func (d Definition) IsCollidable() bool {
	return d.data&collidableMask != 0
}

// IsReplaceable возвращает true, если блок можно заменить другим.
func (d Definition) IsReplaceable() bool {
	return d.data&replaceableMask != 0
}

// Предопределённые записи встроенных блоков.
// Воздух невидим, проходим и заменяем; Missing видим и непроходим,
// чтобы повреждённые данные были заметны, но не ломали коллизии.
var (
	AirDefinition     = NewDefinition(Air, false, false, false, false, true)
	GrassDefinition   = NewDefinition(Grass, true, true, true, true, false)
	DirtDefinition    = NewDefinition(Dirt, true, true, true, true, false)
	StoneDefinition   = NewDefinition(Stone, true, true, true, true, false)
	BedrockDefinition = NewDefinition(Bedrock, true, true, false, true, false)
	MissingDefinition = NewDefinition(Missing, false, true, false, true, false)
)
