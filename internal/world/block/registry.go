package block

var registry = make(map[Block]Definition)

func init() {
	RegisterDefaults()
}

// Register добавляет запись свойств блока в регистр.
func Register(b Block, def Definition) {
	registry[b] = def
}

// RegisterDefaults заполняет регистр встроенными записями.
func RegisterDefaults() {
	Register(Air, AirDefinition)
	Register(Grass, GrassDefinition)
	Register(Dirt, DirtDefinition)
	Register(Stone, StoneDefinition)
	Register(Bedrock, BedrockDefinition)
	Register(Missing, MissingDefinition)
}

// Get возвращает запись свойств для типа блока.
// Для незарегистрированного типа возвращается MissingDefinition.
func Get(b Block) Definition {
	def, exists := registry[b]
	if !exists {
		return MissingDefinition
	}
	return def
}

// Definition возвращает запись свойств данного типа блока.
func (b Block) Definition() Definition {
	return Get(b)
}
