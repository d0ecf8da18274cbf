package block

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// blockYAML описывает свойства одного блока в конфигурационном файле.
type blockYAML struct {
	IsHoverable   bool `yaml:"is_hoverable"`
	IsVisible     bool `yaml:"is_visible"`
	IsBreakable   bool `yaml:"is_breakable"`
	IsCollidable  bool `yaml:"is_collidable"`
	IsReplaceable bool `yaml:"is_replaceable"`
}

// LoadYAML читает YAML-файл с определениями блоков и перерегистрирует
// соответствующие записи. Формат — карта «имя блока → флаги»:
//
//	grass:
//	  is_hoverable: true
//	  is_visible: true
//	  is_breakable: true
//	  is_collidable: true
//	  is_replaceable: false
//
// Неизвестные имена блоков пропускаются: зарезервированная запись Missing
// не может быть переопределена конфигурацией.
func LoadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("чтение файла блоков %s: %w", path, err)
	}

	var blocks map[string]blockYAML
	if err := yaml.Unmarshal(data, &blocks); err != nil {
		return fmt.Errorf("разбор файла блоков %s: %w", path, err)
	}

	for name, props := range blocks {
		b := FromString(name)
		if b == Missing {
			continue
		}
		Register(b, NewDefinition(
			b,
			props.IsHoverable,
			props.IsVisible,
			props.IsBreakable,
			props.IsCollidable,
			props.IsReplaceable,
		))
	}
	return nil
}
