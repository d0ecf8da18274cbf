package block

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromIDOutOfRange(t *testing.T) {
	assert.Equal(t, Air, FromID(0))
	assert.Equal(t, Stone, FromID(3))

	// Любое неизвестное значение сворачивается в Missing
	assert.Equal(t, Missing, FromID(200))
	assert.Equal(t, Missing, FromID(^uint64(0)))
}

func TestFromString(t *testing.T) {
	assert.Equal(t, Grass, FromString("grass"))
	assert.Equal(t, Bedrock, FromString("bedrock"))
	assert.Equal(t, Missing, FromString("no_such_block"))
}

func TestIDRoundTrip(t *testing.T) {
	for _, b := range []Block{Air, Grass, Dirt, Stone, Bedrock} {
		assert.Equal(t, b, FromID(b.ID()), "блок %s должен переживать цикл ID", b)
	}
}

func TestDefinitionBits(t *testing.T) {
	d := NewDefinition(Stone, true, true, false, true, false)

	assert.Equal(t, Stone, d.Name())
	assert.True(t, d.IsHoverable())
	assert.True(t, d.IsVisible())
	assert.False(t, d.IsBreakable())
	assert.True(t, d.IsCollidable())
	assert.False(t, d.IsReplaceable())
}

func TestDefaultDefinitions(t *testing.T) {
	air := Air.Definition()
	assert.False(t, air.IsVisible(), "воздух невидим")
	assert.False(t, air.IsCollidable(), "воздух проходим")
	assert.True(t, air.IsReplaceable(), "воздух заменяем")

	bedrock := Bedrock.Definition()
	assert.False(t, bedrock.IsBreakable(), "бедрок неразрушим")
	assert.True(t, bedrock.IsCollidable())

	// Missing ведёт себя как непроходимая заглушка
	missing := Missing.Definition()
	assert.True(t, missing.IsVisible())
	assert.True(t, missing.IsCollidable())
	assert.False(t, missing.IsBreakable())
}

func TestRegistryUnknownBlock(t *testing.T) {
	// Незарегистрированный блок получает определение Missing
	d := Get(Block(250))
	assert.Equal(t, Missing.Definition(), d)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blocks.yml")
	content := []byte(`
grass:
  is_hoverable: true
  is_visible: true
  is_breakable: false
  is_collidable: true
  is_replaceable: false
no_such_block:
  is_visible: true
`)
	require.NoError(t, os.WriteFile(path, content, 0644))

	require.NoError(t, LoadYAML(path))
	defer RegisterDefaults() // возвращаем дефолты для других тестов

	d := Grass.Definition()
	assert.False(t, d.IsBreakable(), "флаг из YAML должен переопределить дефолт")
	assert.True(t, d.IsHoverable())
}

func TestLoadYAMLErrors(t *testing.T) {
	assert.Error(t, LoadYAML(filepath.Join(t.TempDir(), "missing.yml")))

	path := filepath.Join(t.TempDir(), "broken.yml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0644))
	assert.Error(t, LoadYAML(path))
}
