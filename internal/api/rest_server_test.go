package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/voxel-terrain/internal/world"
)

// Сервер создаётся один раз: middleware регистрирует Prometheus-метрики
// в глобальном регистре, повторная регистрация паникует.
func newTestServer(t *testing.T) *RestServer {
	t.Helper()
	w, err := world.NewWorld(world.DefaultParams(), nil)
	require.NoError(t, err)
	return NewRestServer(Config{Port: ":0", World: w})
}

func TestRestAPI(t *testing.T) {
	server := newTestServer(t)

	do := func(method, url string, body interface{}) *httptest.ResponseRecorder {
		var reader *bytes.Reader
		if body != nil {
			data, err := json.Marshal(body)
			require.NoError(t, err)
			reader = bytes.NewReader(data)
		} else {
			reader = bytes.NewReader(nil)
		}
		req := httptest.NewRequest(method, url, reader)
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		server.Router().ServeHTTP(rec, req)
		return rec
	}

	t.Run("health", func(t *testing.T) {
		rec := do(http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	})

	t.Run("создание чанка", func(t *testing.T) {
		rec := do(http.MethodPost, "/api/chunks", ChunkRequest{X: 0, Y: 0})
		assert.Equal(t, http.StatusCreated, rec.Code)

		// Повторное создание — конфликт
		rec = do(http.MethodPost, "/api/chunks", ChunkRequest{X: 0, Y: 0})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("запись и чтение поля", func(t *testing.T) {
		rec := do(http.MethodPut, "/api/field/block", FieldWriteRequest{X: 3, Y: 4, Z: 5, Value: 3})
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = do(http.MethodGet, "/api/field/block?x=3&y=4&z=5", nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Value uint64 `json:"value"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, uint64(3), resp.Value)
	})

	t.Run("неизвестное поле", func(t *testing.T) {
		rec := do(http.MethodGet, "/api/field/temperature?x=0&y=0&z=0", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("незагруженный чанк", func(t *testing.T) {
		rec := do(http.MethodGet, "/api/field/block?x=5000&y=5000&z=0", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("позиция вне границ", func(t *testing.T) {
		rec := do(http.MethodPut, "/api/field/block", FieldWriteRequest{X: 0, Y: 0, Z: -1, Value: 1})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("забор грязных чанков", func(t *testing.T) {
		rec := do(http.MethodPost, "/api/chunks/dirty/consume", nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Chunks []struct {
				X int `json:"x"`
				Y int `json:"y"`
			} `json:"chunks"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		// Запись поля выше пометила чанк (0,0); соседи не загружены
		assert.Len(t, resp.Chunks, 1)

		// Повторный забор пуст
		rec = do(http.MethodPost, "/api/chunks/dirty/consume", nil)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Empty(t, resp.Chunks)
	})

	t.Run("выгрузка без хранилища", func(t *testing.T) {
		rec := do(http.MethodPost, "/api/chunks/unload", ChunkRequest{X: 0, Y: 0})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("статистика", func(t *testing.T) {
		rec := do(http.MethodGet, "/api/stats", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "loaded_chunks")
	})
}
