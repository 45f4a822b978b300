package views

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPages(t *testing.T) {
	engine := New()
	require.NoError(t, engine.Load())

	testCases := []struct {
		name     string
		data     map[string]any
		expected string
	}{
		{"home", map[string]any{"Aprobados": 1, "EnRevision": 2}, "En revisión: 2"},
		{"registro", map[string]any{}, `name="imagen"`},
		{"login", map[string]any{"Error": "Credenciales inválidas."}, "Credenciales inválidas."},
		{"datos", map[string]any{"Error": "Usuario no encontrado"}, "Usuario no encontrado"},
		{"admin", map[string]any{}, "Administración"},
		{"notfound", map[string]any{"Title": "Página no encontrada."}, "Página no encontrada."},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, engine.Render(&buf, tc.name, tc.data, Layout))
			assert.Contains(t, buf.String(), tc.expected)
			assert.Contains(t, buf.String(), `href="/registro"`)
		})
	}
}
