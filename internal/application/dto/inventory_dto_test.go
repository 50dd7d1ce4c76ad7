package dto_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/boutique-api/internal/application/dto"
)

func parse(t *testing.T, body string) (int64, error) {
	t.Helper()
	var in dto.AdjustStockRequest
	require.NoError(t, json.Unmarshal([]byte(body), &in))
	return in.ParseQuantityChange()
}

func TestParseQuantityChange_Validos(t *testing.T) {
	cases := map[string]int64{
		`{"quantityChange": -2}`:          -2,
		`{"quantityChange": 0}`:           0,
		`{"quantityChange": 10}`:          10,
		`{"quantityChange": 5.0}`:         5,
		`{"quantityChange": 1e2}`:         100,
		`{"quantityChange": 1000000000}`:  dto.MaxQuantityChange,
		`{"quantityChange": -1000000000}`: -dto.MaxQuantityChange,
	}
	for body, want := range cases {
		got, err := parse(t, body)
		require.NoError(t, err, body)
		assert.Equal(t, want, got, body)
	}
}

func TestParseQuantityChange_Invalidos(t *testing.T) {
	cases := map[string]string{
		`{}`:                                       "requerido",
		`{"quantityChange": null}`:                 "requerido",
		`{"quantityChange": "5"}`:                  "numérico",
		`{"quantityChange": true}`:                 "numérico",
		`{"quantityChange": 1.5}`:                  "entero",
		`{"quantityChange": 9223372036854775808}`:  "rango",
		`{"quantityChange": 1e30}`:                 "rango",
		`{"quantityChange": 1000000001}`:           "rango",
		`{"quantityChange": -1000000001}`:          "rango",
		`{"quantityChange": 9223372036854775807}`:  "rango",
		`{"quantityChange": -9223372036854775808}`: "rango",
	}
	for body, msg := range cases {
		_, err := parse(t, body)
		require.Error(t, err, body)
		assert.Contains(t, err.Error(), msg, body)
	}
}
