package vocabulary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_ResolvesEveryCode(t *testing.T) {
	v := Default()

	for _, table := range []Table{v.Desserts, v.Toppings} {
		for _, e := range table {
			label := table.Label(e.Code)
			assert.NotEmpty(t, label)

			code, ok := table.Code(label)
			require.True(t, ok, "label %q should reverse-resolve", label)
			assert.Equal(t, e.Code, code)
		}
	}
}

func TestDefault_Labels(t *testing.T) {
	v := Default()

	assert.Equal(t, "Chocolate Biscoff Cake", v.Desserts.Label("chocolate_biscoff"))
	assert.Equal(t, "Lemon Cake", v.Desserts.Label("lemon"))
	assert.Equal(t, "Fruit Cake", v.Desserts.Label("fruit"))
	assert.Equal(t, "Berries and Cream", v.Toppings.Label("berries_cream"))
	assert.Equal(t, "None", v.Toppings.Label("none"))
}

func TestTable_UnknownCodePassesThrough(t *testing.T) {
	v := Default()

	assert.Equal(t, "tiramisu", v.Desserts.Label("tiramisu"))
	assert.False(t, v.Desserts.Valid("tiramisu"))

	_, ok := v.Desserts.Code("Tiramisu")
	assert.False(t, ok)
}

func TestTable_ValidIsPerTable(t *testing.T) {
	v := Default()

	assert.True(t, v.Desserts.Valid("lemon"))
	assert.False(t, v.Toppings.Valid("lemon"))
	assert.True(t, v.Toppings.Valid("none"))
	assert.False(t, v.Desserts.Valid(""))
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty desserts", "desserts: []\ntoppings:\n  - {code: none, label: None}\n"},
		{"missing label", "desserts:\n  - {code: lemon}\ntoppings:\n  - {code: none, label: None}\n"},
		{"duplicate code", "desserts:\n  - {code: lemon, label: Lemon}\n  - {code: lemon, label: Lemon Two}\ntoppings:\n  - {code: none, label: None}\n"},
		{"duplicate label", "desserts:\n  - {code: a, label: Cake}\n  - {code: b, label: Cake}\ntoppings:\n  - {code: none, label: None}\n"},
		{"not yaml", "desserts: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad_OverridesLabels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.yaml")
	doc := "desserts:\n  - {code: lemon, label: Lemon & Elderflower Cake}\ntoppings:\n  - {code: none, label: No topping}\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	v, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Lemon & Elderflower Cake", v.Desserts.Label("lemon"))
	assert.Equal(t, "No topping", v.Toppings.Label("none"))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestTable_Resolve(t *testing.T) {
	v := Default()
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"lemon", "lemon", true},
		{"Lemon Cake", "lemon", true},
		{"lemon cake", "lemon cake", false},
		{"tiramisu", "tiramisu", false},
	}

	for _, tt := range tests {
		got, ok := v.Desserts.Resolve(tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
	}
}
