package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalize(t *testing.T) {
	Init()

	data := map[string]interface{}{"Resource": "product", "ID": "p-1"}
	assert.Equal(t, "product p-1 not found", Localize("not_found", data))
	assert.Equal(t, "product p-1 tidak ditemukan", Localize("not_found", data, "id"))
	assert.Equal(t, "product p-1 not found", Localize("not_found", data, "fr-FR"))
	assert.Equal(t, "no_such_message", Localize("no_such_message", nil))
}
