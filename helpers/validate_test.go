package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	type txn struct {
		RefID string `validate:"required"`
	}
	type req struct {
		Key  string `validate:"required"`
		Txns []txn  `validate:"required,min=1,dive"`
	}

	_, ok := Validate(req{Key: "k", Txns: []txn{{RefID: "r1"}}})
	assert.True(t, ok)

	field, ok := Validate(req{Txns: []txn{{RefID: "r1"}}})
	assert.False(t, ok)
	assert.Contains(t, field, "Key")

	// Missing fields inside array elements are caught too.
	field, ok = Validate(req{Key: "k", Txns: []txn{{}}})
	assert.False(t, ok)
	assert.Contains(t, field, "RefID")
}
