package suppression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestIsSuppressed(t *testing.T) {
	list := NewList([]string{"unsubscribed", " Bounced ", "COMPLAINED", ""}, zap.NewNop())

	assert.True(t, list.IsSuppressed("unsubscribed"))
	assert.True(t, list.IsSuppressed("bounced"))
	assert.True(t, list.IsSuppressed("  Complained"))
	assert.False(t, list.IsSuppressed("active"))
	assert.False(t, list.IsSuppressed(""))
}

func TestEmptyListSuppressesNothing(t *testing.T) {
	list := NewList(nil, zap.NewNop())

	assert.False(t, list.IsSuppressed("unsubscribed"))
	assert.False(t, list.IsSuppressed(""))
}
