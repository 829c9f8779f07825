package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesSentinel(t *testing.T) {
	err := Wrapf(ErrUnsupported, "resolving %s", "reference type")

	assert.True(t, Is(err, ErrUnsupported))
	assert.True(t, IsUnsupported(err))
	assert.False(t, IsUnnamedType(err))
	assert.Contains(t, err.Error(), "resolving reference type")
	assert.Contains(t, err.Error(), "unsupported construct")
}

func TestIsHelpersNil(t *testing.T) {
	assert.False(t, IsUnsupported(nil))
	assert.False(t, IsUnnamedType(nil))
}

func TestWithDetail(t *testing.T) {
	err := WithDetail(Wrap(ErrUnnamedType, "class"), "struct at a.h:3")

	details := GetAllDetails(err)
	require.Len(t, details, 1)
	assert.Equal(t, "struct at a.h:3", details[0])
	assert.True(t, IsUnnamedType(err))
}

func TestWithHint(t *testing.T) {
	err := WithHint(New("castxml not found"), "install castxml or use --frontend c")

	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, "install castxml or use --frontend c", hints[0])
}
