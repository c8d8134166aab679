package timezone

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNowIsPinned(t *testing.T) {
	require.Equal(t, "America/New_York", Location.String())
	require.Equal(t, Location, Now().Location())
}
