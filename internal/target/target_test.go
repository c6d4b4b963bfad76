package target

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribeSelf(t *testing.T) {
	proc, err := Procfs{}.Describe(os.Getpid())
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), proc.PID)
	assert.NotEmpty(t, proc.Name)
}

func TestDescribeRejectsNonPositivePID(t *testing.T) {
	_, err := Procfs{}.Describe(0)
	assert.Error(t, err)
	_, err = Procfs{}.Describe(-5)
	assert.Error(t, err)
}
