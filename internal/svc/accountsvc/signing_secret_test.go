package accountsvc_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/userapi/internal/svc/accountsvc"
)

func TestGetSecret_CreatesThenLoads(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "accountsvc.secret")

	created, err := accountsvc.GetSecret(path)
	require.NoError(t, err)
	assert.Len(t, created, 2*accountsvc.DefaultSecretSize)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := accountsvc.GetSecret(path)
	require.NoError(t, err)
	assert.Equal(t, created, loaded)
}

func TestDecodeSecret(t *testing.T) {
	t.Parallel()

	secret, err := accountsvc.DecodeSecret(strings.NewReader("  s3cret\n"))
	require.NoError(t, err)
	assert.Equal(t, []byte("s3cret"), secret)

	_, err = accountsvc.DecodeSecret(strings.NewReader(" \n"))
	require.ErrorIs(t, err, accountsvc.ErrEmptySecret)
}
