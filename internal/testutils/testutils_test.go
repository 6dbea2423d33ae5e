package testutils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvakame/foodexpress/internal/testutils"
)

func TestFindOptionString(t *testing.T) {
	source := heredoc.Doc(`
		# option:user: user2
		# option:variables: vars.json
		{ myCart { total } }
	`)

	assert.Equal(t, "user2", testutils.FindOptionString(t, "user", source))
	assert.Equal(t, "vars.json", testutils.FindOptionString(t, "variables", source))
	assert.Equal(t, "", testutils.FindOptionString(t, "missing", source))
}

func TestCheckGoldenFile_CreatesMissingFile(t *testing.T) {
	expectFilePath := filepath.Join(t.TempDir(), "expected", "case.json")

	testutils.CheckGoldenFile(t, []byte(`{"ok":true}`), expectFilePath)

	b, err := os.ReadFile(expectFilePath)
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(b))

	testutils.CheckGoldenFile(t, []byte(`{"ok":true}`), expectFilePath)
}
