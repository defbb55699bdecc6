package fileStore

import (
	"io"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SaveOpenRemove(t *testing.T) {
	s, err := New(afero.NewMemMapFs(), "uploads")
	require.NoError(t, err)

	path, err := s.Save("abc_report.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "uploads/abc_report.pdf", path)
	assert.True(t, s.Exists("abc_report.pdf"))

	rc, err := s.Open("abc_report.pdf")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "%PDF-1.4", string(data))

	require.NoError(t, s.Remove("abc_report.pdf"))
	assert.False(t, s.Exists("abc_report.pdf"))

	// second remove is a no-op
	assert.NoError(t, s.Remove("abc_report.pdf"))
}

func TestStore_RejectsTraversal(t *testing.T) {
	s := NewMemStore()

	for _, name := range []string{"../etc/passwd", "a/b.png", "", "..", `..\x`} {
		_, err := s.Save(name, []byte("x"))
		assert.ErrorIs(t, err, ErrInvalidName, name)
		assert.False(t, s.Exists(name))
	}
}

func TestSafeName(t *testing.T) {
	assert.Equal(t, "report.pdf", SafeName("report.pdf"))
	assert.Equal(t, "report.pdf", SafeName("../../report.pdf"))
	assert.Equal(t, "report.pdf", SafeName(`C:\Users\me\report.pdf`))
}
