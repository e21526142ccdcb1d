package sastrawi

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/docnorm/pkg/docnorm/internalerr"
)

func TestStem(t *testing.T) {
	st := New(nil)

	cases := map[string]string{
		"saya":          "saya",
		"makan":         "makan",
		"Makan":         "makan",
		"makanan":       "makan",
		"memakan":       "makan",
		"dimakan":       "makan",
		"bermain":       "main",
		"menulis":       "tulis",
		"menyapu":       "sapu",
		"mengambil":     "ambil",
		"membaca":       "baca",
		"memakai":       "pakai",
		"bukunya":       "buku",
		"rumahku":       "rumah",
		"pekerjaan":     "kerja",
		"pelajaran":     "ajar",
		"belajar":       "ajar",
		"diajarkan":     "ajar",
		"kebersihan":    "bersih",
		"mempermainkan": "main",
		"anak-anak":     "anak",
		"apapun":        "apa",
	}
	for in, want := range cases {
		assert.Equal(t, want, st.Stem(in), "stem(%q)", in)
	}
}

func TestStemLeavesUnknownAndPunctuation(t *testing.T) {
	st := New(nil)

	assert.Equal(t, ".", st.Stem("."))
	assert.Equal(t, "2024", st.Stem("2024"))
	assert.Equal(t, "zzzqx", st.Stem("ZZZQX"))
	assert.Equal(t, "", st.Stem("  "))
	assert.Equal(t, "anak-buku", st.Stem("anak-buku"))
}

func TestStemCustomDictionary(t *testing.T) {
	st := New(NewDictionary([]string{"Gowes"}))

	assert.Equal(t, "gowes", st.Stem("bergowes"))
	assert.Equal(t, "makanan", st.Stem("makanan"))
}

func TestLoadDictionary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roots.txt")
	require.NoError(t, os.WriteFile(path, []byte("# comment\nmasak\n\n  tidur  \n"), 0o644))

	d, err := LoadDictionary(path)
	require.NoError(t, err)
	assert.True(t, d.Has("masak"))
	assert.True(t, d.Has("tidur"))
	assert.Len(t, d, 2)

	d.Add("Lari")
	assert.True(t, d.Has("lari"))

	_, err = LoadDictionary(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, internalerr.ErrNotFound)
}

func TestDefaultDictionary(t *testing.T) {
	d := DefaultDictionary()
	assert.True(t, d.Has("makan"))
	assert.False(t, d.Has("# indonesian root words (kata dasar). one per line; '#' starts a comment."))
}
