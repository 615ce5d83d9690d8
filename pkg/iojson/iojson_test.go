package iojson

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestWriteWith(t *testing.T) {
	var out, errOut bytes.Buffer

	require.NoError(t, WriteWith(&out, &errOut, item{Name: "desk", Count: 2}))
	assert.Equal(t, "{\n  \"name\": \"desk\",\n  \"count\": 2\n}\n", out.String())
	assert.Empty(t, errOut.String())
}

func TestWriteWith_EncodeFailure(t *testing.T) {
	var out, errOut bytes.Buffer

	err := WriteWith(&out, &errOut, map[string]any{"ch": make(chan int)})
	require.Error(t, err)
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), `"json_error"`)
}

func TestWriteLine(t *testing.T) {
	var out bytes.Buffer

	require.NoError(t, WriteLine(&out, item{Name: "a", Count: 1}))
	require.NoError(t, WriteLine(&out, item{Name: "b", Count: 2}))
	assert.Equal(t, "{\"name\":\"a\",\"count\":1}\n{\"name\":\"b\",\"count\":2}\n", out.String())
}

func TestFileReader(t *testing.T) {
	t.Run("stdin", func(t *testing.T) {
		fr := FileReader[item]{Stdin: strings.NewReader(`{"name":"lamp","count":3}`)}
		got, err := fr.Read()
		require.NoError(t, err)
		assert.Equal(t, item{Name: "lamp", Count: 3}, got)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "in.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"name":"chair"}`), 0o644))

		fr := FileReader[item]{fileFlagValue: path}
		got, err := fr.Read()
		require.NoError(t, err)
		assert.Equal(t, "chair", got.Name)
	})

	t.Run("unknown field", func(t *testing.T) {
		fr := FileReader[item]{Stdin: strings.NewReader(`{"nmae":"typo"}`)}
		_, err := fr.Read()
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		fr := FileReader[item]{fileFlagValue: filepath.Join(t.TempDir(), "nope.json")}
		_, err := fr.Read()
		assert.Error(t, err)
	})
}
