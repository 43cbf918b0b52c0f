package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chainRows struct{}

func (chainRows) TableData() [][]string {
	return [][]string{
		{"ID", "Name"},
		{"1", "Ethereum Mainnet"},
		{"137", "Polygon Mainnet"},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat("table")
	require.NoError(t, err)
	assert.Equal(t, FormatTable, f)

	_, err = ParseFormat("yaml")
	assert.Error(t, err)
}

func TestPrint_JSON(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(FormatJSON, &buf)
	require.NoError(t, f.Print(map[string]interface{}{"chainId": 1}))
	assert.Equal(t, "{\"chainId\":1}\n", buf.String())

	buf.Reset()
	f = NewFormatter(FormatPretty, &buf)
	require.NoError(t, f.Print(map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}

func TestPrint_Table(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(FormatTable, &buf)
	require.NoError(t, f.Print(chainRows{}))
	out := buf.String()
	assert.Contains(t, out, "Polygon Mainnet")
	assert.Contains(t, out, "137")

	buf.Reset()
	require.NoError(t, f.Print(map[string]interface{}{"beta": 2, "alpha": "x"}))
	out = buf.String()
	assert.Contains(t, out, "Key")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("alpha")), bytes.Index(buf.Bytes(), []byte("beta")))
}

func TestPrint_Text(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(FormatText, &buf)
	require.NoError(t, f.Print(chainRows{}))
	assert.Equal(t, "1\tEthereum Mainnet\n137\tPolygon Mainnet\n", buf.String())
}

func TestMessagesGoToLogWriter(t *testing.T) {
	var data, logs bytes.Buffer
	f := NewFormatter(FormatJSON, &data)
	f.SetLogWriter(&logs)

	f.PrintInfo("connecting")
	f.PrintSuccess("done")
	assert.Empty(t, data.String())
	assert.Contains(t, logs.String(), "connecting")
	assert.Contains(t, logs.String(), "done")

	logs.Reset()
	f.SetSilent(true)
	f.PrintInfo("hidden")
	assert.Empty(t, logs.String())
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "-", FormatValue(nil))
	assert.Equal(t, "42", FormatValue(uint64(42)))
	assert.Equal(t, "66.67", FormatValue(66.666))
	assert.Equal(t, `["1","137"]`, FormatValue([]string{"1", "137"}))
}
