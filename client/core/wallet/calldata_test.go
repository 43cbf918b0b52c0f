package wallet

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weisyn/txlinker/pkg/txlink"
)

func mustType(t *testing.T, s string) abi.Type {
	t.Helper()
	typ, err := abi.NewType(s, "", nil)
	require.NoError(t, err)
	return typ
}

func TestConvertArg(t *testing.T) {
	tests := []struct {
		typ     string
		raw     string
		want    interface{}
		wantErr bool
	}{
		{"uint256", "1000", big.NewInt(1000), false},
		{"uint256", "0xff", big.NewInt(255), false},
		{"uint256", "-1", nil, true},
		{"uint8", "255", uint8(255), false},
		{"uint8", "256", nil, true},
		{"int64", "-42", int64(-42), false},
		{"int8", "-128", int8(-128), false},
		{"int8", "128", nil, true},
		{"int256", "-5", big.NewInt(-5), false},
		{"uint32", "010", uint32(10), false},
		{"uint32", "1_000", nil, true},
		{"bool", "true", true, false},
		{"bool", "yes", nil, true},
		{"string", "hello", "hello", false},
		{"address", "0xDef0000000000000000000000000000000000002", common.HexToAddress("0xDef0000000000000000000000000000000000002"), false},
		{"address", "0x12", nil, true},
		{"bytes", "0x0102", []byte{1, 2}, false},
		{"bytes", "0102", nil, true},
		{"bytes4", "0xa9059cbb", [4]byte{0xa9, 0x05, 0x9c, 0xbb}, false},
		{"bytes2", "0x010203", nil, true},
		{"uint8[]", `["1", 2, "0x3"]`, []uint8{1, 2, 3}, false},
		{"address[2]", `["0x0000000000000000000000000000000000000001","0x0000000000000000000000000000000000000002"]`,
			[2]common.Address{common.HexToAddress("0x1"), common.HexToAddress("0x2")}, false},
		{"address[2]", `["0x0000000000000000000000000000000000000001"]`, nil, true},
		{"uint8[]", `not json`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.typ+"="+tt.raw, func(t *testing.T) {
			got, err := convertArg(mustType(t, tt.typ), tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildCallWithCustomABI(t *testing.T) {
	const customABI = `[{"type":"function","name":"setValues","stateMutability":"payable","inputs":[{"name":"ids","type":"uint256[]"},{"name":"flag","type":"bool"},{"name":"label","type":"string"}],"outputs":[]}]`

	d := txlink.Description{
		ContractAddress: "0x2222222222222222222222222222222222222222",
		ChainID:         1,
		FunctionName:    "setValues",
		ABI:             customABI,
		FunctionInputs:  map[string]string{"ids": `["1","2"]`, "flag": "true", "label": "x", "value": "5", "gas": "1"},
	}
	c, err := buildCall(d)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(5), c.Value)

	parsed, err := abi.JSON(strings.NewReader(customABI))
	require.NoError(t, err)
	want, err := parsed.Pack("setValues", []*big.Int{big.NewInt(1), big.NewInt(2)}, true, "x")
	require.NoError(t, err)
	assert.Equal(t, want, c.Data)
}

func TestBuildCallDeclaredValueParameter(t *testing.T) {
	const depositABI = `[{"type":"function","name":"deposit","stateMutability":"nonpayable","inputs":[{"name":"value","type":"uint256"}],"outputs":[]}]`
	d := txlink.Description{
		ContractAddress: "0x2222222222222222222222222222222222222222",
		ChainID:         1,
		FunctionName:    "deposit",
		ABI:             depositABI,
		FunctionInputs:  map[string]string{"value": "9"},
	}
	c, err := buildCall(d)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Value.Sign())
	assert.Len(t, c.Data, 4+32)
}
