package wallet

import (
	"context"
	"encoding/hex"
	"errors"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weisyn/txlinker/pkg/txlink"
)

const (
	testUser     = "0x9858effd232b4033e47d90003d41ec34ecaeda94"
	testContract = "0xAbC0000000000000000000000000000000000001"
	testTo       = "0xDef0000000000000000000000000000000000002"
)

func scenarioA() txlink.Description {
	return txlink.Description{
		ContractAddress: testContract,
		ChainID:         137,
		FunctionName:    "transfer",
		FunctionInputs:  map[string]string{"to": testTo, "amount": "1000"},
	}
}

func setup(t *testing.T, capability *fakeCapability, chain *fakeChain) (*Adapter, *Handle, *Session) {
	t.Helper()
	a := NewAdapter(capability, WithDialer(chain.dialer()), WithClientID("client-1"))
	h, err := a.Initialize(context.Background(), 137, "https://polygon-rpc.com")
	require.NoError(t, err)
	s, err := a.Connect(context.Background(), h)
	require.NoError(t, err)
	return a, h, s
}

func TestInitializeAndConnect(t *testing.T) {
	capability := &fakeCapability{address: testUser}
	chain := newFakeChain(137)
	_, h, s := setup(t, capability, chain)

	assert.Equal(t, uint64(137), h.ChainID)
	assert.Equal(t, Config{ClientID: "client-1", ChainID: 137, RPCURL: "https://polygon-rpc.com"}, capability.cfg)
	assert.Equal(t, "0x9858EfFD232B4033E47d90003D41EC34EcaEda94", s.Address)
	assert.Equal(t, uint64(137), s.ChainID)
}

func TestInitializeErrors(t *testing.T) {
	t.Run("chain mismatch", func(t *testing.T) {
		chain := newFakeChain(1)
		a := NewAdapter(&fakeCapability{}, WithDialer(chain.dialer()))
		_, err := a.Initialize(context.Background(), 137, "x")
		var ie *InitError
		require.True(t, errors.As(err, &ie))
		assert.ErrorIs(t, err, ErrChainMismatch)
		assert.True(t, chain.closed)
	})

	t.Run("dial failure", func(t *testing.T) {
		a := NewAdapter(&fakeCapability{}, WithDialer(func(context.Context, string) (ChainReader, error) {
			return nil, errors.New("no route")
		}))
		_, err := a.Initialize(context.Background(), 137, "x")
		var ie *InitError
		require.True(t, errors.As(err, &ie))
		assert.Contains(t, err.Error(), "no route")
	})

	t.Run("capability failure", func(t *testing.T) {
		a := NewAdapter(&fakeCapability{initErr: errors.New("sdk not loaded")}, WithDialer(newFakeChain(137).dialer()))
		_, err := a.Initialize(context.Background(), 137, "x")
		var ie *InitError
		require.True(t, errors.As(err, &ie))
		assert.Equal(t, "capability", ie.Op)
	})

	t.Run("no capability", func(t *testing.T) {
		_, err := NewAdapter(nil).Initialize(context.Background(), 137, "x")
		var ie *InitError
		assert.True(t, errors.As(err, &ie))
	})

	t.Run("timeout", func(t *testing.T) {
		block := make(chan struct{})
		defer close(block)
		a := NewAdapter(&fakeCapability{initBlock: block},
			WithDialer(newFakeChain(137).dialer()),
			WithTimeouts(Timeouts{Init: 20 * time.Millisecond}))
		_, err := a.Initialize(context.Background(), 137, "x")
		var ie *InitError
		require.True(t, errors.As(err, &ie))
		assert.ErrorIs(t, err, ErrTimeout)
	})
}

func TestConnectErrors(t *testing.T) {
	chain := newFakeChain(137)

	a := NewAdapter(&fakeCapability{connectErr: errUserCancelled}, WithDialer(chain.dialer()))
	h, err := a.Initialize(context.Background(), 137, "x")
	require.NoError(t, err)
	_, err = a.Connect(context.Background(), h)
	var ce *ConnectError
	require.True(t, errors.As(err, &ce))
	assert.ErrorIs(t, err, errUserCancelled)

	block := make(chan struct{})
	defer close(block)
	a = NewAdapter(&fakeCapability{address: testUser, block: block}, WithDialer(chain.dialer()),
		WithTimeouts(Timeouts{Connect: 20 * time.Millisecond}))
	h, err = a.Initialize(context.Background(), 137, "x")
	require.NoError(t, err)
	_, err = a.Connect(context.Background(), h)
	require.True(t, errors.As(err, &ce))
	assert.ErrorIs(t, err, ErrTimeout)

	a = NewAdapter(&fakeCapability{address: "nope"}, WithDialer(chain.dialer()))
	h, err = a.Initialize(context.Background(), 137, "x")
	require.NoError(t, err)
	_, err = a.Connect(context.Background(), h)
	assert.True(t, errors.As(err, &ce))

	_, err = a.Connect(context.Background(), nil)
	assert.True(t, errors.As(err, &ce))
}

func TestSubmitScenarioA(t *testing.T) {
	capability := &fakeCapability{address: testUser}
	chain := newFakeChain(137)
	a, h, s := setup(t, capability, chain)

	receipt, err := a.Submit(context.Background(), h, s, scenarioA())
	require.NoError(t, err)
	assert.Equal(t, "0xabc", receipt.Hash)
	assert.Equal(t, "31", receipt.BlockNumber)

	require.Equal(t, 1, capability.sentCount())
	tx := capability.sent[0]
	assert.Equal(t, uint8(2), tx.Type)
	assert.Equal(t, "0x9858EfFD232B4033E47d90003D41EC34EcaEda94", tx.From)
	assert.Equal(t, strings.ToLower(testContract), strings.ToLower(tx.To))
	assert.Equal(t, "0", tx.Value)
	assert.Equal(t, "7", tx.Nonce)
	assert.Equal(t, "60000", tx.Gas) // 50000 * 1.2
	assert.Equal(t, "2000000000", tx.MaxPriorityFeePerGas)
	assert.Equal(t, "62000000000", tx.MaxFeePerGas) // 2*30 gwei + 2 gwei
	assert.Equal(t, "137", tx.ChainID)
	assert.Contains(t, capability.purpose, "transfer")

	// transfer(address,uint256) 选择器 + 两个 32 字节参数
	data, err := hex.DecodeString(strings.TrimPrefix(tx.Data, "0x"))
	require.NoError(t, err)
	require.Len(t, data, 4+64)
	assert.Equal(t, "a9059cbb", hex.EncodeToString(data[:4]))
	assert.Equal(t, strings.ToLower(strings.TrimPrefix(testTo, "0x")), hex.EncodeToString(data[16:36]))
	assert.Equal(t, big.NewInt(1000), new(big.Int).SetBytes(data[36:68]))
}

func TestSubmitSuppliedFees(t *testing.T) {
	tests := []struct {
		name    string
		inputs  map[string]string
		wantErr bool
		check   func(t *testing.T, tx *TxObject)
	}{
		{
			name:   "accepted",
			inputs: map[string]string{"gas": "80000", "maxgas": "40000000000", "maxpriogas": "1500000000"},
			check: func(t *testing.T, tx *TxObject) {
				assert.Equal(t, "80000", tx.Gas)
				assert.Equal(t, "40000000000", tx.MaxFeePerGas)
				assert.Equal(t, "1500000000", tx.MaxPriorityFeePerGas)
			},
		},
		{name: "gas below estimate", inputs: map[string]string{"gas": "21000"}, wantErr: true},
		{name: "tip above max fee", inputs: map[string]string{"maxgas": "31000000000", "maxpriogas": "32000000000"}, wantErr: true},
		{name: "max fee below base fee", inputs: map[string]string{"maxgas": "1000", "maxpriogas": "1"}, wantErr: true},
		{name: "garbage gas", inputs: map[string]string{"gas": "lots"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			capability := &fakeCapability{address: testUser}
			a, h, s := setup(t, capability, newFakeChain(137))

			d := scenarioA()
			for k, v := range tt.inputs {
				d.FunctionInputs[k] = v
			}
			_, err := a.Submit(context.Background(), h, s, d)
			if tt.wantErr {
				var se *SubmitError
				require.True(t, errors.As(err, &se), "%v", err)
				assert.ErrorIs(t, err, ErrFeeMismatch)
				assert.Equal(t, 0, capability.sentCount())
				return
			}
			require.NoError(t, err)
			tt.check(t, capability.sent[0])
		})
	}
}

func TestSubmitValueTransfer(t *testing.T) {
	capability := &fakeCapability{address: testUser}
	chain := newFakeChain(137)
	a, h, s := setup(t, capability, chain)

	d := txlink.Description{ContractAddress: testTo, ChainID: 137, FunctionInputs: map[string]string{"value": "0x2386f26fc10000"}}
	_, err := a.Submit(context.Background(), h, s, d)
	require.NoError(t, err)

	tx := capability.sent[0]
	assert.Equal(t, "10000000000000000", tx.Value)
	assert.Equal(t, "0x", tx.Data)
	assert.Equal(t, "10000000000000000", chain.lastMsg.Value.String())
}

func TestSubmitErrors(t *testing.T) {
	capability := &fakeCapability{address: testUser, sendErr: errors.New("insufficient funds for gas")}
	a, h, s := setup(t, capability, newFakeChain(137))

	_, err := a.Submit(context.Background(), h, s, scenarioA())
	var se *SubmitError
	require.True(t, errors.As(err, &se))
	assert.Contains(t, err.Error(), "insufficient funds for gas")

	_, err = a.Submit(context.Background(), h, nil, scenarioA())
	assert.ErrorIs(t, err, ErrNotConnected)

	other := scenarioA()
	other.ChainID = 1
	_, err = a.Submit(context.Background(), h, s, other)
	assert.ErrorIs(t, err, ErrChainMismatch)

	invalid := scenarioA()
	invalid.FunctionInputs = map[string]string{"to": testTo}
	_, err = a.Submit(context.Background(), h, s, invalid)
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "validate", se.Op)

	payValue := scenarioA()
	payValue.FunctionInputs["value"] = "5"
	_, err = a.Submit(context.Background(), h, s, payValue)
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "encode call", se.Op)
}

func TestSubmitTimeout(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	capability := &fakeCapability{address: testUser}
	chain := newFakeChain(137)
	a, h, s := setup(t, capability, chain)

	capability.block = block
	a.timeouts.Submit = 20 * time.Millisecond
	_, err := a.Submit(context.Background(), h, s, scenarioA())
	var se *SubmitError
	require.True(t, errors.As(err, &se))
	assert.ErrorIs(t, err, ErrTimeout)
}
