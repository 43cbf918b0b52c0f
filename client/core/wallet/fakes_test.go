package wallet

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

type fakeChain struct {
	chainID  *big.Int
	nonce    uint64
	estimate uint64
	tip      *big.Int
	baseFee  *big.Int
	chainErr error

	mu      sync.Mutex
	lastMsg ethereum.CallMsg
	closed  bool
}

func newFakeChain(id int64) *fakeChain {
	return &fakeChain{
		chainID:  big.NewInt(id),
		nonce:    7,
		estimate: 50000,
		tip:      big.NewInt(2_000_000_000),
		baseFee:  big.NewInt(30_000_000_000),
	}
}

func (f *fakeChain) ChainID(ctx context.Context) (*big.Int, error) {
	if f.chainErr != nil {
		return nil, f.chainErr
	}
	return f.chainID, nil
}

func (f *fakeChain) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	return f.nonce, nil
}

func (f *fakeChain) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	f.mu.Lock()
	f.lastMsg = msg
	f.mu.Unlock()
	return f.estimate, nil
}

func (f *fakeChain) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	return f.tip, nil
}

func (f *fakeChain) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	return &types.Header{Number: big.NewInt(100), BaseFee: f.baseFee}, nil
}

func (f *fakeChain) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
}

func (f *fakeChain) dialer() Dialer {
	return func(ctx context.Context, rpcURL string) (ChainReader, error) {
		return f, nil
	}
}

// fakeCapability 可控的钱包能力
type fakeCapability struct {
	initErr    error
	initBlock  chan struct{}
	address    string
	connectErr error
	sendErr    error
	block      chan struct{} // 非 nil 时 Connect/SignAndSend 阻塞直到关闭

	mu      sync.Mutex
	cfg     Config
	sent    []*TxObject
	purpose string
}

func (f *fakeCapability) Init(ctx context.Context, cfg Config) (CapabilityHandle, error) {
	if f.initBlock != nil {
		<-f.initBlock
	}
	if f.initErr != nil {
		return nil, f.initErr
	}
	f.mu.Lock()
	f.cfg = cfg
	f.mu.Unlock()
	return f, nil
}

func (f *fakeCapability) Connect(ctx context.Context) (Account, error) {
	if f.block != nil {
		<-f.block
	}
	if f.connectErr != nil {
		return Account{}, f.connectErr
	}
	return Account{Address: f.address}, nil
}

func (f *fakeCapability) SignAndSend(ctx context.Context, tx *TxObject, purpose string) (*CapabilityReceipt, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	f.sent = append(f.sent, tx)
	f.purpose = purpose
	f.mu.Unlock()
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	return &CapabilityReceipt{TransactionHash: "0xabc", BlockNumber: "0x1f"}, nil
}

func (f *fakeCapability) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

var errUserCancelled = errors.New("user cancelled")
