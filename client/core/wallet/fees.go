package wallet

import (
	"context"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/weisyn/txlinker/pkg/txlink"
)

// feePlan 最终使用的 gas 与费用
type feePlan struct {
	Gas                  uint64
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
}

// planFees 读取链上估算并与链接中提供的参数核对
//
// 未提供的参数使用链上建议值：gas = 估算 × multiplier，tip = eth_maxPriorityFeePerGas，
// maxFee = 2 × baseFee + tip。提供的参数不满足链上约束时返回 ErrFeeMismatch。
func planFees(ctx context.Context, chain ChainReader, from common.Address, c *call, inputs map[string]string, multiplier float64) (*feePlan, error) {
	msg := ethereum.CallMsg{From: from, To: &c.To, Value: c.Value, Data: c.Data}
	estimate, err := chain.EstimateGas(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("estimate gas: %w", err)
	}

	header, err := chain.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("latest header: %w", err)
	}
	baseFee := new(big.Int)
	if header != nil && header.BaseFee != nil {
		baseFee.Set(header.BaseFee)
	}

	plan := &feePlan{}

	if raw, ok := inputs[txlink.InputGas]; ok {
		gas, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: gas %q is not an integer", ErrFeeMismatch, raw)
		}
		if gas < estimate {
			return nil, fmt.Errorf("%w: gas %d is below the estimate %d", ErrFeeMismatch, gas, estimate)
		}
		plan.Gas = gas
	} else {
		if multiplier < 1 {
			multiplier = 1
		}
		scaled := math.Ceil(float64(estimate) * multiplier)
		if scaled >= math.MaxUint64 {
			plan.Gas = estimate
		} else {
			plan.Gas = uint64(scaled)
		}
	}

	if raw, ok := inputs[txlink.InputMaxPriorityFee]; ok {
		tip, err := parseUint256(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: maxpriogas: %v", ErrFeeMismatch, err)
		}
		plan.MaxPriorityFeePerGas = tip
	} else {
		tip, err := chain.SuggestGasTipCap(ctx)
		if err != nil {
			return nil, fmt.Errorf("suggest tip: %w", err)
		}
		plan.MaxPriorityFeePerGas = tip
	}

	if raw, ok := inputs[txlink.InputMaxFee]; ok {
		maxFee, err := parseUint256(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: maxgas: %v", ErrFeeMismatch, err)
		}
		plan.MaxFeePerGas = maxFee
	} else {
		maxFee := new(big.Int).Mul(baseFee, big.NewInt(2))
		plan.MaxFeePerGas = maxFee.Add(maxFee, plan.MaxPriorityFeePerGas)
	}

	if plan.MaxPriorityFeePerGas.Cmp(plan.MaxFeePerGas) > 0 {
		return nil, fmt.Errorf("%w: priority fee %s exceeds max fee %s", ErrFeeMismatch, plan.MaxPriorityFeePerGas, plan.MaxFeePerGas)
	}
	if plan.MaxFeePerGas.Cmp(baseFee) < 0 {
		return nil, fmt.Errorf("%w: max fee %s is below the current base fee %s", ErrFeeMismatch, plan.MaxFeePerGas, baseFee)
	}
	return plan, nil
}
