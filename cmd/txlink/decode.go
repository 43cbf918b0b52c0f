package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/weisyn/txlinker/pkg/chains"
	"github.com/weisyn/txlinker/pkg/txlink"
)

// descriptionView 解码结果，附带链名与实际使用的 RPC
type descriptionView struct {
	txlink.Description
	ChainName      string   `json:"chainName,omitempty"`
	ResolvedRPCURL string   `json:"resolvedRpcUrl"`
	Problems       []string `json:"problems,omitempty"`
}

func (v descriptionView) TableData() [][]string {
	target := v.FunctionName
	if v.IsValueTransfer() {
		target = "(value transfer)"
	}
	rows := [][]string{
		{"Field", "Value"},
		{"contract", v.ContractAddress},
		{"chain", fmt.Sprintf("%d %s", v.ChainID, v.ChainName)},
		{"function", target},
		{"rpc", v.ResolvedRPCURL},
	}
	keys := make([]string, 0, len(v.FunctionInputs))
	for k := range v.FunctionInputs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		rows = append(rows, []string{"input." + k, v.FunctionInputs[k]})
	}
	if v.ABI != "" {
		rows = append(rows, []string{"abi", fmt.Sprintf("%d bytes", len(v.ABI))})
	}
	for _, p := range v.Problems {
		rows = append(rows, []string{"problem", p})
	}
	return rows
}

func (c *cliContext) decodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <token|link>",
		Short: "解析交易链接",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := decodeArg(args[0])
			if err != nil {
				return err
			}
			return c.formatter.Print(c.describe(d))
		},
	}
}

func decodeArg(arg string) (txlink.Description, error) {
	token, err := txlink.TokenFromLink(arg)
	if err != nil {
		return txlink.Description{}, err
	}
	return txlink.Decode(token)
}

func (c *cliContext) describe(d txlink.Description) descriptionView {
	registry := c.provider.GetChains()
	v := descriptionView{Description: d, ResolvedRPCURL: d.RPCURL}
	if chain, ok := registry.Lookup(d.ChainID); ok {
		v.ChainName = chain.Name
	}
	if v.ResolvedRPCURL == "" {
		v.ResolvedRPCURL = registry.ResolveRPCURL(d.ChainID)
	}
	var verr *txlink.ValidationError
	if err := d.Validate(); asValidationError(err, &verr) {
		v.Problems = verr.Problems
	}
	return v
}

func asValidationError(err error, target **txlink.ValidationError) bool {
	return err != nil && errors.As(err, target)
}

// registryRows 链注册表表格
type registryRows []chains.Chain

func (r registryRows) TableData() [][]string {
	rows := [][]string{{"ID", "Name", "Symbol", "RPC", "Testnet"}}
	for _, c := range r {
		testnet := ""
		if c.Testnet {
			testnet = "yes"
		}
		rows = append(rows, []string{fmt.Sprintf("%d", c.ID), c.Name, c.NativeSymbol, c.RPCURL, testnet})
	}
	return rows
}

func (c *cliContext) chainsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chains",
		Short: "列出支持的链及默认 RPC",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.formatter.Print(registryRows(c.provider.GetChains().All()))
		},
	}
}
