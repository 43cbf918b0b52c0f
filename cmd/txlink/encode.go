package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/weisyn/txlinker/pkg/txlink"
)

// defaultOrigin 分享链接的默认站点
const defaultOrigin = "https://txlink.app"

type encodeOptions struct {
	contract string
	chainID  uint64
	function string
	inputs   []string
	abiFile  string
	rpcURL   string
	origin   string
	strict   bool
}

type encodeResult struct {
	Token    string   `json:"token"`
	Link     string   `json:"link"`
	Problems []string `json:"problems,omitempty"`
}

func (r encodeResult) String() string { return r.Link }

func (r encodeResult) TableData() [][]string {
	return [][]string{{"Field", "Value"}, {"token", r.Token}, {"link", r.Link}}
}

func (c *cliContext) encodeCmd() *cobra.Command {
	var o encodeOptions
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "生成交易链接",
		Long: `根据合约地址、链和函数参数生成可分享的交易链接

保留输入键: gas, maxgas, maxpriogas (费用参数), value (随交易转账的 wei 数量)
不指定 --function 时生成原生币转账链接。`,
		Example: `  txlink encode --contract 0xA0b8...eB48 --chain 137 --function transfer \
      --input to=0x000000000000000000000000000000000000dEaD --input amount=1000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEncode(o)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.contract, "contract", "", "合约（或收款）地址")
	f.Uint64Var(&o.chainID, "chain", 0, "链 ID")
	f.StringVar(&o.function, "function", "", "函数名")
	f.StringArrayVar(&o.inputs, "input", nil, "函数参数 name=value，可重复")
	f.StringVar(&o.abiFile, "abi-file", "", "合约 ABI JSON 文件")
	f.StringVar(&o.rpcURL, "rpc", "", "指定 RPC 端点（覆盖链默认值）")
	f.StringVar(&o.origin, "origin", defaultOrigin, "链接站点")
	f.BoolVar(&o.strict, "strict", false, "描述校验失败时不生成链接")
	_ = cmd.MarkFlagRequired("contract")
	_ = cmd.MarkFlagRequired("chain")
	return cmd
}

func (c *cliContext) runEncode(o encodeOptions) error {
	inputs, err := parseInputs(o.inputs)
	if err != nil {
		return err
	}
	d := txlink.Description{
		ContractAddress: o.contract,
		ChainID:         o.chainID,
		FunctionName:    o.function,
		FunctionInputs:  inputs,
		RPCURL:          o.rpcURL,
	}
	if o.abiFile != "" {
		data, err := os.ReadFile(o.abiFile)
		if err != nil {
			return fmt.Errorf("读取 ABI 文件失败: %w", err)
		}
		d.ABI = strings.TrimSpace(string(data))
	}

	var problems []string
	if err := d.Validate(); err != nil {
		var verr *txlink.ValidationError
		if !asValidationError(err, &verr) {
			return err
		}
		if o.strict {
			return err
		}
		problems = verr.Problems
		for _, p := range problems {
			c.formatter.PrintWarning(p)
		}
	}

	token, err := txlink.Encode(d)
	if err != nil {
		return err
	}
	link, err := txlink.ShareLink(o.origin, d)
	if err != nil {
		return err
	}
	c.logger.Debugf("encoded description chainId=%d contract=%s", d.ChainID, d.ContractAddress)
	return c.formatter.Print(encodeResult{Token: string(token), Link: link, Problems: problems})
}

// parseInputs name=value 列表，值中可以包含 '='
func parseInputs(pairs []string) (map[string]string, error) {
	inputs := make(map[string]string, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --input %q, expected name=value", p)
		}
		if _, dup := inputs[name]; dup {
			return nil, fmt.Errorf("duplicate --input %q", name)
		}
		inputs[name] = value
	}
	return inputs, nil
}
