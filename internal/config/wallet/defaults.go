package wallet

import "time"

const (
	defaultClientID       = "txlinker"
	defaultDerivationPath = "m/44'/60'/0'/0/0"
	defaultInitTimeout    = 15 * time.Second
	defaultConnectTimeout = 2 * time.Minute // 连接需要用户确认
	defaultSubmitTimeout  = 2 * time.Minute
	defaultGasMultiplier  = 1.2
)
