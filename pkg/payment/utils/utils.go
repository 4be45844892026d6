package utils

import (
	"crypto/rand"
	"math/big"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

const (
	OrderNoPrefix = "PAY"
	PayoutPrefix  = "TRF"

	nonceChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	nonceLength = 32
)

var (
	node     *snowflake.Node
	nodeOnce sync.Once
	nodeID   int64 = 1
)

// SetNodeID 设置雪花算法节点号，需在首次生成订单号前调用
func SetNodeID(id int64) {
	nodeID = id
}

func getNode() *snowflake.Node {
	nodeOnce.Do(func() {
		n, err := snowflake.NewNode(nodeID)
		if err != nil {
			// 节点号越界时退回 1
			n, _ = snowflake.NewNode(1)
		}
		node = n
	})
	return node
}

// GenerateOrderNo 生成商户订单号 PAY + 雪花 ID
func GenerateOrderNo() string {
	return OrderNoPrefix + getNode().Generate().String()
}

// GeneratePayoutNo 生成企业付款单号
func GeneratePayoutNo() string {
	return PayoutPrefix + getNode().Generate().String()
}

// GenerateNonceStr 生成 32 位随机字符串
func GenerateNonceStr() string {
	b := make([]byte, nonceLength)
	max := big.NewInt(int64(len(nonceChars)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			b[i] = nonceChars[i%len(nonceChars)]
			continue
		}
		b[i] = nonceChars[n.Int64()]
	}
	return string(b)
}

// YuanToFen 元转分，四舍五入
func YuanToFen(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// FenToYuan 分转元
func FenToYuan(fen int64) decimal.Decimal {
	return decimal.New(fen, -2)
}
