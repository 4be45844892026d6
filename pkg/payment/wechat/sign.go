package wechat

import (
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Params 微信支付 v2 接口的扁平参数表
type Params map[string]string

// NewParams 将任意标量值转为字符串参数，nil 值被跳过
func NewParams(values map[string]interface{}) Params {
	p := make(Params, len(values))
	for k, v := range values {
		if v == nil {
			continue
		}
		p[k] = cast.ToString(v)
	}
	return p
}

// Set 设置字符串参数
func (p Params) Set(key, value string) Params {
	p[key] = value
	return p
}

// SetInt 设置整型参数，如 total_fee
func (p Params) SetInt(key string, value int64) Params {
	p[key] = strconv.FormatInt(value, 10)
	return p
}

// Get 获取参数，不存在时返回空串
func (p Params) Get(key string) string {
	return p[key]
}

// Without 返回去掉指定键后的副本
func (p Params) Without(keys ...string) Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// sortedKeys 按字节序排序，跳过 sign 与空值
func (p Params) sortedKeys() []string {
	keys := make([]string, 0, len(p))
	for k, v := range p {
		if k == FieldSign || v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (p Params) joined() string {
	var sb strings.Builder
	for i, k := range p.sortedKeys() {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(p[k])
	}
	return sb.String()
}

// Canonicalize 生成待签名字符串：key1=v1&key2=v2...&key=secret
func Canonicalize(params Params, secret string) string {
	s := params.joined()
	if s == "" {
		return "key=" + secret
	}
	return s + "&key=" + secret
}

// Sign 计算 MD5 签名，返回 32 位大写十六进制
func Sign(params Params, secret string) string {
	sum := md5.Sum([]byte(Canonicalize(params, secret)))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// Verify 校验参数中的 sign 字段
func Verify(params Params, secret string) bool {
	received := params[FieldSign]
	if received == "" {
		return false
	}
	return strings.EqualFold(received, Sign(params, secret))
}

// SignSHA1 计算 JS-SDK 签名：按键排序拼接后 SHA1，不追加密钥，返回小写十六进制
func SignSHA1(params Params) string {
	sum := sha1.Sum([]byte(params.joined()))
	return hex.EncodeToString(sum[:])
}

// VerifyServerSignature 校验微信服务器配置时携带的 signature
func VerifyServerSignature(token, timestamp, nonce, signature string) bool {
	if token == "" || signature == "" {
		return false
	}
	items := []string{token, timestamp, nonce}
	sort.Strings(items)
	sum := sha1.Sum([]byte(strings.Join(items, "")))
	return hex.EncodeToString(sum[:]) == signature
}
