package wechat

import (
	"crypto/tls"
	"fmt"
	"os"

	"github.com/wechatpay-apiv3/wechatpay-go/utils"
)

// LoadClientCertificate 加载商户 API 证书与私钥，用于企业付款的双向 TLS
func LoadClientCertificate(certPath, keyPath string) (tls.Certificate, error) {
	for _, p := range []string{certPath, keyPath} {
		if p == "" {
			return tls.Certificate{}, ErrCertificateMissing
		}
		if _, err := os.Stat(p); err != nil {
			return tls.Certificate{}, fmt.Errorf("%w: %s", ErrCertificateMissing, p)
		}
	}

	cert, err := utils.LoadCertificateWithPath(certPath)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("load merchant certificate error: %w", err)
	}
	key, err := utils.LoadPrivateKeyWithPath(keyPath)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("load merchant private key error: %w", err)
	}

	return tls.Certificate{
		Certificate: [][]byte{cert.Raw},
		PrivateKey:  key,
		Leaf:        cert,
	}, nil
}
