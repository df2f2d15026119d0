package cardgen

import (
	"crypto/hmac"
	"crypto/sha256"
)

// HashPANHMAC 以密钥（pepper）计算 PAN 的 HMAC-SHA256，作为库内唯一键；库中不落明文 PAN。
func HashPANHMAC(pan string, key []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write([]byte(pan))
	return h.Sum(nil)
}
