package auth

import (
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

var ErrBadSignature = errors.New("bad signature")

// 服务端拼接的待签名文本
const signPrefix = "Sign this message to authenticate with Guandan. Nonce: "

// personalHash 与 MetaMask personal_sign 完全一致的消息哈希
func personalHash(nonce string) []byte {
	msg := signPrefix + nonce
	prefixed := fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(msg), msg)
	return crypto.Keccak256Hash([]byte(prefixed)).Bytes()
}

// SignNonce returns the 0x-prefixed personal_sign signature of the login nonce.
func SignNonce(key *ecdsa.PrivateKey, nonce string) (string, error) {
	sig, err := crypto.Sign(personalHash(nonce), key)
	if err != nil {
		return "", fmt.Errorf("sign nonce: %w", err)
	}
	// 钱包习惯 V 为 27/28
	sig[64] += 27
	return "0x" + hex.EncodeToString(sig), nil
}

// RecoverAddress 从签名恢复地址（与服务端校验逻辑相同）
func RecoverAddress(nonce, signature string) (string, error) {
	sigBytes, err := hex.DecodeString(strings.TrimPrefix(signature, "0x"))
	if err != nil || len(sigBytes) != 65 {
		return "", ErrBadSignature
	}
	if sigBytes[64] >= 27 {
		sigBytes[64] -= 27
	}
	pub, err := crypto.SigToPub(personalHash(nonce), sigBytes)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadSignature, err)
	}
	return crypto.PubkeyToAddress(*pub).Hex(), nil
}
