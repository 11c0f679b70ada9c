package auth

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tidwall/gjson"
)

var ErrLoginRejected = errors.New("login rejected")

type LoginRequest struct {
	Address   string `json:"address"`
	Signature string `json:"signature"`
	Nonce     string `json:"nonce"`
}

// Session 登录结果：token 用于上行连接，Identity 为本局身份
type Session struct {
	Token    string
	Identity Identity
}

// Client 钱包签名登录游戏服务端
type Client struct {
	BaseURL string
	HTTP    *http.Client
	key     *ecdsa.PrivateKey
}

// 工厂方法：私钥为十六进制（可带 0x）
func NewClient(baseURL, privateKeyHex string) (*Client, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("load private key: %w", err)
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 10 * time.Second},
		key:     key,
	}, nil
}

func (c *Client) Address() string {
	return crypto.PubkeyToAddress(c.key.PublicKey).Hex()
}

// Login GET /auth/nonce -> 签名 -> POST /auth/login -> jwt
func (c *Client) Login(ctx context.Context) (Session, error) {
	body, err := c.call(ctx, http.MethodGet, "/auth/nonce", nil)
	if err != nil {
		return Session{}, err
	}
	nonce := gjson.GetBytes(body, "nonce").String()
	if nonce == "" {
		return Session{}, fmt.Errorf("%w: empty nonce", ErrLoginRejected)
	}

	sig, err := SignNonce(c.key, nonce)
	if err != nil {
		return Session{}, err
	}
	req, err := json.Marshal(LoginRequest{Address: c.Address(), Signature: sig, Nonce: nonce})
	if err != nil {
		return Session{}, err
	}

	body, err = c.call(ctx, http.MethodPost, "/auth/login", req)
	if err != nil {
		return Session{}, err
	}
	token := gjson.GetBytes(body, "jwt").String()
	if token == "" {
		return Session{}, fmt.Errorf("%w: no token in response", ErrLoginRejected)
	}

	id, err := IdentityFromToken(token)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, Identity: id}, nil
}

func (c *Client) call(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(body, "error").String()
		return nil, fmt.Errorf("%w: %s %s: %d %s", ErrLoginRejected, method, path, resp.StatusCode, msg)
	}
	return body, nil
}
