package wallet

import (
	"errors"

	"hl-action-server/internal/chains"
	"hl-action-server/internal/hl/exchange"

	"github.com/ethereum/go-ethereum/common"
)

// Provider derives per-request signing contexts from the configured
// private key. The key is validated once at startup; contexts are built
// fresh for every request because the signer is chain-scoped.
type Provider struct {
	privateKey string
	address    common.Address
}

type Context struct {
	Signer  *exchange.Signer
	Address common.Address
	Chain   chains.ChainConfig
}

func NewProvider(privateKeyHex string) (*Provider, error) {
	if privateKeyHex == "" {
		return nil, errors.New("private key is required")
	}
	// Validate the key eagerly so a bad key fails at startup, not on the
	// first request.
	signer, err := exchange.NewSigner(privateKeyHex, false)
	if err != nil {
		return nil, err
	}
	return &Provider{privateKey: privateKeyHex, address: signer.Address()}, nil
}

func (p *Provider) Address() common.Address {
	return p.address
}

func (p *Provider) Context(chain chains.ChainConfig) (*Context, error) {
	signer, err := exchange.NewSigner(p.privateKey, chain.IsMainnet())
	if err != nil {
		return nil, err
	}
	return &Context{Signer: signer, Address: signer.Address(), Chain: chain}, nil
}
