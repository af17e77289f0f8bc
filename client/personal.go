package client

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/minminkikiki/kaia-sdk/protocol"
)

// PersonalAPI manages the accounts held in the node's keystore.
type PersonalAPI interface {
	// UnlockAccount keeps address unlocked for seconds; 0 means until the
	// node restarts.
	UnlockAccount(ctx context.Context, address, passphrase string, seconds int64) (bool, error)
	LockAccount(ctx context.Context, address string) (bool, error)
	ListAccounts(ctx context.Context) ([]common.Address, error)
	NewAccount(ctx context.Context, passphrase string) (common.Address, error)
}

type personalClient struct {
	c *Client
}

func (p *personalClient) UnlockAccount(ctx context.Context, address, passphrase string, seconds int64) (bool, error) {
	method := protocol.Personal.Method("unlockAccount")
	addr, err := requireAddress(method, 0, "address", address)
	if err != nil {
		return false, err
	}
	if err := requireString(method, 1, "passphrase", passphrase); err != nil {
		return false, err
	}
	if err := requireNonNegative(method, 2, "seconds", seconds); err != nil {
		return false, err
	}
	var ok bool
	err = p.c.Call(ctx, &ok, method, addr, passphrase, seconds)
	return ok, err
}

func (p *personalClient) LockAccount(ctx context.Context, address string) (bool, error) {
	method := protocol.Personal.Method("lockAccount")
	addr, err := requireAddress(method, 0, "address", address)
	if err != nil {
		return false, err
	}
	var ok bool
	err = p.c.Call(ctx, &ok, method, addr)
	return ok, err
}

func (p *personalClient) ListAccounts(ctx context.Context) ([]common.Address, error) {
	var accounts []common.Address
	if err := p.c.Call(ctx, &accounts, protocol.Personal.Method("listAccounts")); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (p *personalClient) NewAccount(ctx context.Context, passphrase string) (common.Address, error) {
	method := protocol.Personal.Method("newAccount")
	if err := requireString(method, 0, "passphrase", passphrase); err != nil {
		return common.Address{}, err
	}
	var addr common.Address
	err := p.c.Call(ctx, &addr, method, passphrase)
	return addr, err
}
