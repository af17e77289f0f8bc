package client

import (
	"context"
	"encoding/json"

	"github.com/minminkikiki/kaia-sdk/protocol"
)

// DebugAPI is the debug namespace: profiling the node. Files are written on
// the node's host, not locally.
type DebugAPI interface {
	MutexProfile(ctx context.Context, file string, seconds int64) (json.RawMessage, error)
	BlockProfile(ctx context.Context, file string, seconds int64) (json.RawMessage, error)
	CPUProfile(ctx context.Context, file string, seconds int64) (json.RawMessage, error)
	WriteBlockProfile(ctx context.Context, file string) (json.RawMessage, error)
	WriteMutexProfile(ctx context.Context, file string) (json.RawMessage, error)
	WriteMemProfile(ctx context.Context, file string) (json.RawMessage, error)
	SetBlockProfileRate(ctx context.Context, rate int64) error
}

type debugClient struct {
	c *Client
}

func (d *debugClient) MutexProfile(ctx context.Context, file string, seconds int64) (json.RawMessage, error) {
	return d.profile(ctx, "mutexProfile", file, seconds)
}

func (d *debugClient) BlockProfile(ctx context.Context, file string, seconds int64) (json.RawMessage, error) {
	return d.profile(ctx, "blockProfile", file, seconds)
}

func (d *debugClient) CPUProfile(ctx context.Context, file string, seconds int64) (json.RawMessage, error) {
	return d.profile(ctx, "cpuProfile", file, seconds)
}

func (d *debugClient) WriteBlockProfile(ctx context.Context, file string) (json.RawMessage, error) {
	return d.write(ctx, "writeBlockProfile", file)
}

func (d *debugClient) WriteMutexProfile(ctx context.Context, file string) (json.RawMessage, error) {
	return d.write(ctx, "writeMutexProfile", file)
}

func (d *debugClient) WriteMemProfile(ctx context.Context, file string) (json.RawMessage, error) {
	return d.write(ctx, "writeMemProfile", file)
}

func (d *debugClient) SetBlockProfileRate(ctx context.Context, rate int64) error {
	method := protocol.Debug.Method("setBlockProfileRate")
	if err := requireNonNegative(method, 0, "rate", rate); err != nil {
		return err
	}
	return d.c.Call(ctx, nil, method, rate)
}

// profile runs a profile for seconds and writes it to file.
func (d *debugClient) profile(ctx context.Context, name, file string, seconds int64) (json.RawMessage, error) {
	method := protocol.Debug.Method(name)
	if err := requireString(method, 0, "file", file); err != nil {
		return nil, err
	}
	if err := requireNonNegative(method, 1, "seconds", seconds); err != nil {
		return nil, err
	}
	var out json.RawMessage
	if err := d.c.Call(ctx, &out, method, file, seconds); err != nil {
		return nil, err
	}
	return out, nil
}

func (d *debugClient) write(ctx context.Context, name, file string) (json.RawMessage, error) {
	method := protocol.Debug.Method(name)
	if err := requireString(method, 0, "file", file); err != nil {
		return nil, err
	}
	var out json.RawMessage
	if err := d.c.Call(ctx, &out, method, file); err != nil {
		return nil, err
	}
	return out, nil
}
