// Package transport delivers protocol messages between nodes. Delivery is
// best-effort: a failed send is an omission the protocol already tolerates,
// so failures are counted and logged but never retried.
package transport

import (
	"context"

	"github.com/ssvlabs/benor/protocol/benor/types"
)

// Result summarizes one broadcast.
type Result struct {
	Sent   int
	Failed int
}

func (r Result) Total() int {
	return r.Sent + r.Failed
}

// Broadcaster sends a message to every participant, the sender included.
type Broadcaster interface {
	Broadcast(ctx context.Context, msg types.Message) Result
}
