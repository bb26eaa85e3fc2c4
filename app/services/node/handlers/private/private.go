// Package private maintains the group of handlers for node to node and
// operator access.
package private

import (
	"context"
	"errors"
	"net/http"

	"github.com/ardanlabs/floodchain/business/sys/validate"
	"github.com/ardanlabs/floodchain/business/web/errs"
	"github.com/ardanlabs/floodchain/foundation/blockchain/state"
	"github.com/ardanlabs/floodchain/foundation/blockchain/worker"
	"github.com/ardanlabs/floodchain/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of node endpoints.
type Handlers struct {
	Log    *zap.SugaredLogger
	State  *state.State
	Worker *worker.Worker
}

// NewPeer is the host of a node to connect to.
type NewPeer struct {
	Host string `json:"host" validate:"required,hostname_port"`
}

// Validate checks the host is a host:port pair.
func (np NewPeer) Validate() error {
	return validate.Check(np)
}

// Status returns the current status of the node.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrieveStatus(), http.StatusOK)
}

// Peers returns the hosts of the connected peers.
func (h Handlers) Peers(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrieveKnownPeers(), http.StatusOK)
}

// SubmitPeer connects the node to a new peer.
func (h Handlers) SubmitPeer(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var np NewPeer
	if err := web.Decode(r, &np); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.Log.Infow("add peer", "traceid", web.GetTraceID(ctx), "host", np.Host)

	h.Worker.AddPeer(np.Host)

	if !h.State.IsKnownPeer(np.Host) {
		return errs.NewTrusted(errors.New("unable to connect to peer"), http.StatusBadGateway)
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "connected",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}
