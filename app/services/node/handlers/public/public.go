// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ardanlabs/floodchain/business/web/errs"
	"github.com/ardanlabs/floodchain/foundation/blockchain/database"
	"github.com/ardanlabs/floodchain/foundation/blockchain/state"
	"github.com/ardanlabs/floodchain/foundation/blockchain/worker"
	"github.com/ardanlabs/floodchain/foundation/events"
	"github.com/ardanlabs/floodchain/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log    *zap.SugaredLogger
	State  *state.State
	Worker *worker.Worker
	WS     websocket.Upgrader
	Evts   *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	id, ch := h.Evts.Acquire()
	defer h.Evts.Release(id)

	h.Log.Infow("websocket open", "traceid", web.GetTraceID(ctx), "subscriber", id)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.RetrieveGenesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// CreateAccount creates a new account credited with the faucet credit.
func (h Handlers) CreateAccount(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	accountID, err := h.State.CreateAccount()
	if err != nil {
		return fmt.Errorf("creating account: %w", err)
	}

	h.Log.Infow("create account", "traceid", web.GetTraceID(ctx), "account", accountID)

	// Peers learn about new accounts as a free form message.
	h.State.NetSendMessageToPeers(string(accountID), "")

	act := account{
		Account: accountID,
		Balance: h.State.QueryBalance(accountID),
	}

	return web.Respond(ctx, w, act, http.StatusCreated)
}

// Balances returns the current balances for all accounts or a single account.
func (h Handlers) Balances(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var acts []account

	switch accountStr := web.Param(r, "account"); accountStr {
	case "":
		for _, act := range h.State.QueryAccounts() {
			acts = append(acts, account{Account: act.AccountID, Balance: act.Balance})
		}

	default:
		accountID, err := database.ToAccountID(accountStr)
		if err != nil {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
		acts = []account{{Account: accountID, Balance: h.State.QueryBalance(accountID)}}
	}

	bals := balances{
		LatestBlock: h.State.RetrieveLatestBlock().Hash,
		Uncommitted: h.State.QueryMempoolLength(),
		Balances:    acts,
	}

	return web.Respond(ctx, w, bals, http.StatusOK)
}

// SubmitTransaction adds a new transaction to the mempool. The balances are
// updated as soon as the transaction is accepted.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var ntx NewTx
	if err := web.Decode(r, &ntx); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	tx := database.NewTx(database.AccountID(ntx.From), database.AccountID(ntx.To), ntx.Amount)

	h.Log.Infow("submit tx", "traceid", web.GetTraceID(ctx), "tx", tx)

	if err := h.State.AddTransaction(tx); err != nil {
		switch {
		case errors.Is(err, database.ErrInsufficientFunds),
			errors.Is(err, database.ErrUnknownAccount),
			errors.Is(err, database.ErrBalanceOverflow):
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
		return err
	}

	return web.Respond(ctx, w, status{Status: "transaction added to mempool"}, http.StatusOK)
}

// Mempool returns the set of uncommitted transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	acct := database.AccountID(web.Param(r, "account"))

	trans := []database.Tx{}
	for _, tx := range h.State.RetrieveMempool() {
		if acct != "" && acct != tx.FromID && acct != tx.ToID {
			continue
		}
		trans = append(trans, tx)
	}

	return web.Respond(ctx, w, trans, http.StatusOK)
}

// SignalMining asks the worker to mine a block in the background.
func (h Handlers) SignalMining(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	h.Worker.SignalStartMining()

	return web.Respond(ctx, w, status{Status: "mining signaled"}, http.StatusAccepted)
}

// MineBlock mines a block and returns it once it has been sent to the peers.
func (h Handlers) MineBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	block, err := h.Worker.Mine()
	if err != nil {
		return fmt.Errorf("mining block: %w", err)
	}

	h.Log.Infow("mine block", "traceid", web.GetTraceID(ctx), "block", block.Number, "hash", block.Hash)

	return web.Respond(ctx, w, block, http.StatusOK)
}

// Blocks returns the chain or a range of blocks. The word latest can be
// used for either end of the range.
func (h Handlers) Blocks(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	fromStr, toStr := web.Param(r, "from"), web.Param(r, "to")
	if fromStr == "" {
		return web.Respond(ctx, w, h.State.QueryChain(), http.StatusOK)
	}

	from, err := parseBlockNumber(fromStr)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	to, err := parseBlockNumber(toStr)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if from > to {
		return errs.NewTrusted(errors.New("from greater than to"), http.StatusBadRequest)
	}

	blocks := h.State.QueryBlocksByNumber(from, to)
	if len(blocks) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// SendMessage broadcasts a free form text message to every peer.
func (h Handlers) SendMessage(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var nm NewMessage
	if err := web.Decode(r, &nm); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.State.NetSendMessageToPeers(nm.Message, "")

	return web.Respond(ctx, w, status{Status: "message sent"}, http.StatusOK)
}

// =============================================================================

func parseBlockNumber(s string) (uint64, error) {
	if s == "latest" {
		return state.QueryLatest, nil
	}

	num, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid block number %q", s)
	}

	return num, nil
}
