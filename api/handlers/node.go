package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/ssvlabs/benor/api"
	"github.com/ssvlabs/benor/logging/fields"
	"github.com/ssvlabs/benor/protocol/benor/types"
)

// ConsensusNode is what the node API drives.
type ConsensusNode interface {
	ID() int
	Faulty() bool
	HandleMessage(msg types.Message) error
	Start(ctx context.Context) error
	Stop()
	State() types.NodeState
}

type Node struct {
	Logger *zap.Logger
	Node   ConsensusNode
}

// Status reports 500 "faulty" for a node configured faulty, 200 "live" otherwise.
func (h *Node) Status(w http.ResponseWriter, r *http.Request) error {
	if h.Node.Faulty() {
		return api.Text(w, r, http.StatusInternalServerError, "faulty")
	}
	return api.Text(w, r, http.StatusOK, "live")
}

// Message receives a vote from a peer.
func (h *Node) Message(w http.ResponseWriter, r *http.Request) error {
	var env types.Envelope
	err := json.NewDecoder(r.Body).Decode(&env)
	if err == nil {
		err = env.Validate()
	}
	if err != nil {
		// A stopped node refuses everything with the same answer.
		if h.Node.State().Killed {
			return api.ProtocolError(types.ErrNodeStopped)
		}
		if !errors.Is(err, types.ErrMalformedMessage) {
			err = fmt.Errorf("%w: %w", types.ErrMalformedMessage, err)
		}
		h.Logger.Debug("dropped malformed message", zap.Error(err))
		return api.ProtocolError(err)
	}

	if err := h.Node.HandleMessage(*env.Message); err != nil {
		h.Logger.Debug("message rejected",
			fields.Phase(env.Message.Phase),
			fields.Round(env.Message.Round),
			zap.Error(err))
		return api.ProtocolError(err)
	}
	return api.Text(w, r, http.StatusOK, "Message received")
}

// Start blocks until the network is ready, then launches consensus in the background.
func (h *Node) Start(w http.ResponseWriter, r *http.Request) error {
	if err := h.Node.Start(r.Context()); err != nil {
		return api.Error(err)
	}
	return api.Text(w, r, http.StatusOK, "Ben-Or Consensus started")
}

func (h *Node) Stop(w http.ResponseWriter, r *http.Request) error {
	h.Node.Stop()
	return api.Text(w, r, http.StatusOK, "Node stopped")
}

// GetState returns the node state as JSON, nulls included.
func (h *Node) GetState(w http.ResponseWriter, r *http.Request) error {
	return api.Render(w, r, h.Node.State())
}
