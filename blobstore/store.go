// Package blobstore implements the content-addressed store/retrieve
// interface behaviours use to exchange artifacts too large to carry
// as a Payload attribute. Every failure this package can produce
// surfaces as one opaque InteractionError kind.
package blobstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/ipfs/go-cid"
	"github.com/ipfs/go-datastore"
	mh "github.com/multiformats/go-multihash"
)

// InteractionError is the single error kind every Store method can
// return, wrapping whatever underlying failure occurred.
type InteractionError struct {
	msg   string
	cause error
}

func newInteractionError(format string, args ...any) *InteractionError {
	return &InteractionError{msg: fmt.Sprintf(format, args...)}
}

func wrapInteractionError(cause error, context string) *InteractionError {
	return &InteractionError{msg: context + ": " + cause.Error(), cause: cause}
}

func (e *InteractionError) Error() string { return e.msg }
func (e *InteractionError) Unwrap() error  { return e.cause }

// Store is the content-addressed blob interface a behaviour uses to
// hand off and retrieve artifacts out of band from consensus.
type Store interface {
	// StoreAndSend serializes obj to JSON, stores it under its content
	// hash, and returns that hash as a string.
	StoreAndSend(ctx context.Context, obj any) (string, error)
	// GetAndRead retrieves the blob addressed by hash and decodes it
	// into out (a pointer).
	GetAndRead(ctx context.Context, hash string, out any) error
}

// IPFSStore is a Store backed by a github.com/ipfs/go-datastore
// instance, addressing content with github.com/ipfs/go-cid the way a
// real IPFS node would, without requiring a running daemon. The
// backing datastore is supplied by the caller (any datastore.Datastore;
// there is no default): where the content actually lives is
// configuration, not part of the contract.
type IPFSStore struct {
	ds datastore.Datastore
}

// NewIPFSStore constructs an IPFSStore over the given datastore. Pass
// datastore.NewMapDatastore() for an in-memory store, as used by this
// package's own tests.
func NewIPFSStore(ds datastore.Datastore) *IPFSStore {
	return &IPFSStore{ds: ds}
}

// StoreAndSend implements Store.
func (s *IPFSStore) StoreAndSend(ctx context.Context, obj any) (string, error) {
	data, err := json.Marshal(obj)
	if err != nil {
		return "", wrapInteractionError(err, "serializing blob")
	}

	hash, err := mh.Sum(data, mh.SHA2_256, -1)
	if err != nil {
		return "", wrapInteractionError(err, "hashing blob")
	}
	c := cid.NewCidV1(cid.Raw, hash)

	if err := s.ds.Put(ctx, datastore.NewKey(c.String()), data); err != nil {
		return "", wrapInteractionError(err, "persisting blob")
	}
	return c.String(), nil
}

// GetAndRead implements Store.
func (s *IPFSStore) GetAndRead(ctx context.Context, hash string, out any) error {
	c, err := cid.Decode(hash)
	if err != nil {
		return newInteractionError("not a valid content hash: %q: %v", hash, err)
	}

	data, err := s.ds.Get(ctx, datastore.NewKey(c.String()))
	if err != nil {
		if err == datastore.ErrNotFound {
			return newInteractionError("no blob stored under hash %q", hash)
		}
		return wrapInteractionError(err, "retrieving blob")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(out); err != nil && err != io.EOF {
		return wrapInteractionError(err, "deserializing blob")
	}
	return nil
}
