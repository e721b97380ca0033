package atproto

// schema: com.atproto.repo.deleteRecord

import (
	"context"

	lexutil "github.com/bluesky-social/earmuffs/lex/util"
)

// RepoDeleteRecord_Input is the input argument to a com.atproto.repo.deleteRecord call
type RepoDeleteRecord_Input struct {
	// collection: The NSID of the record collection.
	Collection string `json:"collection"`
	// repo: The handle or DID of the repo (aka, current account).
	Repo string `json:"repo"`
	// rkey: The Record Key.
	Rkey string `json:"rkey"`
	// swapCommit: Compare and swap with the previous commit by CID.
	SwapCommit *string `json:"swapCommit,omitempty"`
	// swapRecord: Compare and swap with the previous record by CID.
	SwapRecord *string `json:"swapRecord,omitempty"`
}

// RepoDeleteRecord calls the XRPC method "com.atproto.repo.deleteRecord".
func RepoDeleteRecord(ctx context.Context, c lexutil.LexClient, input *RepoDeleteRecord_Input) error {
	if err := c.LexDo(ctx, lexutil.Procedure, "application/json", "com.atproto.repo.deleteRecord", nil, input, nil); err != nil {
		return err
	}

	return nil
}
