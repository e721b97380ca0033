package blocklist

import (
	"context"
	"errors"
	"testing"

	"github.com/bluesky-social/earmuffs/atproto/identity"
	"github.com/bluesky-social/earmuffs/atproto/syntax"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRunner(remote *FakeRemote) *Runner {
	dir := identity.NewMockResolver()
	dir.Insert(syntax.Handle("alice.example.com"), didAlice)
	dir.Insert(syntax.Handle("carol.example.com"), didCarol)
	return &Runner{
		Resolver:  &Resolver{Remote: remote, Identity: dir},
		Members:   &MemberReader{Remote: remote},
		Directory: &ListDirectory{Remote: remote, Account: remote.Account},
		Applier:   &Applier{Mutator: remote},
	}
}

func aliceSpec(name string) BlocklistSpec {
	return BlocklistSpec{
		Name:     name,
		Includes: []Source{FollowersOf(syntax.AtIdentifier("alice.example.com"))},
		Excludes: []Source{Literal(syntax.AtIdentifier("carol.example.com"))},
	}
}

func TestRunnerSync(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	remote := NewFakeRemote(didMe)
	remote.Followers[didAlice] = []syntax.DID{didBob, didCarol, didErin}
	lh := remote.InsertList("alice followers", didBob, didDave)

	r := testRunner(remote)
	report, err := r.Run(ctx, []BlocklistSpec{aliceSpec("alice followers")})
	require.NoError(err)
	require.Len(report.Lists, 1)
	lr := report.Lists[0]
	assert.Equal(StatusSynced, lr.Status)
	assert.Equal(2, lr.Target)
	assert.Equal(ApplyResult{Added: 1, Removed: 1}, lr.Result)
	assert.Equal(lh, lr.List)
	assert.Equal([]syntax.DID{didBob, didErin}, remote.Members(lh.URI))

	// nothing to do on the second run
	mutations := remote.Mutations
	report, err = r.Run(ctx, []BlocklistSpec{aliceSpec("alice followers")})
	require.NoError(err)
	assert.Equal(StatusSynced, report.Lists[0].Status)
	assert.True(report.Lists[0].Plan.IsEmpty())
	assert.Equal(mutations, remote.Mutations)
}

func TestRunnerMissingList(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	remote := NewFakeRemote(didMe)
	remote.Followers[didAlice] = []syntax.DID{didBob}

	spec := aliceSpec("new list")
	spec.Purpose = PurposeCuration
	r := testRunner(remote)
	report, err := r.Run(ctx, []BlocklistSpec{spec})
	require.NoError(err)
	lr := report.Lists[0]
	assert.Equal(StatusCreated, lr.Status)
	assert.Nil(lr.Plan)
	assert.Equal(0, remote.GraphRequests)
	require.Len(remote.Lists, 1)
	assert.Equal("new list", remote.Lists[0].Name)
	assert.Equal(PurposeCuration, remote.Lists[0].Purpose)
	assert.Empty(remote.Members(remote.Lists[0].URI))
	assert.Equal(1, remote.Mutations)

	// next run reconciles it
	report, err = r.Run(ctx, []BlocklistSpec{spec})
	require.NoError(err)
	assert.Equal(StatusSynced, report.Lists[0].Status)
	assert.Equal([]syntax.DID{didBob}, remote.Members(remote.Lists[0].URI))
}

func TestRunnerDryRun(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	remote := NewFakeRemote(didMe)
	remote.Followers[didAlice] = []syntax.DID{didBob, didErin}
	lh := remote.InsertList("existing", didDave)

	r := testRunner(remote)
	r.DryRun = true
	report, err := r.Run(ctx, []BlocklistSpec{aliceSpec("existing"), aliceSpec("missing")})
	require.NoError(err)
	require.Len(report.Lists, 2)

	assert.Equal(StatusPlanned, report.Lists[0].Status)
	plan := report.Lists[0].Plan
	assert.Equal([]syntax.DID{didBob, didErin}, plan.ToAdd.Sorted())
	require.Len(plan.ToRemove, 1)
	assert.Equal(didDave, plan.ToRemove[0].Member)

	assert.Equal(StatusMissing, report.Lists[1].Status)
	assert.Equal(0, remote.Mutations)
	assert.Len(remote.Lists, 1)
	assert.Equal([]syntax.DID{didDave}, remote.Members(lh.URI))
}

func TestRunnerIsolation(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	remote := NewFakeRemote(didMe)
	remote.Followers[didAlice] = []syntax.DID{didBob}
	boom := errors.New("graph unavailable")
	remote.FailGraph[didDave] = boom
	good := remote.InsertList("good")
	remote.InsertList("bad")
	partial := remote.InsertList("partial")
	addErr := errors.New("rejected")
	remote.FailAdd[didErin] = addErr

	specs := []BlocklistSpec{
		{Name: "bad", Includes: []Source{FollowsOf(didDave.AtIdentifier())}},
		aliceSpec("good"),
		{Name: "partial", Includes: []Source{Literal(didBob.AtIdentifier(), didErin.AtIdentifier())}},
	}
	r := testRunner(remote)
	r.Parallelism = 3
	report, err := r.Run(ctx, specs)
	assert.ErrorIs(err, boom)
	assert.ErrorIs(err, addErr)

	assert.Equal(StatusFailed, report.Lists[0].Status)
	var fe *FetchError
	assert.ErrorAs(report.Lists[0].Err, &fe)
	assert.Equal(StatusSynced, report.Lists[1].Status)
	assert.Equal(StatusPartial, report.Lists[2].Status)
	assert.Equal(ApplyResult{Added: 1, Failed: 1}, report.Lists[2].Result)

	assert.Equal([]syntax.DID{didBob}, remote.Members(good.URI))
	assert.Equal([]syntax.DID{didBob}, remote.Members(partial.URI))
}

func TestRunnerOnly(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	remote := NewFakeRemote(didMe)
	remote.Followers[didAlice] = []syntax.DID{didBob}
	remote.InsertList("one")
	remote.InsertList("two")

	r := testRunner(remote)
	r.Only = []string{"two"}
	report, err := r.Run(ctx, []BlocklistSpec{aliceSpec("one"), aliceSpec("two")})
	require.NoError(err)
	require.Len(report.Lists, 1)
	assert.Equal("two", report.Lists[0].Name)

	r.Only = []string{"three"}
	_, err = r.Run(ctx, []BlocklistSpec{aliceSpec("one"), aliceSpec("two")})
	assert.Error(err)
}

func TestRunnerCreateFailure(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	remote := NewFakeRemote(didMe)
	remote.FailCreate = errors.New("quota")

	report, err := testRunner(remote).Run(ctx, []BlocklistSpec{aliceSpec("new")})
	assert.Error(err)
	var me *MutationError
	assert.ErrorAs(report.Lists[0].Err, &me)
	assert.Equal(OpCreateList, me.Op)
	assert.Equal(StatusFailed, report.Lists[0].Status)
}

func TestOwnedListsDuplicateNames(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	remote := NewFakeRemote(didMe)
	first := remote.InsertList("same")
	remote.InsertList("same")
	other := remote.InsertList("other")

	lists, err := (&ListDirectory{Remote: remote, Account: didMe}).OwnedLists(ctx)
	require.NoError(err)
	assert.Len(lists, 2)
	assert.Equal(first, lists["same"])
	assert.Equal(other, lists["other"])

	_, err = FindList(lists, "missing")
	assert.ErrorIs(err, ErrListNotFound)
}
