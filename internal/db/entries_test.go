package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worklog/internal/models"
	"worklog/internal/repository"
)

func TestEntries_CreateGet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := mustCreateUser(t, db, "alice")

	e := &models.Entry{
		OwnerID:   owner.ID,
		Cleaned:   true,
		Flow:      models.FlowLow,
		Comment:   "morning",
		StartTime: at(8, 30),
	}
	require.NoError(t, db.CreateEntry(ctx, e))
	require.NotZero(t, e.ID)

	got, err := db.GetEntry(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.OwnerID, got.OwnerID)
	assert.True(t, got.Cleaned)
	assert.Equal(t, models.FlowLow, got.Flow)
	assert.Equal(t, "morning", got.Comment)
	assert.True(t, e.StartTime.Equal(got.StartTime))
}

func TestEntries_GetMissing(t *testing.T) {
	db := newTestDB(t)
	_, err := db.GetEntry(context.Background(), 999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestEntries_UnknownOwnerRejected(t *testing.T) {
	db := newTestDB(t)
	e := &models.Entry{OwnerID: 77, Flow: models.FlowNone, StartTime: at(9, 0)}
	assert.Error(t, db.CreateEntry(context.Background(), e))
}

func TestEntries_ListOrderAndFilter(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	alice := mustCreateUser(t, db, "alice")
	bob := mustCreateUser(t, db, "bob")

	create := func(owner int64, comment string, hour int) int64 {
		e := &models.Entry{OwnerID: owner, Flow: models.FlowHigh, Comment: comment, StartTime: at(hour, 0)}
		require.NoError(t, db.CreateEntry(ctx, e))
		return e.ID
	}
	early := create(alice.ID, "early", 7)
	tieA := create(bob.ID, "tie-a", 10)
	late := create(alice.ID, "late", 12)
	tieB := create(alice.ID, "tie-b", 10)

	all, err := db.ListEntries(ctx, repository.EntryFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)

	var ids []int64
	for _, v := range all {
		ids = append(ids, v.ID)
	}
	assert.Equal(t, []int64{late, tieA, tieB, early}, ids)
	assert.Equal(t, "bob", all[1].OwnerName)
	assert.Equal(t, "alice", all[0].OwnerName)

	mine, err := db.ListEntries(ctx, repository.EntryFilter{OwnerID: &bob.ID})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, tieA, mine[0].ID)
}

func TestEntries_ListEmpty(t *testing.T) {
	db := newTestDB(t)
	entries, err := db.ListEntries(context.Background(), repository.EntryFilter{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestEntries_Update(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	alice := mustCreateUser(t, db, "alice")
	bob := mustCreateUser(t, db, "bob")

	e := &models.Entry{OwnerID: alice.ID, Flow: models.FlowHigh, Comment: "before", StartTime: at(8, 0)}
	require.NoError(t, db.CreateEntry(ctx, e))

	e.Cleaned = true
	e.Flow = models.FlowNone
	e.Comment = "after"
	e.StartTime = at(9, 15)
	e.OwnerID = bob.ID // ignored by UpdateEntry
	require.NoError(t, db.UpdateEntry(ctx, e))

	got, err := db.GetEntry(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.OwnerID)
	assert.True(t, got.Cleaned)
	assert.Equal(t, models.FlowNone, got.Flow)
	assert.Equal(t, "after", got.Comment)
	assert.True(t, at(9, 15).Equal(got.StartTime))
}

func TestEntries_UpdateMissing(t *testing.T) {
	db := newTestDB(t)
	e := &models.Entry{ID: 5, Flow: models.FlowHigh, StartTime: at(8, 0)}
	assert.ErrorIs(t, db.UpdateEntry(context.Background(), e), repository.ErrNotFound)
}

func TestEntries_Delete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	alice := mustCreateUser(t, db, "alice")

	e := &models.Entry{OwnerID: alice.ID, Flow: models.FlowHigh, StartTime: at(8, 0)}
	require.NoError(t, db.CreateEntry(ctx, e))

	require.NoError(t, db.DeleteEntry(ctx, e.ID))
	_, err := db.GetEntry(ctx, e.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.ErrorIs(t, db.DeleteEntry(ctx, e.ID), repository.ErrNotFound)
}
