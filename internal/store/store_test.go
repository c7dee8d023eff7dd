package store_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-equipment-analytics/internal/model"
	"go-equipment-analytics/internal/ports"
	"go-equipment-analytics/internal/store"
)

// stepClock advances one second per call so insertion order is creation order.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	clock := &stepClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	st, err := store.Open(context.Background(), store.DriverSQLite,
		filepath.Join(t.TempDir(), "test.db"), store.WithClock(clock.Now))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func createUser(t *testing.T, st *store.Store, name string) model.User {
	t.Helper()
	u := model.User{Username: name, PasswordHash: "x"}
	require.NoError(t, st.CreateUser(context.Background(), &u))
	return u
}

func createDataset(t *testing.T, st *store.Store, userID, filename string) model.Dataset {
	t.Helper()
	d := model.Dataset{UserID: userID, Filename: filename, Status: model.StatusProcessing, FileKey: "datasets/" + filename}
	require.NoError(t, st.CreateDataset(context.Background(), &d))
	return d
}

func TestOpen_RejectsUnknownDriver(t *testing.T) {
	_, err := store.Open(context.Background(), "mysql", "whatever")
	require.Error(t, err)
}

func TestDataset_ReadyTransition(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	u := createUser(t, st, "alice")
	d := createDataset(t, st, u.ID, "a.csv")

	got, err := st.GetDataset(ctx, u.ID, d.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusProcessing, got.Status)
	assert.Nil(t, got.RowCount)
	assert.Nil(t, got.ColumnCount)

	require.NoError(t, st.MarkReady(ctx, d.ID, 2, 5))
	got, err = st.GetDataset(ctx, u.ID, d.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusReady, got.Status)
	require.NotNil(t, got.RowCount)
	require.NotNil(t, got.ColumnCount)
	assert.Equal(t, 2, *got.RowCount)
	assert.Equal(t, 5, *got.ColumnCount)
	assert.Empty(t, got.LastError)
	assert.True(t, d.CreatedAt.Equal(got.CreatedAt))
}

func TestDataset_SettledIsFinal(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	u := createUser(t, st, "alice")
	d := createDataset(t, st, u.ID, "a.csv")

	require.NoError(t, st.MarkError(ctx, d.ID, "Missing required columns: Type"))
	assert.ErrorIs(t, st.MarkReady(ctx, d.ID, 1, 1), store.ErrSettled)
	assert.ErrorIs(t, st.MarkError(ctx, d.ID, "again"), store.ErrSettled)
	assert.ErrorIs(t, st.MarkReady(ctx, "missing", 1, 1), store.ErrNotFound)

	got, err := st.GetDataset(ctx, u.ID, d.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusError, got.Status)
	assert.Equal(t, "Missing required columns: Type", got.LastError)
	assert.Nil(t, got.RowCount)
}

func TestGetDataset_ForeignOwnerIsNotFound(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	alice := createUser(t, st, "alice")
	bob := createUser(t, st, "bob")
	d := createDataset(t, st, alice.ID, "a.csv")

	_, err := st.GetDataset(ctx, bob.ID, d.ID)
	assert.ErrorIs(t, err, ports.ErrNotFound)
	assert.ErrorIs(t, st.DeleteDataset(ctx, bob.ID, d.ID), ports.ErrNotFound)

	_, err = st.GetDataset(ctx, alice.ID, d.ID)
	assert.NoError(t, err)
}

func TestListDatasets_NewestFirstWithLimit(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	u := createUser(t, st, "alice")
	other := createUser(t, st, "bob")

	var ids []string
	for _, name := range []string{"1.csv", "2.csv", "3.csv"} {
		ids = append(ids, createDataset(t, st, u.ID, name).ID)
	}
	createDataset(t, st, other.ID, "other.csv")

	all, err := st.ListDatasets(ctx, u.ID, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{all[0].ID, all[1].ID, all[2].ID})

	two, err := st.ListDatasets(ctx, u.ID, 2)
	require.NoError(t, err)
	require.Len(t, two, 2)
	assert.Equal(t, ids[2], two[0].ID)

	none, err := st.ListDatasets(ctx, "nobody", 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListDatasets_TieBrokenByID(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	u := createUser(t, st, "alice")
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, id := range []string{"a", "c", "b"} {
		d := model.Dataset{ID: id, UserID: u.ID, Filename: id, Status: model.StatusReady, FileKey: id, CreatedAt: at}
		require.NoError(t, st.CreateDataset(ctx, &d))
	}
	list, err := st.ListDatasets(ctx, u.ID, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "c", list[0].ID)
	assert.Equal(t, "b", list[1].ID)
	assert.Equal(t, "a", list[2].ID)
}

func TestSummary_LatestWins(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	u := createUser(t, st, "alice")
	d := createDataset(t, st, u.ID, "a.csv")

	_, err := st.LatestSummary(ctx, d.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	first := model.Summary{DatasetID: d.ID, UserID: u.ID, Analytics: model.AnalyticsResult{TotalCount: 1}}
	require.NoError(t, st.CreateSummary(ctx, &first))
	second := model.Summary{DatasetID: d.ID, UserID: u.ID, Analytics: model.AnalyticsResult{
		TotalCount: 2,
		Averages: map[string]model.OptionalFloat{
			model.FieldFlowrate:    model.Number(7.5),
			model.FieldTemperature: model.Absent(),
		},
		TypeDistribution: map[string]int{"Pump": 2},
	}}
	require.NoError(t, st.CreateSummary(ctx, &second))

	got, err := st.LatestSummary(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
	assert.Equal(t, 2, got.Analytics.TotalCount)
	v, ok := got.Analytics.Average(model.FieldFlowrate).Get()
	assert.True(t, ok)
	assert.Equal(t, 7.5, v)
	assert.True(t, got.Analytics.Average(model.FieldTemperature).IsAbsent())
	assert.Equal(t, map[string]int{"Pump": 2}, got.Analytics.TypeDistribution)
}

func TestDeleteDataset_RemovesSummaries(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	u := createUser(t, st, "alice")
	d := createDataset(t, st, u.ID, "a.csv")
	require.NoError(t, st.CreateSummary(ctx, &model.Summary{DatasetID: d.ID, UserID: u.ID}))

	require.NoError(t, st.DeleteDataset(ctx, u.ID, d.ID))
	_, err := st.GetDataset(ctx, u.ID, d.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.LatestSummary(ctx, d.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestInTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	u := createUser(t, st, "alice")
	d := createDataset(t, st, u.ID, "a.csv")

	err := st.InTx(ctx, func(tx ports.DatasetStore) error {
		require.NoError(t, tx.MarkReady(ctx, d.ID, 1, 5))
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	got, err := st.GetDataset(ctx, u.ID, d.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusProcessing, got.Status)
}

func TestSetReportKey(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	u := createUser(t, st, "alice")
	d := createDataset(t, st, u.ID, "a.csv")

	require.NoError(t, st.SetReportKey(ctx, d.ID, "reports/x.pdf"))
	got, err := st.GetDataset(ctx, u.ID, d.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"datasets/a.csv", "reports/x.pdf"}, got.Artifacts())
	assert.ErrorIs(t, st.SetReportKey(ctx, "missing", "k"), store.ErrNotFound)
}

func TestUpsertUser(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	u := model.User{Username: "demo", PasswordHash: "h1"}
	created, err := st.UpsertUser(ctx, &u)
	require.NoError(t, err)
	assert.True(t, created)

	again := model.User{Username: "demo", PasswordHash: "h2"}
	created, err = st.UpsertUser(ctx, &again)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, u.ID, again.ID)

	got, err := st.GetUserByUsername(ctx, "demo")
	require.NoError(t, err)
	assert.Equal(t, "h2", got.PasswordHash)

	byID, err := st.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "demo", byID.Username)

	_, err = st.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
