package publications

import (
	"context"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/gistit/gistit/pkg/badgerfx"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	db, err := badger.Open(badgerfx.Config{InMemory: true}.Build().WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewService(NewRepository(db), zaptest.NewLogger(t))
}

func TestService_RecordAndGet(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	recorded, err := svc.Record(ctx, PublicationDraft{
		GistID:      "abc123",
		HTMLURL:     "https://gist.github.com/abc123",
		Commit:      "0123456789abcdef0123456789abcdef01234567",
		Files:       []string{"main.go"},
		Description: "snippet",
		Status:      StatusSuccess,
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, recorded.ID)
	require.False(t, recorded.CreatedAt.IsZero())

	byID, err := svc.Get(ctx, recorded.ID)
	require.NoError(t, err)
	require.Equal(t, recorded.PublicationDraft, byID.PublicationDraft)

	byGist, err := svc.GetByGist(ctx, "abc123")
	require.NoError(t, err)
	require.Equal(t, recorded.ID, byGist.ID)

	_, err = svc.Get(ctx, uuid.Must(uuid.NewV7()))
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetByGist(ctx, "unknown")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestService_ListNewestFirst(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	var ids []uuid.UUID
	for _, gistID := range []string{"first", "", "third"} {
		status := StatusSuccess
		if gistID == "" {
			status = StatusFailed
		}

		p, err := svc.Record(ctx, PublicationDraft{GistID: gistID, Status: status})
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}

	all, err := svc.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, ids[2], all[0].ID)
	require.Equal(t, ids[1], all[1].ID)
	require.Equal(t, ids[0], all[2].ID)
	require.Equal(t, StatusFailed, all[1].Status)

	limited, err := svc.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	require.Equal(t, ids[2], limited[0].ID)
}

func TestService_ListEmpty(t *testing.T) {
	svc := newTestService(t)

	all, err := svc.List(context.Background(), 0)
	require.NoError(t, err)
	require.Empty(t, all)
}
