package draftsync

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"draftsync/autosave"
	"draftsync/domain"
	"draftsync/gateway"
	"draftsync/journal"
)

type stubGateway struct {
	mock.Mock
}

func (m *stubGateway) Create(ctx context.Context, content string) (*domain.Document, error) {
	args := m.Called(ctx, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *stubGateway) Get(ctx context.Context, id uint64) (*domain.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *stubGateway) Update(ctx context.Context, id uint64, patch domain.DocumentPatch) (*domain.Document, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *stubGateway) Delete(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *stubGateway) List(ctx context.Context) ([]domain.Document, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}

var _ gateway.Gateway = (*stubGateway)(nil)

func TestEngineStartLoadsDocumentsAndRecovers(t *testing.T) {
	gw := new(stubGateway)
	jnl := journal.NewMemoryJournal()
	require.NoError(t, jnl.Write(journal.Entry{
		DocumentID: 2,
		Content:    "recovered draft",
		Title:      "Second",
		Timestamp:  time.Now().Add(-time.Minute),
	}))

	gw.On("List", mock.Anything).Return([]domain.Document{
		{ID: 1, Title: "First", Content: "one"},
		{ID: 2, Title: "Second", Content: "two"},
	}, nil)
	gw.On("Update", mock.Anything, uint64(2), mock.Anything).
		Return(&domain.Document{ID: 2, Title: "Second", Content: "recovered draft"}, nil).Once()

	engine := New(Options{
		Gateway: gw,
		Journal: jnl,
		Autosave: autosave.Config{
			DebounceInterval: 20 * time.Millisecond,
		},
	})
	defer engine.Close()

	require.NoError(t, engine.Start(context.Background()))

	assert.Len(t, engine.Collection.Documents(), 2)
	doc, ok := engine.Collection.Get(2)
	require.True(t, ok)
	assert.Equal(t, "recovered draft", doc.Content)

	entry, err := jnl.Read()
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestEngineEditSaveCycle(t *testing.T) {
	gw := new(stubGateway)
	gw.On("List", mock.Anything).Return([]domain.Document{
		{ID: 1, Title: "First", Content: "one"},
	}, nil)
	gw.On("Update", mock.Anything, uint64(1), mock.Anything).
		Return(&domain.Document{ID: 1, Title: "First", Content: "one edited"}, nil).Once()

	engine := New(Options{
		Gateway: gw,
		Autosave: autosave.Config{
			DebounceInterval: 20 * time.Millisecond,
		},
	})
	defer engine.Close()
	require.NoError(t, engine.Start(context.Background()))

	id := uint64(1)
	engine.Collection.SetCurrent(&id)
	engine.Session.SetContent("one edited")

	require.Eventually(t, func() bool {
		return !engine.Session.Snapshot().Dirty
	}, time.Second, 5*time.Millisecond)

	doc, _ := engine.Collection.Get(1)
	assert.Equal(t, "one edited", doc.Content)
}
