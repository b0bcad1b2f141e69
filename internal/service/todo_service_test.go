package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/myaxum/myaxum/internal/storage"
	"github.com/myaxum/myaxum/internal/storage/mocks"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type publishedEvent struct {
	Type    string
	Payload map[string]string
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(eventType string, payload map[string]string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Type: eventType, Payload: payload})
}

func strPtr(s string) *string { return &s }

func TestTodoService_List(t *testing.T) {
	tests := []struct {
		name        string
		setupMock   func(m *mocks.MockTodoStore)
		want        []*storage.Todo
		errContains string
	}{
		{
			name: "returns todos",
			setupMock: func(m *mocks.MockTodoStore) {
				m.On("List", mock.Anything).Return([]*storage.Todo{{ID: 2, Text: "b"}, {ID: 1, Text: "a"}}, nil)
			},
			want: []*storage.Todo{{ID: 2, Text: "b"}, {ID: 1, Text: "a"}},
		},
		{
			name: "wraps repo error",
			setupMock: func(m *mocks.MockTodoStore) {
				m.On("List", mock.Anything).Return(nil, errors.New("db down"))
			},
			errContains: "listing todos",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockTodoStore)
			tt.setupMock(repo)
			svc := NewTodoService(repo, nil, newTestLogger())

			got, err := svc.List(context.Background())
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestTodoService_Get(t *testing.T) {
	repo := new(mocks.MockTodoStore)
	repo.On("Get", mock.Anything, int64(1)).Return(&storage.Todo{ID: 1, Text: "a"}, nil)
	repo.On("Get", mock.Anything, int64(2)).Return(nil, nil)
	repo.On("Get", mock.Anything, int64(3)).Return(nil, errors.New("disk"))
	svc := NewTodoService(repo, nil, newTestLogger())

	todo, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "a", todo.Text)

	_, err = svc.Get(context.Background(), 2)
	var nfe *NotFoundError
	require.ErrorAs(t, err, &nfe)
	assert.Equal(t, "2", nfe.ID)

	_, err = svc.Get(context.Background(), 3)
	require.Error(t, err)
	assert.False(t, errors.As(err, &nfe))
}

func TestTodoService_Create(t *testing.T) {
	t.Run("persists and publishes", func(t *testing.T) {
		repo := new(mocks.MockTodoStore)
		repo.On("Create", mock.Anything, "buy milk").Return(&storage.Todo{ID: 5, Text: "buy milk"}, nil)
		pub := &recordingPublisher{}
		svc := NewTodoService(repo, pub, newTestLogger())

		todo, err := svc.Create(context.Background(), "buy milk")
		require.NoError(t, err)
		assert.EqualValues(t, 5, todo.ID)
		assert.Equal(t, []publishedEvent{{Type: EventTodoCreated, Payload: map[string]string{"todo_id": "5"}}}, pub.events)
		repo.AssertExpectations(t)
	})

	t.Run("rejects blank text without touching the store", func(t *testing.T) {
		repo := new(mocks.MockTodoStore)
		pub := &recordingPublisher{}
		svc := NewTodoService(repo, pub, newTestLogger())

		_, err := svc.Create(context.Background(), "   ")
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "text", ve.Field)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		assert.Empty(t, pub.events)
	})

	t.Run("store error is wrapped and not published", func(t *testing.T) {
		repo := new(mocks.MockTodoStore)
		repo.On("Create", mock.Anything, "x").Return(nil, errors.New("full"))
		pub := &recordingPublisher{}
		svc := NewTodoService(repo, pub, newTestLogger())

		_, err := svc.Create(context.Background(), "x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "creating todo")
		assert.Empty(t, pub.events)
	})
}

func TestTodoService_Update(t *testing.T) {
	tests := []struct {
		name      string
		update    storage.UpdateTodo
		setupMock func(m *mocks.MockTodoStore)
		wantErr   func(t *testing.T, err error)
		wantEvent bool
	}{
		{
			name:   "success",
			update: storage.UpdateTodo{Text: strPtr("new")},
			setupMock: func(m *mocks.MockTodoStore) {
				m.On("Update", mock.Anything, int64(1), mock.Anything).Return(&storage.Todo{ID: 1, Text: "new"}, nil)
			},
			wantEvent: true,
		},
		{
			name:   "not found",
			update: storage.UpdateTodo{Text: strPtr("new")},
			setupMock: func(m *mocks.MockTodoStore) {
				m.On("Update", mock.Anything, int64(1), mock.Anything).Return(nil, storage.ErrTodoNotFound)
			},
			wantErr: func(t *testing.T, err error) {
				var nfe *NotFoundError
				require.ErrorAs(t, err, &nfe)
			},
		},
		{
			name:      "empty text",
			update:    storage.UpdateTodo{Text: strPtr("")},
			setupMock: func(*mocks.MockTodoStore) {},
			wantErr: func(t *testing.T, err error) {
				var ve *ValidationError
				require.ErrorAs(t, err, &ve)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockTodoStore)
			tt.setupMock(repo)
			pub := &recordingPublisher{}
			svc := NewTodoService(repo, pub, newTestLogger())

			_, err := svc.Update(context.Background(), 1, tt.update)
			if tt.wantErr != nil {
				tt.wantErr(t, err)
			} else {
				require.NoError(t, err)
			}
			if tt.wantEvent {
				require.Len(t, pub.events, 1)
				assert.Equal(t, EventTodoUpdated, pub.events[0].Type)
			} else {
				assert.Empty(t, pub.events)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestTodoService_Delete(t *testing.T) {
	repo := new(mocks.MockTodoStore)
	repo.On("Delete", mock.Anything, int64(1)).Return(nil)
	repo.On("Delete", mock.Anything, int64(2)).Return(storage.ErrTodoNotFound)
	pub := &recordingPublisher{}
	svc := NewTodoService(repo, pub, newTestLogger())

	require.NoError(t, svc.Delete(context.Background(), 1))

	var nfe *NotFoundError
	require.ErrorAs(t, svc.Delete(context.Background(), 2), &nfe)

	assert.Equal(t, []publishedEvent{{Type: EventTodoDeleted, Payload: map[string]string{"todo_id": "1"}}}, pub.events)
}
