package controllers_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"levelup_api/internal/controllers"
	"levelup_api/internal/models"
	"levelup_api/internal/services"
	"levelup_api/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) List(ctx context.Context, viewerUID string, gameID *int64) ([]models.Event, error) {
	args := m.Called(ctx, viewerUID, gameID)
	events, _ := args.Get(0).([]models.Event)
	return events, args.Error(1)
}

func (m *MockEventService) GetByID(ctx context.Context, id int64, viewerUID string) (*models.Event, error) {
	args := m.Called(ctx, id, viewerUID)
	e, _ := args.Get(0).(*models.Event)
	return e, args.Error(1)
}

func (m *MockEventService) Create(ctx context.Context, organizerUID string, in services.EventInput) (*models.Event, error) {
	args := m.Called(ctx, organizerUID, in)
	e, _ := args.Get(0).(*models.Event)
	return e, args.Error(1)
}

func (m *MockEventService) Update(ctx context.Context, id int64, requesterUID string, in services.EventInput) error {
	return m.Called(ctx, id, requesterUID, in).Error(0)
}

func (m *MockEventService) Delete(ctx context.Context, id int64, requesterUID string) error {
	return m.Called(ctx, id, requesterUID).Error(0)
}

func (m *MockEventService) Signup(ctx context.Context, id int64, gamerUID string) error {
	return m.Called(ctx, id, gamerUID).Error(0)
}

func (m *MockEventService) Leave(ctx context.Context, id int64, gamerUID string) error {
	return m.Called(ctx, id, gamerUID).Error(0)
}

func setupEventController() (*controllers.EventController, *MockEventService) {
	svc := &MockEventService{}
	return controllers.NewEventController(svc, testLogger()), svc
}

func noGame(p *int64) bool { return p == nil }

func TestEventController_List(t *testing.T) {
	t.Run("returns events with membership", func(t *testing.T) {
		c, svc := setupEventController()
		svc.On("List", mock.Anything, "uid-1", mock.MatchedBy(noGame)).Return([]models.Event{
			{ID: 1, Description: "Catan night", Joined: true, AttendeesCount: 2},
			{ID: 2, Description: "D&D", Joined: false},
		}, nil)

		w := serve(t, http.MethodGet, "/events", "/events", nil, "uid-1", c.List)

		require.Equal(t, http.StatusOK, w.Code)

		var got []map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, true, got[0]["joined"])
		assert.Equal(t, float64(2), got[0]["attendees_count"])
		assert.Equal(t, false, got[1]["joined"])
		svc.AssertExpectations(t)
	})

	t.Run("game filter is passed through", func(t *testing.T) {
		c, svc := setupEventController()
		svc.On("List", mock.Anything, "uid-1", mock.MatchedBy(func(p *int64) bool {
			return p != nil && *p == 3
		})).Return([]models.Event{}, nil)

		w := serve(t, http.MethodGet, "/events", "/events?game=3", nil, "uid-1", c.List)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("bad game filter", func(t *testing.T) {
		c, svc := setupEventController()

		w := serve(t, http.MethodGet, "/events", "/events?game=abc", nil, "uid-1", c.List)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNumberOfCalls(t, "List", 0)
	})

	t.Run("anonymous", func(t *testing.T) {
		c, svc := setupEventController()

		w := serve(t, http.MethodGet, "/events", "/events", nil, "", c.List)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		svc.AssertNumberOfCalls(t, "List", 0)
	})

	t.Run("unregistered viewer", func(t *testing.T) {
		c, svc := setupEventController()
		svc.On("List", mock.Anything, "ghost", mock.MatchedBy(noGame)).
			Return(nil, &services.NotFoundError{Resource: "Gamer", Key: "uid=ghost"})

		w := serve(t, http.MethodGet, "/events", "/events", nil, "ghost", c.List)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Gamer matching uid=ghost does not exist", message(t, w))
	})
}

func TestEventController_Retrieve(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		c, svc := setupEventController()
		svc.On("GetByID", mock.Anything, int64(7), "uid-1").
			Return(&models.Event{ID: 7, Date: "2024-05-01", Time: "19:00:00", Joined: true}, nil)

		w := serve(t, http.MethodGet, "/events/{id}", "/events/7", nil, "uid-1", c.Retrieve)

		require.Equal(t, http.StatusOK, w.Code)

		var got models.Event
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, int64(7), got.ID)
		assert.True(t, got.Joined)
	})

	t.Run("anonymous viewer", func(t *testing.T) {
		c, svc := setupEventController()
		svc.On("GetByID", mock.Anything, int64(7), "").Return(&models.Event{ID: 7}, nil)

		w := serve(t, http.MethodGet, "/events/{id}", "/events/7", nil, "", c.Retrieve)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		c, svc := setupEventController()
		svc.On("GetByID", mock.Anything, int64(99), "").
			Return(nil, fmt.Errorf("op: %w", &services.NotFoundError{Resource: "Event", Key: "id=99"}))

		w := serve(t, http.MethodGet, "/events/{id}", "/events/99", nil, "", c.Retrieve)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Event matching id=99 does not exist", message(t, w))
	})

	t.Run("invalid id", func(t *testing.T) {
		c, _ := setupEventController()

		for _, id := range []string{"abc", "0", "-4"} {
			w := serve(t, http.MethodGet, "/events/{id}", "/events/"+id, nil, "", c.Retrieve)
			assert.Equal(t, http.StatusBadRequest, w.Code, id)
		}
	})

	t.Run("unexpected failure", func(t *testing.T) {
		c, svc := setupEventController()
		svc.On("GetByID", mock.Anything, int64(1), "").Return(nil, errors.New("connection reset"))

		w := serve(t, http.MethodGet, "/events/{id}", "/events/1", nil, "", c.Retrieve)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, controllers.ErrInternal.Error(), message(t, w))
	})
}

func TestEventController_Create(t *testing.T) {
	body := map[string]any{
		"game":        2,
		"description": "Catan night",
		"date":        "2024-05-01",
		"time":        "19:00",
	}

	t.Run("created", func(t *testing.T) {
		c, svc := setupEventController()
		want := services.EventInput{GameID: 2, Description: "Catan night", Date: "2024-05-01", Time: "19:00:00"}
		svc.On("Create", mock.Anything, "uid-1", want).
			Return(&models.Event{ID: 5, Description: "Catan night"}, nil)

		w := serve(t, http.MethodPost, "/events", "/events", body, "uid-1", c.Create)

		require.Equal(t, http.StatusCreated, w.Code)

		var got models.Event
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, int64(5), got.ID)
		svc.AssertExpectations(t)
	})

	t.Run("missing game", func(t *testing.T) {
		c, svc := setupEventController()

		w := serve(t, http.MethodPost, "/events", "/events", map[string]any{
			"description": "x", "date": "2024-05-01", "time": "19:00",
		}, "uid-1", c.Create)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid field: game", message(t, w))
		svc.AssertNumberOfCalls(t, "Create", 0)
	})

	t.Run("malformed time", func(t *testing.T) {
		c, _ := setupEventController()

		w := serve(t, http.MethodPost, "/events", "/events", map[string]any{
			"game": 2, "date": "2024-05-01", "time": "7pm",
		}, "uid-1", c.Create)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid field: time", message(t, w))
	})

	t.Run("malformed json", func(t *testing.T) {
		c, _ := setupEventController()

		w := serve(t, http.MethodPost, "/events", "/events", "{", "uid-1", c.Create)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown game", func(t *testing.T) {
		c, svc := setupEventController()
		svc.On("Create", mock.Anything, "uid-1", mock.Anything).
			Return(nil, &services.NotFoundError{Resource: "Game", Key: "id=2"})

		w := serve(t, http.MethodPost, "/events", "/events", body, "uid-1", c.Create)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestEventController_Update(t *testing.T) {
	body := map[string]any{"game": 2, "description": "moved", "date": "2024-06-01", "time": "18:30:00"}

	t.Run("no content", func(t *testing.T) {
		c, svc := setupEventController()
		svc.On("Update", mock.Anything, int64(4), "uid-2", services.EventInput{
			GameID: 2, Description: "moved", Date: "2024-06-01", Time: "18:30:00",
		}).Return(nil)

		w := serve(t, http.MethodPut, "/events/{id}", "/events/4", body, "uid-2", c.Update)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("not the organizer", func(t *testing.T) {
		c, svc := setupEventController()
		svc.On("Update", mock.Anything, int64(4), "uid-2", mock.Anything).
			Return(fmt.Errorf("op: %w", services.ErrForbidden))

		w := serve(t, http.MethodPut, "/events/{id}", "/events/4", body, "uid-2", c.Update)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, controllers.ErrForbidden.Error(), message(t, w))
	})
}

func TestEventController_Destroy(t *testing.T) {
	t.Run("no content", func(t *testing.T) {
		c, svc := setupEventController()
		svc.On("Delete", mock.Anything, int64(4), "uid-1").Return(nil)

		w := serve(t, http.MethodDelete, "/events/{id}", "/events/4", nil, "uid-1", c.Destroy)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		c, svc := setupEventController()
		svc.On("Delete", mock.Anything, int64(4), "uid-1").
			Return(&services.NotFoundError{Resource: "Event", Key: "id=4"})

		w := serve(t, http.MethodDelete, "/events/{id}", "/events/4", nil, "uid-1", c.Destroy)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestEventController_Signup(t *testing.T) {
	t.Run("added", func(t *testing.T) {
		c, svc := setupEventController()
		svc.On("Signup", mock.Anything, int64(3), "uid-1").Return(nil)

		w := serve(t, http.MethodPost, "/events/{id}/signup", "/events/3/signup", nil, "uid-1", c.Signup)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, controllers.MessageGamerAdded, message(t, w))
	})

	t.Run("already signed up", func(t *testing.T) {
		c, svc := setupEventController()
		svc.On("Signup", mock.Anything, int64(3), "uid-1").
			Return(fmt.Errorf("op: %w", storage.ErrExists))

		w := serve(t, http.MethodPost, "/events/{id}/signup", "/events/3/signup", nil, "uid-1", c.Signup)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("unknown event", func(t *testing.T) {
		c, svc := setupEventController()
		svc.On("Signup", mock.Anything, int64(3), "uid-1").
			Return(&services.NotFoundError{Resource: "Event", Key: "id=3"})

		w := serve(t, http.MethodPost, "/events/{id}/signup", "/events/3/signup", nil, "uid-1", c.Signup)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestEventController_Leave(t *testing.T) {
	t.Run("removed", func(t *testing.T) {
		c, svc := setupEventController()
		svc.On("Leave", mock.Anything, int64(3), "uid-1").Return(nil)

		w := serve(t, http.MethodDelete, "/events/{id}/leave", "/events/3/leave", nil, "uid-1", c.Leave)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("never signed up", func(t *testing.T) {
		c, svc := setupEventController()
		svc.On("Leave", mock.Anything, int64(3), "uid-1").
			Return(&services.NotFoundError{Resource: "EventGamer", Key: "event_id=3 gamer=uid-1"})

		w := serve(t, http.MethodDelete, "/events/{id}/leave", "/events/3/leave", nil, "uid-1", c.Leave)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
