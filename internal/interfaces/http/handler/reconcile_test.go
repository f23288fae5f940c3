package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/infrastructure/scheduler"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/interfaces/http/dto"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/interfaces/http/middleware"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/interfaces/http/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

type MockJobTrigger struct {
	mock.Mock
}

func (m *MockJobTrigger) TriggerManualRun(kind string, ownerID *uuid.UUID, year, month int) (*scheduler.Job, error) {
	args := m.Called(kind, ownerID, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scheduler.Job), args.Error(1)
}

func (m *MockJobTrigger) GetStatus() []scheduler.KindStatus {
	args := m.Called()
	return args.Get(0).([]scheduler.KindStatus)
}

func (m *MockJobTrigger) IsRunning() bool {
	return m.Called().Bool(0)
}

type MockRunHistory struct {
	mock.Mock
}

func (m *MockRunHistory) Recent(ctx context.Context, limit int) ([]scheduler.JobRunRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]scheduler.JobRunRecord), args.Error(1)
}

func newReconcileRouter(h *ReconcileHandler) *gin.Engine {
	engine := gin.New()
	router.NewRouter(engine).Register(h).Setup()
	return engine
}

func doRequest(engine *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, dto.Response) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	var resp dto.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestReconcileHandler_Run(t *testing.T) {
	t.Run("accepts a run for every owner with the default month", func(t *testing.T) {
		trigger := new(MockJobTrigger)
		job := scheduler.NewJob("budgets", nil, scheduler.TriggerManual)
		trigger.On("TriggerManualRun", "budgets", (*uuid.UUID)(nil), 0, 0).Return(job, nil)

		w, resp := doRequest(newReconcileRouter(NewReconcileHandler(trigger, nil)), http.MethodPost, "/api/v1/reconcile/budgets", "")

		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.True(t, resp.Success)
		data := resp.Data.(map[string]any)
		assert.Equal(t, job.ID.String(), data["id"])
		assert.Equal(t, "MANUAL", data["trigger"])
		trigger.AssertExpectations(t)
	})

	t.Run("passes owner and month through", func(t *testing.T) {
		trigger := new(MockJobTrigger)
		owner := uuid.New()
		job := scheduler.NewJob("reports", &owner, scheduler.TriggerManual).WithMonth(2025, 4)
		trigger.On("TriggerManualRun", "reports", &owner, 2025, 4).Return(job, nil)

		body := fmt.Sprintf(`{"owner_id":%q,"month":4,"year":2025}`, owner)
		w, _ := doRequest(newReconcileRouter(NewReconcileHandler(trigger, nil)), http.MethodPost, "/api/v1/reconcile/reports", body)

		assert.Equal(t, http.StatusAccepted, w.Code)
		trigger.AssertExpectations(t)
	})

	t.Run("rejects an invalid month", func(t *testing.T) {
		trigger := new(MockJobTrigger)

		w, resp := doRequest(newReconcileRouter(NewReconcileHandler(trigger, nil)), http.MethodPost, "/api/v1/reconcile/reports", `{"month":13,"year":2025}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		trigger.AssertNotCalled(t, "TriggerManualRun", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects a year out of range", func(t *testing.T) {
		trigger := new(MockJobTrigger)

		w, _ := doRequest(newReconcileRouter(NewReconcileHandler(trigger, nil)), http.MethodPost, "/api/v1/reconcile/reports", `{"month":1,"year":1999}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		trigger.AssertNotCalled(t, "TriggerManualRun", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	errorCases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"unknown job", fmt.Errorf("%w: %s", scheduler.ErrUnknownJob, "payroll"), http.StatusNotFound, dto.ErrCodeUnknownJob},
		{"job in progress", scheduler.ErrJobInProgress, http.StatusConflict, dto.ErrCodeJobRunning},
		{"scheduler stopped", scheduler.ErrSchedulerNotRunning, http.StatusServiceUnavailable, dto.ErrCodeUnavailable},
		{"unexpected error", errors.New("boom"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			trigger := new(MockJobTrigger)
			trigger.On("TriggerManualRun", "payroll", (*uuid.UUID)(nil), 0, 0).Return(nil, tc.err)

			w, resp := doRequest(newReconcileRouter(NewReconcileHandler(trigger, nil)), http.MethodPost, "/api/v1/reconcile/payroll", "")

			assert.Equal(t, tc.status, w.Code)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tc.code, resp.Error.Code)
		})
	}
}

func TestReconcileHandler_Status(t *testing.T) {
	lastRun := time.Date(2025, time.May, 1, 0, 5, 0, 0, time.UTC)
	statuses := []scheduler.KindStatus{
		{Job: "budgets", Schedule: "cron 5 0 1 * *", LastRunAt: &lastRun, LastStatus: scheduler.JobStatusSuccess},
		{Job: "reminders", Schedule: "every 1m0s", Running: true},
	}

	t.Run("includes recent runs", func(t *testing.T) {
		trigger := new(MockJobTrigger)
		trigger.On("IsRunning").Return(true)
		trigger.On("GetStatus").Return(statuses)
		history := new(MockRunHistory)
		history.On("Recent", mock.Anything, recentRunsLimit).Return([]scheduler.JobRunRecord{
			{ID: uuid.New(), Job: "budgets", Trigger: "SCHEDULE", Status: "SUCCESS", Processed: 4, StartedAt: lastRun},
		}, nil)

		w, resp := doRequest(newReconcileRouter(NewReconcileHandler(trigger, history)), http.MethodGet, "/api/v1/reconcile/status", "")

		require.Equal(t, http.StatusOK, w.Code)
		data := resp.Data.(map[string]any)
		assert.Equal(t, true, data["running"])
		jobs := data["jobs"].([]any)
		require.Len(t, jobs, 2)
		assert.Equal(t, "budgets", jobs[0].(map[string]any)["job"])
		recent := data["recent"].([]any)
		require.Len(t, recent, 1)
		counts := recent[0].(map[string]any)["counts"].(map[string]any)
		assert.Equal(t, float64(4), counts["processed"])
		history.AssertExpectations(t)
	})

	t.Run("without history", func(t *testing.T) {
		trigger := new(MockJobTrigger)
		trigger.On("IsRunning").Return(false)
		trigger.On("GetStatus").Return(statuses)

		w, resp := doRequest(newReconcileRouter(NewReconcileHandler(trigger, nil)), http.MethodGet, "/api/v1/reconcile/status", "")

		require.Equal(t, http.StatusOK, w.Code)
		data := resp.Data.(map[string]any)
		assert.Equal(t, false, data["running"])
		_, ok := data["recent"]
		assert.False(t, ok)
	})

	t.Run("history failure", func(t *testing.T) {
		trigger := new(MockJobTrigger)
		trigger.On("IsRunning").Return(true)
		trigger.On("GetStatus").Return(statuses)
		history := new(MockRunHistory)
		history.On("Recent", mock.Anything, recentRunsLimit).Return(nil, errors.New("connection refused"))

		w, _ := doRequest(newReconcileRouter(NewReconcileHandler(trigger, history)), http.MethodGet, "/api/v1/reconcile/status", "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
