package router

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cuongbtq/jobly-be/internal/api/domain"
	"github.com/cuongbtq/jobly-be/internal/api/handler"
	"github.com/cuongbtq/jobly-be/internal/api/model"
	"github.com/cuongbtq/jobly-be/internal/api/storage"
	"github.com/cuongbtq/jobly-be/internal/api/storage/sqlbuild"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockJobs struct {
	mock.Mock
}

func (m *mockJobs) CreateJob(ctx context.Context, job *model.Job) (*model.Job, error) {
	args := m.Called(ctx, job)
	created, _ := args.Get(0).(*model.Job)
	return created, args.Error(1)
}

func (m *mockJobs) ListJobs(ctx context.Context, filter storage.JobFilter) ([]model.JobListing, error) {
	args := m.Called(ctx, filter)
	jobs, _ := args.Get(0).([]model.JobListing)
	return jobs, args.Error(1)
}

func (m *mockJobs) GetJob(ctx context.Context, id int) (*model.JobDetail, error) {
	args := m.Called(ctx, id)
	job, _ := args.Get(0).(*model.JobDetail)
	return job, args.Error(1)
}

func (m *mockJobs) UpdateJob(ctx context.Context, id int, data sqlbuild.Payload) (*model.Job, error) {
	args := m.Called(ctx, id, data)
	job, _ := args.Get(0).(*model.Job)
	return job, args.Error(1)
}

func (m *mockJobs) DeleteJob(ctx context.Context, id int) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, eventType string, jobID int) error {
	return m.Called(ctx, eventType, jobID).Error(0)
}

type fakeHealth struct {
	err error
}

func (f fakeHealth) HealthCheck(context.Context) error {
	return f.err
}

func newTestRouter(t *testing.T, jobs *mockJobs, pub *mockPublisher) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	t.Cleanup(func() {
		jobs.AssertExpectations(t)
		pub.AssertExpectations(t)
	})

	return SetupRouter(&handler.Dependencies{
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Jobs:      jobs,
		Publisher: pub,
	})
}

func doRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("healthy", func(t *testing.T) {
		r := SetupRouter(&handler.Dependencies{Logger: logger, Health: fakeHealth{}})
		w := doRequest(r, http.MethodGet, "/health", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("database down", func(t *testing.T) {
		r := SetupRouter(&handler.Dependencies{Logger: logger, Health: fakeHealth{err: errors.New("down")}})
		w := doRequest(r, http.MethodGet, "/health", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestCreateJob(t *testing.T) {
	t.Run("created and published", func(t *testing.T) {
		jobs, pub := &mockJobs{}, &mockPublisher{}
		r := newTestRouter(t, jobs, pub)

		jobs.On("CreateJob", mock.Anything, &model.Job{
			Title:         "new",
			Salary:        intPtr(100),
			Equity:        strPtr("0.1"),
			CompanyHandle: "c1",
		}).Return(&model.Job{
			ID:            9,
			Title:         "new",
			Salary:        intPtr(100),
			Equity:        strPtr("0.1"),
			CompanyHandle: "c1",
		}, nil)
		pub.On("Publish", mock.Anything, domain.EventJobCreated, 9).Return(nil)

		w := doRequest(r, http.MethodPost, "/api/v1/jobs",
			`{"title":"new","salary":100,"equity":"0.1","companyHandle":"c1"}`)

		require.Equal(t, http.StatusCreated, w.Code)
		job := decode(t, w)["job"].(map[string]interface{})
		assert.Equal(t, float64(9), job["id"])
		assert.Equal(t, "c1", job["companyHandle"])
		assert.Equal(t, "0.1", job["equity"])
	})

	t.Run("publish failure does not fail the request", func(t *testing.T) {
		jobs, pub := &mockJobs{}, &mockPublisher{}
		r := newTestRouter(t, jobs, pub)

		jobs.On("CreateJob", mock.Anything, mock.Anything).
			Return(&model.Job{ID: 1, Title: "t", CompanyHandle: "c1"}, nil)
		pub.On("Publish", mock.Anything, domain.EventJobCreated, 1).Return(errors.New("broker down"))

		w := doRequest(r, http.MethodPost, "/api/v1/jobs", `{"title":"t","companyHandle":"c1"}`)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	bad := []struct {
		name string
		body string
	}{
		{name: "missing title", body: `{"companyHandle":"c1"}`},
		{name: "missing company", body: `{"title":"t"}`},
		{name: "negative salary", body: `{"title":"t","companyHandle":"c1","salary":-1}`},
		{name: "equity above one", body: `{"title":"t","companyHandle":"c1","equity":"1.5"}`},
		{name: "equity not a number", body: `{"title":"t","companyHandle":"c1","equity":"lots"}`},
		{name: "salary wrong type", body: `{"title":"t","companyHandle":"c1","salary":"high"}`},
		{name: "malformed json", body: `{"title":`},
	}
	for _, tt := range bad {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(t, &mockJobs{}, &mockPublisher{})

			w := doRequest(r, http.MethodPost, "/api/v1/jobs", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	t.Run("unknown company is a bad request", func(t *testing.T) {
		jobs, pub := &mockJobs{}, &mockPublisher{}
		r := newTestRouter(t, jobs, pub)

		jobs.On("CreateJob", mock.Anything, mock.Anything).
			Return(nil, &pq.Error{Code: pgerrcode.ForeignKeyViolation, Message: "violates foreign key constraint"})

		w := doRequest(r, http.MethodPost, "/api/v1/jobs", `{"title":"t","companyHandle":"nope"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)

		errBody := decode(t, w)["error"].(map[string]interface{})
		assert.Equal(t, "violates foreign key constraint", errBody["message"])
		assert.Equal(t, float64(http.StatusBadRequest), errBody["status"])
	})
}

func TestListJobs(t *testing.T) {
	t.Run("filters are passed through", func(t *testing.T) {
		jobs, pub := &mockJobs{}, &mockPublisher{}
		r := newTestRouter(t, jobs, pub)

		jobs.On("ListJobs", mock.Anything, storage.JobFilter{
			MinSalary:     intPtr(50000),
			HasEquity:     boolPtr(true),
			TitleContains: strPtr("eng"),
		}).Return([]model.JobListing{
			{Job: model.Job{ID: 1, Title: "Engineer", Salary: intPtr(60000), CompanyHandle: "c1"}, CompanyName: strPtr("C1")},
		}, nil)

		w := doRequest(r, http.MethodGet, "/api/v1/jobs?minSalary=50000&hasEquity=true&title=eng", "")
		require.Equal(t, http.StatusOK, w.Code)

		list := decode(t, w)["jobs"].([]interface{})
		require.Len(t, list, 1)
		assert.Equal(t, "C1", list[0].(map[string]interface{})["companyName"])
	})

	t.Run("no filters", func(t *testing.T) {
		jobs, pub := &mockJobs{}, &mockPublisher{}
		r := newTestRouter(t, jobs, pub)

		jobs.On("ListJobs", mock.Anything, storage.JobFilter{}).Return([]model.JobListing{}, nil)

		w := doRequest(r, http.MethodGet, "/api/v1/jobs", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, `{"jobs":[]}`, w.Body.String())
	})

	t.Run("non numeric minSalary", func(t *testing.T) {
		r := newTestRouter(t, &mockJobs{}, &mockPublisher{})

		w := doRequest(r, http.MethodGet, "/api/v1/jobs?minSalary=lots", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("storage failure", func(t *testing.T) {
		jobs, pub := &mockJobs{}, &mockPublisher{}
		r := newTestRouter(t, jobs, pub)

		jobs.On("ListJobs", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

		w := doRequest(r, http.MethodGet, "/api/v1/jobs", "")
		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "connection reset")
	})
}

func TestGetJob(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		jobs, pub := &mockJobs{}, &mockPublisher{}
		r := newTestRouter(t, jobs, pub)

		jobs.On("GetJob", mock.Anything, 3).Return(&model.JobDetail{
			ID:      3,
			Title:   "Engineer",
			Company: &model.Company{Handle: "c1", Name: "C1", Description: "Desc1"},
		}, nil)

		w := doRequest(r, http.MethodGet, "/api/v1/jobs/3", "")
		require.Equal(t, http.StatusOK, w.Code)

		job := decode(t, w)["job"].(map[string]interface{})
		assert.NotContains(t, job, "companyHandle")
		assert.Equal(t, "c1", job["company"].(map[string]interface{})["handle"])
	})

	t.Run("not found", func(t *testing.T) {
		jobs, pub := &mockJobs{}, &mockPublisher{}
		r := newTestRouter(t, jobs, pub)

		jobs.On("GetJob", mock.Anything, 9999999).Return(nil, domain.NewJobNotFound(9999999))

		w := doRequest(r, http.MethodGet, "/api/v1/jobs/9999999", "")
		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "no job: 9999999")
	})

	t.Run("id not an integer", func(t *testing.T) {
		r := newTestRouter(t, &mockJobs{}, &mockPublisher{})

		w := doRequest(r, http.MethodGet, "/api/v1/jobs/abc", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUpdateJob(t *testing.T) {
	t.Run("updates present fields", func(t *testing.T) {
		jobs, pub := &mockJobs{}, &mockPublisher{}
		r := newTestRouter(t, jobs, pub)

		jobs.On("UpdateJob", mock.Anything, 5, sqlbuild.Payload{}.Set("salary", 99999)).
			Return(&model.Job{ID: 5, Title: "Engineer", Salary: intPtr(99999), CompanyHandle: "c1"}, nil)
		pub.On("Publish", mock.Anything, domain.EventJobUpdated, 5).Return(nil)

		w := doRequest(r, http.MethodPatch, "/api/v1/jobs/5", `{"salary":99999}`)
		require.Equal(t, http.StatusOK, w.Code)

		job := decode(t, w)["job"].(map[string]interface{})
		assert.Equal(t, float64(99999), job["salary"])
		assert.Equal(t, "Engineer", job["title"])
	})

	t.Run("empty body is a validation error", func(t *testing.T) {
		jobs, pub := &mockJobs{}, &mockPublisher{}
		r := newTestRouter(t, jobs, pub)

		jobs.On("UpdateJob", mock.Anything, 5, sqlbuild.Payload(nil)).
			Return(nil, domain.NewValidationError("no data supplied"))

		w := doRequest(r, http.MethodPatch, "/api/v1/jobs/5", `{}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "no data supplied")
	})

	t.Run("company handle is not updatable over http", func(t *testing.T) {
		jobs, pub := &mockJobs{}, &mockPublisher{}
		r := newTestRouter(t, jobs, pub)

		jobs.On("UpdateJob", mock.Anything, 5, sqlbuild.Payload{}.Set("title", "x")).
			Return(&model.Job{ID: 5, Title: "x", CompanyHandle: "c1"}, nil)
		pub.On("Publish", mock.Anything, domain.EventJobUpdated, 5).Return(nil)

		w := doRequest(r, http.MethodPatch, "/api/v1/jobs/5", `{"title":"x","companyHandle":"c2"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		jobs, pub := &mockJobs{}, &mockPublisher{}
		r := newTestRouter(t, jobs, pub)

		jobs.On("UpdateJob", mock.Anything, 404, mock.Anything).Return(nil, domain.NewJobNotFound(404))

		w := doRequest(r, http.MethodPatch, "/api/v1/jobs/404", `{"title":"x"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid equity", func(t *testing.T) {
		r := newTestRouter(t, &mockJobs{}, &mockPublisher{})

		w := doRequest(r, http.MethodPatch, "/api/v1/jobs/5", `{"equity":"-0.1"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDeleteJob(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		jobs, pub := &mockJobs{}, &mockPublisher{}
		r := newTestRouter(t, jobs, pub)

		jobs.On("DeleteJob", mock.Anything, 4).Return(4, nil)
		pub.On("Publish", mock.Anything, domain.EventJobDeleted, 4).Return(nil)

		w := doRequest(r, http.MethodDelete, "/api/v1/jobs/4", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, `{"deleted":4}`, w.Body.String())
	})

	t.Run("not found publishes nothing", func(t *testing.T) {
		jobs, pub := &mockJobs{}, &mockPublisher{}
		r := newTestRouter(t, jobs, pub)

		jobs.On("DeleteJob", mock.Anything, 4).Return(0, domain.NewJobNotFound(4))

		w := doRequest(r, http.MethodDelete, "/api/v1/jobs/4", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCORSPreflight(t *testing.T) {
	r := newTestRouter(t, &mockJobs{}, &mockPublisher{})

	w := doRequest(r, http.MethodOptions, "/api/v1/jobs", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
