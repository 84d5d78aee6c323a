package client

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assignmenttracker/internal/database"
	"assignmenttracker/internal/handlers"
	"assignmenttracker/internal/models"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	db, err := database.Initialize(filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	srv := httptest.NewServer(handlers.NewRouter(handlers.RouterConfig{DB: db, Prefix: "/api"}))
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api", srv.Client())
}

func day(d int) time.Time {
	return time.Date(2024, time.June, d, 0, 0, 0, 0, time.UTC)
}

func TestClientAssignmentRoundTrip(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	start := time.Date(2024, time.June, 3, 9, 15, 0, 0, time.FixedZone("UTC+2", 2*60*60))
	due := day(10)
	created, err := c.CreateAssignment(ctx, models.NewAssignment{
		Title:       "Lab report",
		Description: "Titration",
		Subject:     "Chemistry",
		DueDate:     due,
		StartDate:   &start,
		Priority:    models.PriorityHigh,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.True(t, created.DueDate.Equal(due), "due date %v", created.DueDate)
	require.NotNil(t, created.StartDate)
	assert.True(t, created.StartDate.Equal(start), "start date %v", created.StartDate)
	assert.Equal(t, "Titration", created.Description)
	assert.NotNil(t, created.WorkDateRanges)

	got, err := c.GetAssignment(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, got.Title)
	assert.True(t, got.CreatedAt.Equal(created.CreatedAt))

	title := "Lab report v2"
	updated, err := c.UpdateAssignment(ctx, created.ID, models.AssignmentPatch{Title: &title, ClearStartDate: true})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Nil(t, updated.StartDate)
	assert.Equal(t, models.PriorityHigh, updated.Priority)

	list, err := c.ListAssignments(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, title, list[0].Title)

	require.NoError(t, c.DeleteAssignment(ctx, created.ID))
	_, err = c.GetAssignment(ctx, created.ID)
	assert.True(t, IsNotFound(err), "expected NotFoundError, got %v", err)
}

func TestClientWorkRanges(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	a, err := c.CreateAssignment(ctx, models.NewAssignment{Title: "Poster", Subject: "Art", DueDate: day(20)})
	require.NoError(t, err)

	r, err := c.CreateWorkRange(ctx, a.ID, day(5), day(8))
	require.NoError(t, err)
	assert.Equal(t, a.ID, r.AssignmentID)
	assert.True(t, r.StartDate.Equal(day(5)))
	assert.True(t, r.EndDate.Equal(day(8)))

	ranges, err := c.ListWorkRanges(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, ranges, 1)
	assert.Equal(t, r.ID, ranges[0].ID)

	_, err = c.CreateWorkRange(ctx, "missing", day(5), day(8))
	assert.True(t, IsNotFound(err))

	_, err = c.CreateWorkRange(ctx, a.ID, day(8), day(5))
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, http.StatusBadRequest, terr.Status)

	require.NoError(t, c.DeleteWorkRange(ctx, r.ID))
	assert.True(t, IsNotFound(c.DeleteWorkRange(ctx, r.ID)))
}

func TestClientValidationMessage(t *testing.T) {
	c := newTestClient(t)

	_, err := c.CreateAssignment(context.Background(), models.NewAssignment{Subject: "Math", DueDate: day(20)})

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, http.StatusBadRequest, terr.Status)
	assert.Equal(t, "Title is required", terr.Message)
}

func TestClientErrorMessages(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantMsg    string
		notFound   bool
	}{
		{name: "server message", status: 500, body: `{"error":"database down"}`, wantStatus: 500, wantMsg: "database down"},
		{name: "no message", status: 502, body: `{}`, wantStatus: 502, wantMsg: "Request failed"},
		{name: "unparseable", status: 503, body: `<html>oops</html>`, wantStatus: 503, wantMsg: "Unknown error"},
		{name: "not found", status: 404, body: `{"error":"Assignment not found"}`, wantMsg: "Assignment not found", notFound: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := New(srv.URL, nil).GetAssignment(context.Background(), "x")
			require.Error(t, err)

			if tt.notFound {
				var nf *NotFoundError
				require.ErrorAs(t, err, &nf)
				assert.Equal(t, tt.wantMsg, nf.Message)
				return
			}

			var terr *TransportError
			require.ErrorAs(t, err, &terr)
			assert.Equal(t, tt.wantStatus, terr.Status)
			assert.Equal(t, tt.wantMsg, terr.Message)
		})
	}
}

func TestClientNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, nil).ListAssignments(context.Background())

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, 0, terr.Status)
	assert.NotNil(t, errors.Unwrap(terr))
}

func TestClientBadDateInResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"id":"a","title":"t","subject":"s","due_date":"soon","priority":"low","created_at":"2024-06-01T00:00:00.000Z","updated_at":"2024-06-01T00:00:00.000Z"}]`)
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).ListAssignments(context.Background())
	assert.ErrorContains(t, err, "due_date")
}
