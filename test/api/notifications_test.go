//go:build api

package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"teamwork/internal/handler"
	"teamwork/internal/models"
	"teamwork/test/api/testserver"
	"teamwork/test/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listNotifications(t *testing.T, token, query string) models.NotificationListResponse {
	t.Helper()
	w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodGet, "/api/v1/notifications"+query, token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var list models.NotificationListResponse
	testutil.ParseData(t, w, &list)
	return list
}

func TestNotifications(t *testing.T) {
	f := setupMemberFixture(t)
	teamHelper := testserver.NewTeamHelper(testServer)
	projectID := teamHelper.CreateProject(t, f.adminToken, f.teamID, "Roadmap")
	teamHelper.CreateTask(t, f.adminToken, f.teamID, projectID, models.CreateTaskRequest{Title: "Write docs", AssignedTo: &f.guestID})

	// Delivery is asynchronous through the worker pool.
	require.Eventually(t, func() bool {
		list := listNotifications(t, f.guestToken, "?types=task_assigned,team_joined")
		return len(list.Items) == 2
	}, 5*time.Second, 100*time.Millisecond)

	t.Run("filters by type and unread", func(t *testing.T) {
		all := listNotifications(t, f.guestToken, "")
		assert.Equal(t, int64(2), all.Total)
		assert.Equal(t, all.Total, all.UnreadCount)

		assigned := listNotifications(t, f.guestToken, "?types=task_assigned&unreadOnly=true")
		require.Len(t, assigned.Items, 1)
		assert.Contains(t, assigned.Items[0].Content, "Write docs")
	})

	assigned := listNotifications(t, f.guestToken, "?types=task_assigned").Items[0]

	t.Run("cannot touch someone else's notification", func(t *testing.T) {
		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodPut, "/api/v1/notifications/"+assigned.ID.Hex()+"/read", f.memberToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = testutil.MakeAuthRequest(t, testServer.Router, http.MethodDelete, "/api/v1/notifications/"+assigned.ID.Hex(), f.memberToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("mark read", func(t *testing.T) {
		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodPut, "/api/v1/notifications/"+assigned.ID.Hex()+"/read", f.guestToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, testutil.ParseAPIResponse(t, w).Data["isRead"])
	})

	t.Run("mark all read", func(t *testing.T) {
		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodPut, "/api/v1/notifications/read-all", f.guestToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var resp handler.MarkAllReadResponse
		testutil.ParseData(t, w, &resp)
		assert.Greater(t, resp.Updated, int64(0))

		assert.Equal(t, int64(0), listNotifications(t, f.guestToken, "").UnreadCount)
	})

	t.Run("delete", func(t *testing.T) {
		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodDelete, "/api/v1/notifications/"+assigned.ID.Hex(), f.guestToken, nil)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = testutil.MakeAuthRequest(t, testServer.Router, http.MethodDelete, "/api/v1/notifications/"+assigned.ID.Hex(), f.guestToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDueSoonReminders(t *testing.T) {
	f := setupMemberFixture(t)
	teamHelper := testserver.NewTeamHelper(testServer)
	projectID := teamHelper.CreateProject(t, f.adminToken, f.teamID, "Renewals")

	soon := time.Now().Add(2 * time.Hour)
	later := time.Now().Add(72 * time.Hour)
	teamHelper.CreateTask(t, f.adminToken, f.teamID, projectID, models.CreateTaskRequest{Title: "Renew certificate", AssignedTo: &f.guestID, DueDate: &soon})
	teamHelper.CreateTask(t, f.adminToken, f.teamID, projectID, models.CreateTaskRequest{Title: "Plan offsite", AssignedTo: &f.guestID, DueDate: &later})

	ctx := context.Background()
	sent, err := testServer.NotifyDueSoon(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	require.Eventually(t, func() bool {
		return len(listNotifications(t, f.guestToken, "?types=task_due_soon").Items) == 1
	}, 5*time.Second, 100*time.Millisecond)
	reminder := listNotifications(t, f.guestToken, "?types=task_due_soon").Items[0]
	assert.Contains(t, reminder.Content, "Renew certificate")

	t.Run("a second sweep does not repeat the reminder", func(t *testing.T) {
		sent, err := testServer.NotifyDueSoon(ctx)
		require.NoError(t, err)
		assert.Zero(t, sent)
	})
}
