package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Temutjin2k/rescue-coordination/internal/adapter/http/handler"
	"github.com/Temutjin2k/rescue-coordination/internal/adapter/http/handler/mocks"
	"github.com/Temutjin2k/rescue-coordination/internal/domain/models"
	"github.com/Temutjin2k/rescue-coordination/internal/domain/types"
	"github.com/Temutjin2k/rescue-coordination/pkg/logger"
)

var requester = &models.Actor{UserID: 7}

func newRescueMux(t *testing.T) (*http.ServeMux, *mocks.MockRescueService) {
	t.Helper()

	ctrl := gomock.NewController(t)
	svc := mocks.NewMockRescueService(ctrl)
	h := handler.NewRescue(svc, logger.Discard())

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/rescue", h.Create)
	mux.HandleFunc("GET /api/rescue/all", h.List)
	mux.HandleFunc("GET /api/rescue/my", h.Mine)
	mux.HandleFunc("GET /api/rescue/hotspot", h.Hotspot)
	mux.HandleFunc("GET /api/rescue/{id}", h.Get)
	mux.HandleFunc("PATCH /api/rescue/{id}", h.Update)
	mux.HandleFunc("POST /api/rescue/{id}/candidates", h.Register)
	mux.HandleFunc("GET /api/rescue/{id}/candidates", h.Candidates)
	mux.HandleFunc("POST /api/rescue/{id}/candidates/{candidateId}/reject", h.Reject)
	mux.HandleFunc("POST /api/rescue/{id}/assign", h.Assign)
	return mux, svc
}

// do sends a request as actor (nil for anonymous) and decodes the JSON body.
func do(t *testing.T, mux http.Handler, actor *models.Actor, method, target, body string) (int, map[string]any) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if actor != nil {
		req = req.WithContext(models.WithActor(req.Context(), actor))
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec.Code, out
}

func sampleRescue(id int64) *models.Rescue {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return &models.Rescue{
		ID:        id,
		UserID:    requester.UserID,
		Latitude:  43.2,
		Longitude: 76.9,
		Status:    types.StatusPending,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestRescue_Create(t *testing.T) {
	mux, svc := newRescueMux(t)

	svc.EXPECT().
		Create(gomock.Any(), requester, 43.2, 76.9, models.Metadata{
			Message:     "stuck in sand",
			VehicleType: types.VehicleType("suv"),
			TerrainType: types.TerrainType("sand"),
		}).
		Return(sampleRescue(1), nil)

	code, body := do(t, mux, requester, http.MethodPost, "/api/rescue",
		`{"latitude":43.2,"longitude":76.9,"message":"stuck in sand","vehicleType":"suv","terrainType":"sand"}`)

	require.Equal(t, http.StatusCreated, code)
	rescue := body["rescue"].(map[string]any)
	assert.EqualValues(t, 1, rescue["id"])
	assert.Equal(t, "open", rescue["state"])
	assert.Equal(t, "pending", rescue["status"])
}

func TestRescue_CreateValidation(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing latitude", `{"longitude":76.9}`, "latitude"},
		{"latitude out of range", `{"latitude":91,"longitude":76.9}`, "latitude"},
		{"longitude out of range", `{"latitude":10,"longitude":-181}`, "longitude"},
		{"unknown vehicle", `{"latitude":10,"longitude":10,"vehicleType":"tank"}`, "vehicleType"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux, _ := newRescueMux(t)

			code, body := do(t, mux, requester, http.MethodPost, "/api/rescue", tt.body)

			assert.Equal(t, http.StatusUnprocessableEntity, code)
			assert.Contains(t, body["error"], tt.field)
		})
	}
}

func TestRescue_CreateMalformedBody(t *testing.T) {
	mux, _ := newRescueMux(t)

	code, body := do(t, mux, requester, http.MethodPost, "/api/rescue", `{"latitude":`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body["error"], "badly-formed")

	code, body = do(t, mux, requester, http.MethodPost, "/api/rescue", `{"latitude":1,"longitude":1,"color":"red"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body["error"], "unknown key")
}

func TestRescue_CreateUnauthenticated(t *testing.T) {
	mux, svc := newRescueMux(t)

	svc.EXPECT().Create(gomock.Any(), nil, 1.0, 2.0, gomock.Any()).Return(nil, types.ErrUnauthorized)

	code, body := do(t, mux, nil, http.MethodPost, "/api/rescue", `{"latitude":1,"longitude":2}`)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, types.ErrUnauthorized.Error(), body["error"])
}

func TestRescue_ListFilter(t *testing.T) {
	mux, svc := newRescueMux(t)

	svc.EXPECT().
		Query(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, f models.RescueFilter) ([]*models.Rescue, error) {
			assert.Equal(t, models.Bounds{MinLat: 40, MaxLat: 50, MinLng: 170, MaxLng: -170}, f.Bounds)
			assert.Equal(t, types.StatusPending, f.Status)
			assert.Equal(t, 20, f.Limit)
			require.NotNil(t, f.From)
			assert.Equal(t, int64(1700000000000), f.From.UnixMilli())
			return []*models.Rescue{sampleRescue(2), sampleRescue(1)}, nil
		})

	code, body := do(t, mux, nil, http.MethodGet,
		"/api/rescue/all?minLat=40&maxLat=50&minLng=170&maxLng=-170&status=pending&limit=20&from=1700000000000", "")

	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["rescues"], 2)
}

func TestRescue_ListDefaultsToWorld(t *testing.T) {
	mux, svc := newRescueMux(t)

	svc.EXPECT().
		Query(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, f models.RescueFilter) ([]*models.Rescue, error) {
			assert.Equal(t, models.World, f.Bounds)
			return nil, nil
		})

	code, body := do(t, mux, nil, http.MethodGet, "/api/rescue/all", "")
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, body["rescues"])
}

func TestRescue_ListRejectsPartialBounds(t *testing.T) {
	mux, _ := newRescueMux(t)

	code, body := do(t, mux, nil, http.MethodGet, "/api/rescue/all?minLat=1&maxLat=2", "")
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, body["error"], "bounds")
}

func TestRescue_ListServiceValidation(t *testing.T) {
	mux, svc := newRescueMux(t)

	svc.EXPECT().Query(gomock.Any(), gomock.Any()).
		Return(nil, types.NewValidationError("minLat", 80.0, "must not exceed maxLat"))

	code, body := do(t, mux, nil, http.MethodGet, "/api/rescue/all?minLat=80&maxLat=10&minLng=0&maxLng=1", "")
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "minLat", body["field"])
	assert.Equal(t, "must not exceed maxLat", body["error"])
}

func TestRescue_HotspotEmpty(t *testing.T) {
	mux, svc := newRescueMux(t)

	svc.EXPECT().Hotspot(gomock.Any(), gomock.Any()).Return(models.Hotspot{}, false, nil)

	code, body := do(t, mux, nil, http.MethodGet, "/api/rescue/hotspot", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "hotspot")
	assert.Nil(t, body["hotspot"])
}

func TestRescue_Get(t *testing.T) {
	mux, svc := newRescueMux(t)

	svc.EXPECT().Get(gomock.Any(), int64(5)).Return(sampleRescue(5), nil)
	svc.EXPECT().Get(gomock.Any(), int64(6)).Return(nil, fmt.Errorf("get rescue: %w", types.ErrRescueNotFound))

	code, body := do(t, mux, nil, http.MethodGet, "/api/rescue/5", "")
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 5, body["rescue"].(map[string]any)["id"])

	code, body = do(t, mux, nil, http.MethodGet, "/api/rescue/6", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "rescue not found", body["error"])

	code, _ = do(t, mux, nil, http.MethodGet, "/api/rescue/abc", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestRescue_UpdateResolve(t *testing.T) {
	mux, svc := newRescueMux(t)

	resolved := sampleRescue(3)
	resolved.Status = types.StatusResolved
	svc.EXPECT().Resolve(gomock.Any(), int64(3), requester).Return(resolved, nil)

	code, body := do(t, mux, requester, http.MethodPatch, "/api/rescue/3", `{"status":"resolved"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "resolved", body["rescue"].(map[string]any)["state"])
}

func TestRescue_UpdateAssistance(t *testing.T) {
	mux, svc := newRescueMux(t)

	svc.EXPECT().
		UpdateAssistance(gomock.Any(), int64(3), requester, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, _ *models.Actor, u models.AssistanceUpdate) (*models.Rescue, error) {
			require.NotNil(t, u.Status)
			assert.Equal(t, types.AssistanceStatus("en_route"), *u.Status)
			assert.Nil(t, u.Channel)
			return sampleRescue(3), nil
		})

	code, _ := do(t, mux, requester, http.MethodPatch, "/api/rescue/3", `{"assistanceStatus":"en_route"}`)
	assert.Equal(t, http.StatusOK, code)
}

func TestRescue_UpdateResolveWithAssistanceForcesResolved(t *testing.T) {
	mux, svc := newRescueMux(t)

	svc.EXPECT().
		UpdateAssistance(gomock.Any(), int64(3), requester, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, _ *models.Actor, u models.AssistanceUpdate) (*models.Rescue, error) {
			require.NotNil(t, u.Status)
			assert.Equal(t, types.AssistanceResolved, *u.Status)
			require.NotNil(t, u.Provider)
			assert.Equal(t, "city tow", *u.Provider)
			return sampleRescue(3), nil
		})

	code, _ := do(t, mux, requester, http.MethodPatch, "/api/rescue/3", `{"status":"resolved","assistanceProvider":"city tow"}`)
	assert.Equal(t, http.StatusOK, code)
}

func TestRescue_UpdateErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"not requester", types.ErrForbidden, http.StatusForbidden},
		{"already resolved", fmt.Errorf("resolve: %w", types.ErrAlreadyResolved), http.StatusConflict},
		{"missing", types.ErrRescueNotFound, http.StatusNotFound},
		{"database down", fmt.Errorf("%w: timeout", types.ErrDatabaseFailed), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux, svc := newRescueMux(t)
			svc.EXPECT().Resolve(gomock.Any(), int64(9), requester).Return(nil, tt.err)

			code, body := do(t, mux, requester, http.MethodPatch, "/api/rescue/9", `{"status":"resolved"}`)
			assert.Equal(t, tt.code, code)
			if tt.code == http.StatusInternalServerError {
				assert.NotContains(t, body["error"], "timeout")
			}
		})
	}
}

func TestRescue_UpdateEmptyBody(t *testing.T) {
	mux, _ := newRescueMux(t)

	code, body := do(t, mux, requester, http.MethodPatch, "/api/rescue/3", `{}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, body["error"], "body")
}

func TestRescue_RegisterPersonalAndTeam(t *testing.T) {
	mux, svc := newRescueMux(t)
	rescuer := &models.Actor{UserID: 11, TeamIDs: []int64{4}}
	rescuerID := rescuer.UserID

	svc.EXPECT().Register(gomock.Any(), int64(3), rescuer, (*int64)(nil)).
		Return(&models.Candidate{ID: 1, RescueID: 3, UserID: &rescuerID, CreatedBy: 11, Status: types.CandidatePending}, nil)
	svc.EXPECT().Register(gomock.Any(), int64(3), rescuer, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, _ *models.Actor, teamID *int64) (*models.Candidate, error) {
			require.NotNil(t, teamID)
			assert.Equal(t, int64(4), *teamID)
			return &models.Candidate{ID: 2, RescueID: 3, TeamID: teamID, CreatedBy: 11, Status: types.CandidatePending}, nil
		})

	code, body := do(t, mux, rescuer, http.MethodPost, "/api/rescue/3/candidates", "")
	require.Equal(t, http.StatusCreated, code)
	assert.EqualValues(t, 1, body["candidate"].(map[string]any)["id"])

	code, body = do(t, mux, rescuer, http.MethodPost, "/api/rescue/3/candidates", `{"teamId":4}`)
	require.Equal(t, http.StatusCreated, code)
	assert.EqualValues(t, 2, body["candidate"].(map[string]any)["id"])
}

func TestRescue_RegisterConflicts(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"self candidacy", types.ErrSelfCandidacy, http.StatusConflict, types.ErrSelfCandidacy.Error()},
		{"duplicate", fmt.Errorf("insert: %w", types.ErrDuplicateCandidate), http.StatusConflict, types.ErrDuplicateCandidate.Error()},
		{"closed", types.ErrRescueClosed, http.StatusConflict, types.ErrRescueClosed.Error()},
		{"team of others", types.ErrForbidden, http.StatusForbidden, types.ErrForbidden.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux, svc := newRescueMux(t)
			svc.EXPECT().Register(gomock.Any(), int64(3), requester, gomock.Any()).Return(nil, tt.err)

			code, body := do(t, mux, requester, http.MethodPost, "/api/rescue/3/candidates", "")
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.msg, body["error"])
		})
	}
}

func TestRescue_Reject(t *testing.T) {
	mux, svc := newRescueMux(t)

	svc.EXPECT().Reject(gomock.Any(), int64(3), int64(8), requester).
		Return(&models.Candidate{ID: 8, RescueID: 3, Status: types.CandidateRejected}, nil)

	code, body := do(t, mux, requester, http.MethodPost, "/api/rescue/3/candidates/8/reject", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "rejected", body["candidate"].(map[string]any)["status"])
}

func TestRescue_Assign(t *testing.T) {
	mux, svc := newRescueMux(t)

	rescuerID := int64(11)
	assigned := sampleRescue(3)
	assigned.AssignedRescuerID = &rescuerID
	assigned.Version = 2

	gomock.InOrder(
		svc.EXPECT().Assign(gomock.Any(), int64(3), int64(8), requester).Return(assigned, nil),
		svc.EXPECT().Assign(gomock.Any(), int64(3), int64(9), requester).
			Return(nil, fmt.Errorf("assign: %w", types.ErrAlreadyAssigned)),
	)

	code, body := do(t, mux, requester, http.MethodPost, "/api/rescue/3/assign", `{"candidateId":8}`)
	require.Equal(t, http.StatusOK, code)
	rescue := body["rescue"].(map[string]any)
	assert.Equal(t, "assigned", rescue["state"])
	assert.EqualValues(t, 11, rescue["assignedRescuerId"])

	code, body = do(t, mux, requester, http.MethodPost, "/api/rescue/3/assign", `{"candidateId":9}`)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "rescue already assigned", body["error"])

	code, _ = do(t, mux, requester, http.MethodPost, "/api/rescue/3/assign", `{}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{types.NewValidationError("latitude", 100, "out of range"), http.StatusUnprocessableEntity},
		{types.ErrEmptyContent, http.StatusUnprocessableEntity},
		{types.ErrContentTooLong, http.StatusUnprocessableEntity},
		{types.ErrUnauthorized, http.StatusUnauthorized},
		{types.ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("%w: %w", types.ErrForbidden, types.ErrAlreadyResolved), http.StatusConflict},
		{types.ErrStaleLocation, http.StatusConflict},
		{types.ErrInvalidCandidate, http.StatusConflict},
		{types.ErrCandidateNotFound, http.StatusNotFound},
		{types.ErrNotificationNotFound, http.StatusNotFound},
		{types.ErrConnectionLost, http.StatusServiceUnavailable},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.code, handler.GetCode(tt.err))
		})
	}
}
