package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/portal/core/dashboard"
)

func Test_dashboardApi(t *testing.T) {
	app, token := setup(t)

	snap, err := app.DB.Snapshot(context.Background())
	require.NoError(t, err)

	tests := []httpTest{
		{name: "Auth required (snapshot)", path: "/api/dashboard/snapshot", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "Auth required (overview)", path: "/api/dashboard/overview", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "snapshot", path: "/api/dashboard/snapshot", token: token, wantCode: http.StatusOK, wantData: marchallObj(t, snap)},
		{name: "overview", path: "/api/dashboard/overview", token: token, wantCode: http.StatusOK, wantData: marchallObj(t, dashboard.Build(snap))},
	}

	for _, tt := range tests {
		tt.method = http.MethodGet

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token)
			app.Server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	req, rec := newAuthRequest(http.MethodGet, "/api/dashboard/overview", token)
	app.Server.ServeHTTP(rec, req)

	var overview dashboard.Overview
	unmarshallObj(t, rec.Body.Bytes(), &overview)
	assert.Equal(t, 3, overview.Metrics.Students)
	assert.Equal(t, 2, overview.Metrics.Classes)
	assert.Equal(t, 2, overview.Metrics.ActiveStudents)
}
