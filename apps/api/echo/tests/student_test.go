package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/portal/core/student"
	"github.com/trezcool/portal/tests"
)

func Test_studentApi_query(t *testing.T) {
	app, token := setup(t)

	students, err := app.StudentSvc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, students, 3)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "Get all", token: token, wantCode: http.StatusOK, wantData: marchallObj(t, students)},
	}

	for _, tt := range tests {
		tt.method = http.MethodGet
		tt.path = "/api/students"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token)
			app.Server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_studentApi_create(t *testing.T) {
	app, token := setup(t)

	type newStudent struct {
		Name    string  `json:"name"`
		Email   string  `json:"email"`
		ClassID *string `json:"classId"`
		Status  string  `json:"status"`
	}

	tests := []httpTest{
		{name: "Auth required", body: []byte(`{}`), wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "empty body", token: token, body: []byte(`{}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{
				Message: "Nome é obrigatório.",
				Fields: map[string]string{
					"name":   "Nome é obrigatório.",
					"email":  "E-mail é obrigatório.",
					"status": "Status inválido.",
				},
			}),
		},
		{
			name: "invalid status", token: token, wantCode: http.StatusBadRequest,
			body: marchallObj(t, newStudent{Name: "Eva", Email: "eva@email.com", Status: "graduated"}),
			wantData: marchallObj(t, httpErr{
				Message: "Status inválido.",
				Fields:  map[string]string{"status": "Status inválido."},
			}),
		},
		{
			name: "unknown class", token: token, wantCode: http.StatusBadRequest,
			body: marchallObj(t, newStudent{Name: "Eva", Email: "eva@email.com", ClassID: testutil.StrPtr("class-404"), Status: "active"}),
			wantData: marchallObj(t, httpErr{
				Message: "Turma não encontrada.",
				Fields:  map[string]string{"classId": "Turma não encontrada."},
			}),
		},
		{
			name: "without class", token: token, wantCode: http.StatusCreated,
			body:  marchallObj(t, newStudent{Name: " Eva Nunes ", Email: "eva@email.com", Status: "active"}),
			extra: "",
		},
		{
			name: "in class", token: token, wantCode: http.StatusCreated,
			body:  marchallObj(t, newStudent{Name: "Fábio", Email: "fabio@email.com", ClassID: testutil.StrPtr("class-2"), Status: "inactive"}),
			extra: "class-2",
		},
	}

	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/api/students"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.Server.ServeHTTP(rec, req)

			classID, ok := tt.extra.(string)
			if !ok {
				checkCodeAndData(t, tt, rec)
				return
			}
			checkCode(t, tt, rec)

			var std student.Student
			unmarshallObj(t, rec.Body.Bytes(), &std)
			assert.NotEmpty(t, std.ID)
			assert.NotContains(t, std.Name, " Eva")

			if classID == "" {
				assert.Nil(t, std.ClassID)
				return
			}
			require.NotNil(t, std.ClassID)
			assert.Equal(t, classID, *std.ClassID)
			class, err := app.ClassSvc.Get(context.Background(), classID)
			require.NoError(t, err)
			assert.Contains(t, class.StudentIDs, std.ID)
		})
	}
}

func Test_studentApi_retrieve(t *testing.T) {
	app, token := setup(t)

	std, err := app.StudentSvc.Get(context.Background(), "student-1")
	require.NoError(t, err)

	tests := []httpTest{
		{name: "Auth required", path: "/api/students/student-1", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "not found", path: "/api/students/student-404", token: token, wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Message: "Aluno não encontrado."}),
		},
		{name: "found", path: "/api/students/student-1", token: token, wantCode: http.StatusOK, wantData: marchallObj(t, std)},
	}

	for _, tt := range tests {
		tt.method = http.MethodGet

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token)
			app.Server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_studentApi_update(t *testing.T) {
	app, token := setup(t)
	ctx := context.Background()

	update := func(t *testing.T, id, body string) (int, student.Student, []byte) {
		req, rec := newAuthRequest(http.MethodPut, "/api/students/"+id, token, []byte(body))
		app.Server.ServeHTTP(rec, req)
		var std student.Student
		if rec.Code == http.StatusOK {
			unmarshallObj(t, rec.Body.Bytes(), &std)
		}
		return rec.Code, std, rec.Body.Bytes()
	}

	t.Run("not found", func(t *testing.T) {
		code, _, body := update(t, "student-404", `{"name":"X"}`)
		assert.Equal(t, http.StatusNotFound, code)
		ok, err := jsonBytesEqual(t, body, marchallObj(t, httpErr{Message: "Aluno não encontrado."}))
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("blank name", func(t *testing.T) {
		code, _, body := update(t, "student-1", `{"name":"  "}`)
		assert.Equal(t, http.StatusBadRequest, code)
		ok, err := jsonBytesEqual(t, body, marchallObj(t, httpErr{
			Message: "Nome é obrigatório.",
			Fields:  map[string]string{"name": "Nome é obrigatório."},
		}))
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("partial update keeps the class", func(t *testing.T) {
		code, std, _ := update(t, "student-1", `{"status":"inactive"}`)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, student.StatusInactive, std.Status)
		require.NotNil(t, std.ClassID)
		assert.Equal(t, "class-1", *std.ClassID)
	})

	t.Run("move to another class", func(t *testing.T) {
		code, std, _ := update(t, "student-1", `{"classId":"class-2"}`)
		require.Equal(t, http.StatusOK, code)
		require.NotNil(t, std.ClassID)
		assert.Equal(t, "class-2", *std.ClassID)

		from, err := app.ClassSvc.Get(ctx, "class-1")
		require.NoError(t, err)
		to, err := app.ClassSvc.Get(ctx, "class-2")
		require.NoError(t, err)
		assert.NotContains(t, from.StudentIDs, "student-1")
		assert.Contains(t, to.StudentIDs, "student-1")
	})

	t.Run("detach from class", func(t *testing.T) {
		code, std, _ := update(t, "student-1", `{"classId":null}`)
		require.Equal(t, http.StatusOK, code)
		assert.Nil(t, std.ClassID)

		class, err := app.ClassSvc.Get(ctx, "class-2")
		require.NoError(t, err)
		assert.NotContains(t, class.StudentIDs, "student-1")
	})

	t.Run("unknown class", func(t *testing.T) {
		code, _, body := update(t, "student-2", `{"classId":"class-404"}`)
		assert.Equal(t, http.StatusBadRequest, code)
		ok, err := jsonBytesEqual(t, body, marchallObj(t, httpErr{
			Message: "Turma não encontrada.",
			Fields:  map[string]string{"classId": "Turma não encontrada."},
		}))
		assert.NoError(t, err)
		assert.True(t, ok)

		std, err := app.StudentSvc.Get(ctx, "student-2")
		require.NoError(t, err)
		require.NotNil(t, std.ClassID)
		assert.Equal(t, "class-1", *std.ClassID)
	})
}

func Test_studentApi_destroy(t *testing.T) {
	app, token := setup(t)

	req, rec := newAuthRequest(http.MethodDelete, "/api/students/student-2", token)
	app.Server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	class, err := app.ClassSvc.Get(context.Background(), "class-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"student-1"}, class.StudentIDs)

	req, rec = newAuthRequest(http.MethodDelete, "/api/students/student-2", token)
	app.Server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Message: "Aluno não encontrado."})}, rec)
}
