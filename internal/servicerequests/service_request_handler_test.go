package servicerequests

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"procurement/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockReader struct {
	mock.Mock
}

func (m *MockReader) GetRequest(id int) (*models.ServiceRequest, error) {
	args := m.Called(id)
	if request, ok := args.Get(0).(*models.ServiceRequest); ok {
		return request, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReader) GetRequests(status string, departmentID *int, limit, offset int) ([]models.ServiceRequest, error) {
	args := m.Called(status, departmentID, limit, offset)
	return args.Get(0).([]models.ServiceRequest), args.Error(1)
}

type stubUserFetcher struct {
	user *models.User
}

func (s *stubUserFetcher) GetUser(id int) (*models.User, error) {
	return s.user, nil
}

func newTestRouter(reader Reader, users UserFetcher, userID, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	group := router.Group("")
	group.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("role", role)
		c.Next()
	})

	handler := NewHandler(newTestService(new(MockStore), &fakeNotifier{}), reader, users)
	handler.RegisterRoutes(group)

	return router
}

func TestStaffListIsForcedToOwnDepartment(t *testing.T) {
	departmentID := 1
	reader := new(MockReader)
	reader.On("GetRequests", "", mock.MatchedBy(func(scope *int) bool {
		return scope != nil && *scope == 1
	}), 50, 0).Return([]models.ServiceRequest{{ID: 3, DepartmentID: 1}}, nil).Once()

	user := &models.User{ID: 7, Role: "staff", DepartmentID: &departmentID}
	router := newTestRouter(reader, &stubUserFetcher{user: user}, "7", "staff")

	// the caller asks for department 2; the filter is overridden
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/service-requests?department_id=2", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var rows []models.ServiceRequest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].DepartmentID)
	reader.AssertExpectations(t)
}

func TestStaffCannotReadForeignDepartmentRequest(t *testing.T) {
	departmentID := 1
	reader := new(MockReader)
	reader.On("GetRequest", 1).Return(&models.ServiceRequest{ID: 1, DepartmentID: 2}, nil).Once()

	user := &models.User{ID: 7, Role: "staff", DepartmentID: &departmentID}
	router := newTestRouter(reader, &stubUserFetcher{user: user}, "7", "staff")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/service-requests/1", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	reader.AssertExpectations(t)
}

func TestManagerListIsNotScoped(t *testing.T) {
	reader := new(MockReader)
	reader.On("GetRequests", "", (*int)(nil), 50, 0).Return([]models.ServiceRequest{}, nil).Once()

	// the fetcher would fail if consulted; managers never are
	router := newTestRouter(reader, &stubUserFetcher{}, "9", "manager")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/service-requests", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	reader.AssertExpectations(t)
}
