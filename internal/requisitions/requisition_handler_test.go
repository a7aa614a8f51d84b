package requisitions

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

type stubUserFetcher struct {
	user *models.User
}

func (s *stubUserFetcher) GetUser(id int) (*models.User, error) {
	return s.user, nil
}

func staffUser(id, departmentID int) *models.User {
	return &models.User{ID: id, Role: "staff", DepartmentID: &departmentID}
}

func newTestRouter(repo RequisitionRepository, users UserFetcher, userID, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	group := router.Group("")
	group.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("role", role)
		c.Next()
	})

	handler := NewHandler(newTestService(repo, &fakeRunner{}, &fakeNotifier{}), users)
	handler.RegisterRoutes(group)

	return router
}

func TestStaffListIsForcedToOwnDepartment(t *testing.T) {
	repo := new(MockRequisitionRepository)
	repo.On("GetRequisitionRows", mock.MatchedBy(func(filter ListFilter) bool {
		return filter.DepartmentID != nil && *filter.DepartmentID == 1
	})).Return([]models.Requisition{{ID: 4, DepartmentID: 1}}, nil).Once()

	router := newTestRouter(repo, &stubUserFetcher{user: staffUser(7, 1)}, "7", "staff")

	// the caller asks for department 2; the filter is overridden
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/requisitions?department_id=2", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var rows []models.Requisition
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].DepartmentID)
	repo.AssertExpectations(t)
}

func TestStaffCannotReadForeignDepartmentRequisition(t *testing.T) {
	repo := new(MockRequisitionRepository)
	repo.On("GetRequisitionRow", 1).Return(&models.Requisition{
		ID: 1, DepartmentID: 2, Status: models.RequisitionStatusPending,
	}, nil).Once()
	repo.On("GetRequisitionItems", 1).Return([]models.RequisitionItem{}, nil).Once()

	router := newTestRouter(repo, &stubUserFetcher{user: staffUser(7, 1)}, "7", "staff")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/requisitions/1", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	repo.AssertExpectations(t)
}

func TestManagerListIsNotScoped(t *testing.T) {
	repo := new(MockRequisitionRepository)
	repo.On("GetRequisitionRows", mock.MatchedBy(func(filter ListFilter) bool {
		return filter.DepartmentID == nil
	})).Return([]models.Requisition{}, nil).Once()

	// the fetcher would fail if consulted; managers never are
	router := newTestRouter(repo, &stubUserFetcher{}, "9", "manager")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/requisitions", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	repo.AssertExpectations(t)
}

func TestGetRequisitionIncludesLineAvailability(t *testing.T) {
	available := 12
	repo := new(MockRequisitionRepository)
	repo.On("GetRequisitionRow", 2).Return(&models.Requisition{
		ID: 2, DepartmentID: 1, Status: models.RequisitionStatusPending,
	}, nil).Once()
	repo.On("GetRequisitionItems", 2).Return([]models.RequisitionItem{
		{ItemID: 5, ItemName: "Printer paper", Quantity: 4, Available: &available},
	}, nil).Once()

	router := newTestRouter(repo, &stubUserFetcher{user: staffUser(7, 1)}, "7", "staff")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/requisitions/2", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var requisition models.Requisition
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &requisition))
	require.Len(t, requisition.Items, 1)
	require.NotNil(t, requisition.Items[0].Available)
	assert.Equal(t, 12, *requisition.Items[0].Available)
	repo.AssertExpectations(t)
}
