package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/storefront-api/internal/shared/faults"
)

var errBadThing = errors.New("bad thing")

func respond(t *testing.T, err error) (*httptest.ResponseRecorder, ProblemDetail) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	responder := NewChainedResponder("", MapFault, MapSentinel(ErrValidation, errBadThing))
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/v1/checkout", nil)
	responder.RespondError(c, err)

	var problem ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return rec, problem
}

func TestFaultKindsMapToDistinctStatuses(t *testing.T) {
	cases := map[int]error{
		http.StatusForbidden:           faults.ErrUnauthorized,
		http.StatusNotFound:            fmt.Errorf("product 3: %w", faults.ErrNotFound),
		http.StatusConflict:            faults.InsufficientStock(4, "Desk", 0, 1),
		http.StatusUnprocessableEntity: faults.ErrEmptyCart,
		http.StatusServiceUnavailable:  faults.Persistence(errors.New("deadlock")),
		http.StatusBadRequest:          fmt.Errorf("wrapped: %w", errBadThing),
	}
	for status, err := range cases {
		rec, problem := respond(t, err)
		assert.Equal(t, status, rec.Code, err.Error())
		assert.Equal(t, status, problem.Status)
		assert.Equal(t, ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
		assert.Equal(t, "/v1/checkout", problem.Instance)
		assert.NotEmpty(t, problem.Detail)
	}
}

func TestInsufficientStockExtensions(t *testing.T) {
	_, problem := respond(t, faults.InsufficientStock(4, "Desk", 0, 1))
	assert.Equal(t, TypeInsufficientStock, problem.Type)
	assert.EqualValues(t, 4, problem.Extensions["productId"])
	assert.Equal(t, "Desk", problem.Extensions["productName"])
	assert.EqualValues(t, 0, problem.Extensions["available"])
}

func TestUnknownErrorsHideDetail(t *testing.T) {
	rec, problem := respond(t, errors.New("dial tcp 10.0.0.3:5432: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, problem.Detail)
}

func TestPersistenceDetailIsUserFacing(t *testing.T) {
	_, problem := respond(t, faults.Persistence(errors.New("pq: deadlock detected")))
	assert.Equal(t, faults.ErrPersistenceFailure.Error(), problem.Detail)
}

func TestWithExtensionDoesNotAlias(t *testing.T) {
	base := ErrConflict.WithExtension("a", 1)
	derived := base.WithExtension("b", 2)
	assert.Len(t, base.Extensions, 1)
	assert.Len(t, derived.Extensions, 2)
}
