package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accessrating-backend/internal/shared/apperror"
)

func testContext(target string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c
}

func TestParsePagination(t *testing.T) {
	page, limit, err := ParsePagination(testContext("/x"))
	require.NoError(t, err)
	assert.Equal(t, DefaultPage, page)
	assert.Equal(t, DefaultLimit, limit)

	page, limit, err = ParsePagination(testContext("/x?page=3&limit=50"))
	require.NoError(t, err)
	assert.Equal(t, 3, page)
	assert.Equal(t, 50, limit)

	for _, q := range []string{"page=0", "page=abc", "limit=0", "limit=101"} {
		_, _, err := ParsePagination(testContext("/x?" + q))
		assert.True(t, apperror.IsKind(err, apperror.KindValidation), q)
	}
}

func TestParseUUIDParam(t *testing.T) {
	c := testContext("/x")
	id := uuid.New()
	c.Params = gin.Params{{Key: "id", Value: id.String()}, {Key: "bad", Value: "nope"}}

	got, err := ParseUUIDParam(c, "id")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = ParseUUIDParam(c, "bad")
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidID, appErr.Code)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_now \\o/`, EscapeLike(`50% off_now \o/`))
}

func TestExtractClientIP(t *testing.T) {
	c := testContext("/x")
	c.Request.RemoteAddr = "10.0.0.9:5555"
	assert.Equal(t, "10.0.0.9", ExtractClientIP(c))

	c.Request.Header.Set("X-Real-IP", "203.0.113.7")
	assert.Equal(t, "203.0.113.7", ExtractClientIP(c))

	c.Request.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.1")
	assert.Equal(t, "198.51.100.1", ExtractClientIP(c))

	c.Request.Header.Set("X-Forwarded-For", "garbage")
	assert.Equal(t, "203.0.113.7", ExtractClientIP(c))
}
