package errorsx

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf_WalksWrappedChain(t *testing.T) {
	err := fmt.Errorf("handler: %w", NotFound("product not found"))

	assert.Equal(t, KindNotFound, KindOf(err))
	assert.True(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(err, KindAuth))
}

func TestKindOf_UnclassifiedIsInternal(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.False(t, IsKind(nil, KindInternal))
}

func TestKind_Status(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:    http.StatusUnprocessableEntity,
		KindAuth:          http.StatusUnauthorized,
		KindNotFound:      http.StatusNotFound,
		KindRouteNotFound: http.StatusNotFound,
		KindConflict:      http.StatusConflict,
		KindRateLimited:   http.StatusTooManyRequests,
		KindUnavailable:   http.StatusServiceUnavailable,
		KindInternal:      http.StatusInternalServerError,
	}
	for kind, status := range cases {
		assert.Equal(t, status, kind.Status(), string(kind))
	}
}

func TestError_UnwrapKeepsCause(t *testing.T) {
	cause := errors.New("token expired")
	err := Auth("invalid token", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "invalid token: token expired", err.Error())
}
