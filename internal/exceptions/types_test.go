package exceptions

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	cases := map[string]struct {
		err    error
		status int
	}{
		"Validation":      {Validation("title is required"), 400},
		"InvalidInput":    {InvalidInput("bad body"), 400},
		"Unauthenticated": {Unauthenticated(), 401},
		"NotFound":        {NotFound("pantry item", "x"), 404},
		"MalformedKey":    {MalformedKey("a#b"), 500},
		"RateLimited":     {GenerationFailed(RATE_LIMITED, nil), 429},
		"BadCredentials":  {GenerationFailed(INVALID_CREDENTIALS, nil), 500},
		"MalformedOutput": {GenerationFailed(MALFORMED_OUTPUT, nil), 502},
		"Rejected":        {GenerationFailed(UPSTREAM_REJECTED, nil), 502},
		"StoreDown":       {StoreUnavailable("get", errors.New("boom")), 503},
		"Internal":        {InternalServer("oops"), 500},
		"Plain":           {errors.New("plain"), 500},
		"Wrapped":         {fmt.Errorf("context: %w", NotFound("recipe", "r")), 404},
		"ServiceError":    {&ServiceError{StatusCode: 418, Cause: errors.New("teapot")}, 418},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, c.status, StatusCode(c.err))
		})
	}
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "Validation failed: a, b", Validation("a", "b").Error())
	cause := errors.New("upstream said no")
	gfe := GenerationFailed(UPSTREAM_REJECTED, cause)
	assert.ErrorIs(t, gfe, cause)
	assert.NotContains(t, gfe.ToServiceError().Error(), "upstream said no")
	sue := StoreUnavailable("query", cause)
	assert.ErrorIs(t, sue, cause)
	assert.NotContains(t, sue.ToServiceError().Error(), "upstream said no")
}
