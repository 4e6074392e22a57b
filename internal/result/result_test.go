// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quayside Contributors

package result_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quayside/quayside/internal/result"
)

func TestKindHTTPStatus(t *testing.T) {
	tests := []struct {
		kind result.Kind
		want int
	}{
		{result.KindValidation, http.StatusBadRequest},
		{result.KindBadRequest, http.StatusBadRequest},
		{result.KindUnauthorized, http.StatusUnauthorized},
		{result.KindConflict, http.StatusConflict},
		{result.KindNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.HTTPStatus())
		})
	}

	t.Run("unmapped kind renders as server fault", func(t *testing.T) {
		assert.Equal(t, http.StatusInternalServerError, result.Kind("Bogus").HTTPStatus())
	})
}

func TestResultBranches(t *testing.T) {
	t.Run("success populates only the value branch", func(t *testing.T) {
		r := result.Ok("hello")
		assert.True(t, r.IsOk())
		assert.Equal(t, "hello", r.Value())
		assert.Nil(t, r.Failure())
	})

	t.Run("failure populates only the failure branch", func(t *testing.T) {
		r := result.Fail[string](result.KindConflict, "username is taken")
		assert.False(t, r.IsOk())
		require.NotNil(t, r.Failure())
		assert.Equal(t, result.KindConflict, r.Failure().Kind)
		assert.Equal(t, "username is taken", r.Failure().Message)
	})
}

func TestEnvelope(t *testing.T) {
	t.Run("success envelope", func(t *testing.T) {
		status, body := result.Ok(42).Envelope()
		assert.Equal(t, http.StatusOK, status)
		env, ok := body.(result.SuccessEnvelope[int])
		require.True(t, ok)
		assert.Equal(t, 42, env.Data)
		assert.True(t, env.Success)
	})

	t.Run("error envelope carries kind name as errorCode", func(t *testing.T) {
		status, body := result.Fail[int](result.KindUnauthorized, "invalid username or password").Envelope()
		assert.Equal(t, http.StatusUnauthorized, status)
		env, ok := body.(result.ErrorEnvelope)
		require.True(t, ok)
		assert.Equal(t, "Unauthorized", env.ErrorCode)
		assert.Equal(t, "invalid username or password", env.Message)
	})
}
