package shared

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	type payload struct {
		Topic string `json:"topic"`
		Count int    `json:"count"`
	}

	tests := []struct {
		name    string
		body    string
		want    payload
		wantErr error
	}{
		{name: "valid json", body: `{"topic":"Essen","count":5}`, want: payload{"Essen", 5}},
		{name: "empty body", body: "", wantErr: ErrEmptyBody},
		{name: "invalid json", body: `{"topic":`, wantErr: ErrInvalidJSON},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			var got payload
			err := DecodeJSON(req, &got)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

type selfValidating struct{ ok bool }

func (s selfValidating) Validate() error {
	if !s.ok {
		return errors.New("not ok")
	}
	return nil
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	type addRequest struct {
		Source string `validate:"required"`
	}

	assert.NoError(t, ValidateRequest(addRequest{Source: "Haus"}))
	assert.Error(t, ValidateRequest(addRequest{}))
	assert.NoError(t, ValidateRequest(selfValidating{ok: true}))
	assert.Error(t, ValidateRequest(selfValidating{}))
}
